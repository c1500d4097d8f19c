// Package costmap provides the consumer-side interface for the external
// costmap collaborator spec §1 treats as outside this controller's scope,
// plus a minimal in-memory dense-grid implementation usable standalone and
// in tests without a full navigation stack behind it.
package costmap

import "math"

// Grid is a dense, axis-aligned occupancy grid in world coordinates. Cell
// (0, 0) covers [OriginX, OriginX+Resolution) x [OriginY, OriginY+Resolution).
// Costs run 0 (free) to 254 (lethal); 255 is reserved for unknown, which
// this implementation treats as lethal to stay conservative.
type Grid struct {
	OriginX, OriginY float64
	Resolution       float64
	Width, Height    int // cells
	Cells            []uint8
}

const lethalCost = 254
const unknownCost = 255

// NewGrid allocates a free (all-zero) grid of the given size.
func NewGrid(originX, originY, resolution float64, width, height int) *Grid {
	return &Grid{
		OriginX:    originX,
		OriginY:    originY,
		Resolution: resolution,
		Width:      width,
		Height:     height,
		Cells:      make([]uint8, width*height),
	}
}

// SetCost sets the cost of cell (cx, cy); out-of-range cells are ignored.
func (g *Grid) SetCost(cx, cy int, cost uint8) {
	if cx < 0 || cy < 0 || cx >= g.Width || cy >= g.Height {
		return
	}
	g.Cells[cy*g.Width+cx] = cost
}

// WorldToCell converts a world point to its containing cell, returning ok
// false when the point falls outside the grid.
func (g *Grid) WorldToCell(x, y float64) (cx, cy int, ok bool) {
	cx = int(math.Floor((x - g.OriginX) / g.Resolution))
	cy = int(math.Floor((y - g.OriginY) / g.Resolution))
	if cx < 0 || cy < 0 || cx >= g.Width || cy >= g.Height {
		return 0, 0, false
	}
	return cx, cy, true
}

// CostAt implements critics.CostQuerier: points outside the grid, and
// cells marked unknown, are reported lethal.
func (g *Grid) CostAt(x, y float64) (cost float64, lethal bool) {
	cx, cy, ok := g.WorldToCell(x, y)
	if !ok {
		return lethalCost, true
	}
	c := g.Cells[cy*g.Width+cx]
	if c == unknownCost {
		return lethalCost, true
	}
	return float64(c), c >= lethalCost
}
