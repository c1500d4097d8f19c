package motionmodel

import (
	"math"

	"github.com/IhabMohamed/mppic/internal/tensor"
)

// ackermann is the non-holonomic model with a minimum turning radius: it
// cannot turn tighter than a wheelbase-limited circle, unlike DiffDrive.
type ackermann struct {
	minTurningRadius float64
}

func (a *ackermann) Kind() Kind { return Ackermann }

func (a *ackermann) IsHolonomic() bool { return false }

// ApplyConstraints enforces |wz| · min_turning_radius ≤ |vx| for every
// (sample, time-step) cell (spec §4.1, §8 invariant 2): where the raw
// sampled wz would violate it, wz is scaled toward zero to the largest
// magnitude that satisfies the constraint exactly, preserving its sign.
// vx is never touched here.
func (a *ackermann) ApplyConstraints(controls *tensor.Array3) {
	if a.minTurningRadius <= 0 {
		return
	}
	for b := 0; b < controls.Batch; b++ {
		for t := 0; t < controls.Time; t++ {
			cell := controls.Cell(b, t)
			vx, wz := cell[ColVx], cell[ColWzNonHolonomic]
			limit := math.Abs(vx) / a.minTurningRadius
			if math.Abs(wz) > limit {
				cell[ColWzNonHolonomic] = math.Copysign(limit, wz)
			}
		}
	}
}

func (a *ackermann) Predict(controlRow []float64) []float64 {
	out := make([]float64, len(controlRow))
	copy(out, controlRow)
	return out
}

// MinTurningRadius returns the configured minimum turning radius.
func (a *ackermann) MinTurningRadius() float64 { return a.minTurningRadius }

func (a *ackermann) GetParams() map[string]float64 {
	return map[string]float64{"min_turning_radius": a.minTurningRadius}
}

func (a *ackermann) SetParam(name string, value float64) error {
	if name != "min_turning_radius" {
		return paramError(name)
	}
	a.minTurningRadius = value
	return nil
}
