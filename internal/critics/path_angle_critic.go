package critics

import "math"

// pathAngleCritic penalizes the mean absolute angular deviation between
// each rollout point's trajectory yaw and the yaw of its nearest path
// segment, averaged over the horizon. A sample whose mean deviation is at
// or below max_angle_to_furthest (default 1.2 rad) adds no cost. Disabled
// near the goal, where
// heading should track the goal pose instead (handled by
// GoalAngleCritic).
type pathAngleCritic struct {
	enabled      bool
	weight       float64
	power        float64
	maxMeanAngle float64
}

func newPathAngleCritic(weight float64, params map[string]float64) (Critic, error) {
	return &pathAngleCritic{
		enabled:      paramOr(params, "enabled", 1) != 0,
		weight:       weight,
		power:        paramOr(params, "power", 1),
		maxMeanAngle: paramOr(params, "max_angle_to_furthest", 1.2),
	}, nil
}

func (c *pathAngleCritic) Name() string { return "PathAngleCritic" }

func (c *pathAngleCritic) Score(data *Data) error {
	if !c.enabled || data.NearGoal() {
		return nil
	}
	// Paths of length 1 have no segment to measure against.
	if len(data.PathXs) < 2 {
		return nil
	}

	T := data.Trajectories.Time
	for b := 0; b < data.Trajectories.Batch; b++ {
		var sum float64
		for t := 0; t < T; t++ {
			cell := data.Trajectories.Cell(b, t)
			segYaw := nearestSegmentYaw(cell[0], cell[1], data.PathXs, data.PathYs)
			sum += math.Abs(angleDiff(cell[2], segYaw))
		}
		mean := sum / float64(T)
		if mean <= c.maxMeanAngle {
			continue
		}
		data.Costs[b] += c.weight * math.Pow(mean, c.power)
	}
	return nil
}

// nearestSegmentYaw finds the path segment (xs[i],ys[i])-(xs[i+1],ys[i+1])
// closest to (x, y) and returns that segment's heading via atan2.
func nearestSegmentYaw(x, y float64, xs, ys []float64) float64 {
	best := math.MaxFloat64
	var bestYaw float64
	for i := 0; i < len(xs)-1; i++ {
		x1, y1, x2, y2 := xs[i], ys[i], xs[i+1], ys[i+1]
		if d := pointToSegmentDistSq(x, y, x1, y1, x2, y2); d < best {
			best = d
			bestYaw = math.Atan2(y2-y1, x2-x1)
		}
	}
	return bestYaw
}

// pointToSegmentDistSq returns the squared distance from (px, py) to the
// segment (x1,y1)-(x2,y2).
func pointToSegmentDistSq(px, py, x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		ddx, ddy := px-x1, py-y1
		return ddx*ddx + ddy*ddy
	}
	t := ((px-x1)*dx + (py-y1)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx, cy := x1+t*dx, y1+t*dy
	ddx, ddy := px-cx, py-cy
	return ddx*ddx + ddy*ddy
}
