package critics

import "math"

// twirlingCritic penalizes large angular velocity magnitude across the
// horizon, discouraging the optimizer from favoring samples that spin the
// robot in place rather than making translational progress.
type twirlingCritic struct {
	enabled bool
	weight  float64
	power   float64
}

func newTwirlingCritic(weight float64, params map[string]float64) (Critic, error) {
	return &twirlingCritic{
		enabled: paramOr(params, "enabled", 1) != 0,
		weight:  weight,
		power:   paramOr(params, "power", 1),
	}, nil
}

func (c *twirlingCritic) Name() string { return "TwirlingCritic" }

func (c *twirlingCritic) Score(data *Data) error {
	if !c.enabled || data.NearGoal() {
		return nil
	}
	wzIdx := data.Layout.VelocityStart() + data.Layout.WzIndex()

	for b := 0; b < data.State.Batch; b++ {
		var maxAbs float64
		for t := 0; t < data.State.Time; t++ {
			wz := math.Abs(data.State.Cell(b, t)[wzIdx])
			if wz > maxAbs {
				maxAbs = wz
			}
		}
		data.Costs[b] += c.weight * math.Pow(maxAbs, c.power)
	}
	return nil
}
