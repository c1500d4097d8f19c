package critics

import "math"

// preferForwardCritic penalizes samples that command reverse motion (vx <
// 0) at any step of the horizon, on the theory that a robot negotiating a
// forward-facing task should avoid backing up unless nothing else works.
type preferForwardCritic struct {
	enabled bool
	weight  float64
	power   float64
}

func newPreferForwardCritic(weight float64, params map[string]float64) (Critic, error) {
	return &preferForwardCritic{
		enabled: paramOr(params, "enabled", 1) != 0,
		weight:  weight,
		power:   paramOr(params, "power", 1),
	}, nil
}

func (c *preferForwardCritic) Name() string { return "PreferForwardCritic" }

func (c *preferForwardCritic) Score(data *Data) error {
	if !c.enabled || data.NearGoal() {
		return nil
	}
	vxIdx := data.Layout.VelocityStart() + data.Layout.VxIndex()

	for b := 0; b < data.State.Batch; b++ {
		var sum float64
		for t := 0; t < data.State.Time; t++ {
			vx := data.State.Cell(b, t)[vxIdx]
			if vx < 0 {
				sum += -vx
			}
		}
		data.Costs[b] += c.weight * math.Pow(sum, c.power)
	}
	return nil
}
