package critics

import "math"

// referenceTrajectoryCritic is the "exact" path-following critic: for each
// rollout point it searches the whole reference path for the nearest path
// point and averages that squared distance over the horizon. O(T·P) per
// sample, where P is the path length.
type referenceTrajectoryCritic struct {
	enabled bool
	weight  float64
	power   float64
}

func newReferenceTrajectoryCritic(weight float64, params map[string]float64) (Critic, error) {
	return &referenceTrajectoryCritic{
		enabled: paramOr(params, "enabled", 1) != 0,
		weight:  weight,
		power:   paramOr(params, "power", 1),
	}, nil
}

func (c *referenceTrajectoryCritic) Name() string { return "ReferenceTrajectoryCritic" }

func (c *referenceTrajectoryCritic) Score(data *Data) error {
	if !c.enabled {
		return nil
	}
	n := len(data.PathXs)
	if n == 0 {
		return nil
	}
	T := data.Trajectories.Time

	for b := 0; b < data.Trajectories.Batch; b++ {
		var sum float64
		for t := 0; t < T; t++ {
			cell := data.Trajectories.Cell(b, t)
			best := math.MaxFloat64
			for pi := 0; pi < n; pi++ {
				dx := cell[0] - data.PathXs[pi]
				dy := cell[1] - data.PathYs[pi]
				if d := dx*dx + dy*dy; d < best {
					best = d
				}
			}
			sum += best
		}
		mean := sum / float64(T)
		data.Costs[b] += c.weight * math.Pow(mean, c.power)
	}
	return nil
}

// resampleIndex maps step i of T evenly spaced rollout steps onto an index
// in a path of length n.
func resampleIndex(i, T, n int) int {
	if T <= 1 {
		return n - 1
	}
	idx := i * (n - 1) / (T - 1)
	if idx >= n {
		idx = n - 1
	}
	return idx
}
