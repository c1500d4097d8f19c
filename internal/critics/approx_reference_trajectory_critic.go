package critics

import "math"

// approxReferenceTrajectoryCritic trades exactness for speed against
// referenceTrajectoryCritic: rather than searching the whole path for every
// rollout point, it walks one cursor per sample forward along the path as
// the rollout step advances, taking whichever of the next lookahead path
// points is closest. Good enough when the path is dense
// relative to the rollout's spatial step, which is the common case.
type approxReferenceTrajectoryCritic struct {
	enabled   bool
	weight    float64
	power     float64
	lookahead int // how many path points ahead of the cursor to scan
}

func newApproxReferenceTrajectoryCritic(weight float64, params map[string]float64) (Critic, error) {
	return &approxReferenceTrajectoryCritic{
		enabled:   paramOr(params, "enabled", 1) != 0,
		weight:    weight,
		power:     paramOr(params, "power", 1),
		lookahead: int(paramOr(params, "lookahead", 5)),
	}, nil
}

func (c *approxReferenceTrajectoryCritic) Name() string { return "ApproxReferenceTrajectoryCritic" }

func (c *approxReferenceTrajectoryCritic) Score(data *Data) error {
	if !c.enabled {
		return nil
	}
	n := len(data.PathXs)
	if n == 0 {
		return nil
	}
	T := data.Trajectories.Time

	for b := 0; b < data.Trajectories.Batch; b++ {
		cursor := 0
		var sum float64
		for t := 0; t < T; t++ {
			cell := data.Trajectories.Cell(b, t)
			best := math.MaxFloat64
			bestIdx := cursor
			hi := cursor + c.lookahead
			if hi >= n {
				hi = n - 1
			}
			for idx := cursor; idx <= hi; idx++ {
				dx := cell[0] - data.PathXs[idx]
				dy := cell[1] - data.PathYs[idx]
				d := dx*dx + dy*dy
				if d < best {
					best = d
					bestIdx = idx
				}
			}
			cursor = bestIdx
			sum += best
		}
		mean := sum / float64(T)
		data.Costs[b] += c.weight * math.Pow(mean, c.power)
	}
	return nil
}
