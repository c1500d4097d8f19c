package critics

import "math"

// obstaclesCritic is grounded on the original controller's
// obstacles_critic.cpp: for each sample it walks the rollout, takes the
// maximum costmap cost seen along the trajectory, and adds that (raised to
// power) into the sample's cost. A sample that crosses a lethal cell is
// additionally marked as a collision; if every sample in the batch
// collides, the critic raises data.FailFlag so the optimizer's fallback
// policy (spec §7) can retry or fail the tick outright, since no sample
// offered a viable escape.
//
// If no costmap collaborator has been wired in, Score is a no-op — a
// headless caller (tests, simulation without a map) simply gets no
// obstacle avoidance rather than a crash.
type obstaclesCritic struct {
	enabled           bool
	weight            float64
	power             float64
	collisionCostMult float64
}

func newObstaclesCritic(weight float64, params map[string]float64) (Critic, error) {
	return &obstaclesCritic{
		enabled:           paramOr(params, "enabled", 1) != 0,
		weight:            weight,
		power:             paramOr(params, "power", 2),
		collisionCostMult: paramOr(params, "collision_cost_multiplier", 10),
	}, nil
}

func (c *obstaclesCritic) Name() string { return "ObstaclesCritic" }

func (c *obstaclesCritic) Score(data *Data) error {
	if !c.enabled || data.Costmap == nil {
		return nil
	}

	collisions := 0
	for b := 0; b < data.Trajectories.Batch; b++ {
		var maxCost float64
		collided := false
		for t := 0; t < data.Trajectories.Time; t++ {
			cell := data.Trajectories.Cell(b, t)
			cost, lethal := data.Costmap.CostAt(cell[0], cell[1])
			if cost > maxCost {
				maxCost = cost
			}
			if lethal {
				collided = true
			}
		}
		if collided {
			collisions++
			maxCost *= c.collisionCostMult
		}
		data.Costs[b] += c.weight * math.Pow(maxCost, c.power)
	}

	if collisions == data.Trajectories.Batch {
		data.FailFlag = true
	}
	return nil
}
