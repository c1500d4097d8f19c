package critics

import "math"

// goalCritic penalizes the distance between each sample's final rollout
// point and the goal pose, active only once the robot is within
// thresholdToConsider of the goal so it doesn't fight the path-following
// critics during the long approach.
type goalCritic struct {
	enabled            bool
	weight             float64
	power              float64
	thresholdToConsider float64
}

func newGoalCritic(weight float64, params map[string]float64) (Critic, error) {
	return &goalCritic{
		enabled:             paramOr(params, "enabled", 1) != 0,
		weight:              weight,
		power:               paramOr(params, "power", 1),
		thresholdToConsider: paramOr(params, "threshold_to_consider", 1.4),
	}, nil
}

func (c *goalCritic) Name() string { return "GoalCritic" }

func (c *goalCritic) Score(data *Data) error {
	if !c.enabled {
		return nil
	}
	dx := data.RobotPose[0] - data.Goal[0]
	dy := data.RobotPose[1] - data.Goal[1]
	if math.Hypot(dx, dy) > c.thresholdToConsider {
		return nil
	}

	lastT := data.Trajectories.Time - 1
	for b := 0; b < data.Trajectories.Batch; b++ {
		cell := data.Trajectories.Cell(b, lastT)
		d := math.Hypot(cell[0]-data.Goal[0], cell[1]-data.Goal[1])
		data.Costs[b] += c.weight * math.Pow(d, c.power)
	}
	return nil
}
