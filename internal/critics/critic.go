// Package critics implements the pluggable per-tick cost scorers spec §4.4
// calls "critics": small, independent objects that each add a weighted
// contribution to the batch's cost vector. Where the source this is
// grounded on dispatches every critic through a virtual base class
// (pluginlib), this package uses a closed name-to-constructor registry
// (see registry.go) in the spirit of the teacher's experiment.Registry —
// no plugin loading, just a compile-time table.
package critics

import (
	"github.com/IhabMohamed/mppic/internal/goalchecker"
	"github.com/IhabMohamed/mppic/internal/motionmodel"
	"github.com/IhabMohamed/mppic/internal/tensor"
)

// Data is the per-tick bag every critic reads from and writes its cost
// contribution into. The optimizer owns one Data value per tick and
// refreshes it before running the critic pipeline; critics never retain a
// reference across ticks.
type Data struct {
	// State is the (B, T, 2U+1) control/velocity batch for this tick.
	State *tensor.Array3

	// Trajectories is the (B, T, 3) world-frame (x, y, yaw) rollout
	// produced by the integrator from State.
	Trajectories *tensor.Array3

	Layout  motionmodel.Layout
	ModelDt float64

	// Path is the reference path the robot is tracking, in world frame,
	// already pruned to the lookahead window by the caller.
	PathXs, PathYs, PathYaws []float64

	// RobotPose and Goal are the current robot pose and the final pose of
	// Path, both (x, y, yaw) in world frame.
	RobotPose [3]float64
	Goal      [3]float64

	GoalChecker goalchecker.GoalChecker

	// Costmap answers point-cost queries for ObstaclesCritic. It is nil
	// whenever no costmap collaborator has been wired in, in which case
	// ObstaclesCritic is a no-op.
	Costmap CostQuerier

	// Costs is the per-sample additive cost accumulator, length B. Every
	// critic adds into it in place; it is never reset mid-pipeline.
	Costs []float64

	// FailFlag is set by a critic (ObstaclesCritic) when every sample in
	// the batch is judged to be in collision, signaling the optimizer
	// should treat this tick as a failed iteration (spec §7).
	FailFlag bool
}

// NearGoal reports whether the robot's current pose is within the
// goal-checker's configured tolerance of Goal, the condition several
// critics use to disable themselves near the goal.
func (d *Data) NearGoal() bool {
	if d.GoalChecker == nil {
		return false
	}
	return d.GoalChecker.IsGoalReached(d.RobotPose, d.Goal)
}

// LastPathPoint returns the final (x, y, yaw) of the reference path.
func (d *Data) LastPathPoint() (x, y, yaw float64) {
	n := len(d.PathXs)
	return d.PathXs[n-1], d.PathYs[n-1], d.PathYaws[n-1]
}

// CostQuerier is the consumer-side interface ObstaclesCritic uses to read
// collision cost at a world point, satisfied by internal/costmap's dense
// grid without critics importing that package's concrete type.
type CostQuerier interface {
	// CostAt returns the cost of the cell containing (x, y) and whether
	// that cell is lethal (occupied). Points outside the map bounds
	// should be treated as lethal.
	CostAt(x, y float64) (cost float64, lethal bool)
}

// Critic scores one batch's trajectories and adds a weighted contribution
// into Data.Costs. Implementations must not allocate per call on the hot
// path beyond what the optimizer's reused scratch already covers.
type Critic interface {
	// Name identifies the critic for config and logging.
	Name() string

	// Score evaluates data.Trajectories (and data.State, where a critic
	// needs raw velocities) and adds its contribution into data.Costs.
	Score(data *Data) error
}

// Constructor builds a Critic from its configured weight and any
// critic-specific named parameters (e.g. "power", "threshold").
type Constructor func(weight float64, params map[string]float64) (Critic, error)

func paramOr(params map[string]float64, name string, def float64) float64 {
	if v, ok := params[name]; ok {
		return v
	}
	return def
}
