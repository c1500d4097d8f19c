// Package goalchecker defines the consumer-side interface for the
// goal-checker plugin spec §1 treats as an external collaborator: the
// optimizer and the goal-related critics only need to ask "are we close
// enough to stop/turn to face the goal", not how tolerance is computed.
package goalchecker

// GoalChecker reports whether a pose is within the tolerances configured
// for a completed approach to a goal pose.
type GoalChecker interface {
	// IsGoalReached reports whether pose is within tolerance of goal.
	IsGoalReached(pose, goal [3]float64) bool

	// XYTolerance and YawTolerance expose the checker's configured
	// tolerances so critics can build a margin around them (e.g.
	// GoalCritic activating only "near" the goal).
	XYTolerance() float64
	YawTolerance() float64
}

// Simple is a fixed-tolerance GoalChecker, useful standalone and in tests
// in place of a host-supplied plugin.
type Simple struct {
	XYTol  float64
	YawTol float64
}

// NewSimple returns a Simple GoalChecker with the given tolerances.
func NewSimple(xyTol, yawTol float64) *Simple {
	return &Simple{XYTol: xyTol, YawTol: yawTol}
}

func (s *Simple) IsGoalReached(pose, goal [3]float64) bool {
	dx := pose[0] - goal[0]
	dy := pose[1] - goal[1]
	return dx*dx+dy*dy <= s.XYTol*s.XYTol
}

func (s *Simple) XYTolerance() float64  { return s.XYTol }
func (s *Simple) YawTolerance() float64 { return s.YawTol }
