package critics

import (
	"errors"
	"math"
	"testing"

	"github.com/IhabMohamed/mppic/internal/goalchecker"
	"github.com/IhabMohamed/mppic/internal/motionmodel"
	"github.com/IhabMohamed/mppic/internal/mppi"
	"github.com/IhabMohamed/mppic/internal/tensor"
)

func newTestData(batch, steps int, holonomic bool) *Data {
	layout := motionmodel.NewLayout(holonomic)
	return &Data{
		State:        tensor.NewArray3(batch, steps, layout.Width()),
		Trajectories: tensor.NewArray3(batch, steps, 3),
		Layout:       layout,
		ModelDt:      0.1,
		Costs:        make([]float64, batch),
		GoalChecker:  goalchecker.NewSimple(0.25, 0.1),
	}
}

func TestBuildRejectsUnknownCritic(t *testing.T) {
	_, err := Build("NoSuchCritic", 1.0, nil)
	if err == nil {
		t.Fatal("expected an error for unknown critic name")
	}
	var cfgErr *mppi.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *mppi.ConfigurationError, got %T", err)
	}
	if !errors.Is(err, mppi.ErrUnknownCritic) {
		t.Fatalf("expected wrapped ErrUnknownCritic, got %v", err)
	}
}

func TestBuildAllKnownNames(t *testing.T) {
	for _, name := range Names() {
		c, err := Build(name, 1.0, nil)
		if err != nil {
			t.Fatalf("Build(%q) failed: %v", name, err)
		}
		if c.Name() != name {
			t.Errorf("Build(%q) returned critic named %q", name, c.Name())
		}
	}
}

func TestGoalCriticPenalizesDistanceNearGoal(t *testing.T) {
	data := newTestData(2, 3, false)
	data.Goal = [3]float64{10, 0, 0}
	data.RobotPose = [3]float64{9, 0, 0}

	data.Trajectories.Set(0, 2, 0, 10) // sample 0 ends exactly at goal
	data.Trajectories.Set(1, 2, 0, 8)  // sample 1 ends 2m short

	c, _ := newGoalCritic(1.0, nil)
	if err := c.Score(data); err != nil {
		t.Fatal(err)
	}

	if data.Costs[0] != 0 {
		t.Errorf("expected zero cost for a sample landing exactly on goal, got %f", data.Costs[0])
	}
	if data.Costs[1] <= data.Costs[0] {
		t.Errorf("expected sample 1 (further from goal) to cost more: %v", data.Costs)
	}
}

func TestGoalCriticDisabledFarFromGoal(t *testing.T) {
	data := newTestData(1, 2, false)
	data.Goal = [3]float64{100, 100, 0}
	data.RobotPose = [3]float64{0, 0, 0}
	data.Trajectories.Set(0, 1, 0, 50)

	c, _ := newGoalCritic(1.0, nil)
	if err := c.Score(data); err != nil {
		t.Fatal(err)
	}
	if data.Costs[0] != 0 {
		t.Errorf("expected no-op far from goal, got cost %f", data.Costs[0])
	}
}

func TestPreferForwardCriticPenalizesReverse(t *testing.T) {
	data := newTestData(2, 2, false)
	data.Goal = [3]float64{10, 0, 0} // robot at origin, well outside goal tolerance
	layout := data.Layout
	vxIdx := layout.VelocityStart() + layout.VxIndex()

	data.State.Set(0, 0, vxIdx, 1.0)  // forward, no penalty
	data.State.Set(1, 0, vxIdx, -1.0) // reverse, penalized

	c, _ := newPreferForwardCritic(1.0, nil)
	if err := c.Score(data); err != nil {
		t.Fatal(err)
	}
	if data.Costs[0] != 0 {
		t.Errorf("expected no penalty for forward motion, got %f", data.Costs[0])
	}
	if data.Costs[1] <= 0 {
		t.Errorf("expected a penalty for reverse motion, got %f", data.Costs[1])
	}
}

func TestTwirlingCriticPenalizesHighAngularVelocity(t *testing.T) {
	data := newTestData(2, 2, false)
	data.Goal = [3]float64{10, 0, 0} // robot at origin, well outside goal tolerance
	layout := data.Layout
	wzIdx := layout.VelocityStart() + layout.WzIndex()

	data.State.Set(0, 0, wzIdx, 0.01)
	data.State.Set(1, 0, wzIdx, 5.0)

	c, _ := newTwirlingCritic(1.0, nil)
	if err := c.Score(data); err != nil {
		t.Fatal(err)
	}
	if data.Costs[1] <= data.Costs[0] {
		t.Errorf("expected sample with higher |wz| to cost more: %v", data.Costs)
	}
}

type fakeCostmap struct {
	lethalAt func(x, y float64) bool
}

func (f *fakeCostmap) CostAt(x, y float64) (float64, bool) {
	if f.lethalAt(x, y) {
		return 254, true
	}
	return 0, false
}

func TestObstaclesCriticSetsFailFlagWhenAllCollide(t *testing.T) {
	data := newTestData(2, 2, false)
	data.Costmap = &fakeCostmap{lethalAt: func(x, y float64) bool { return true }}

	c, _ := newObstaclesCritic(1.0, nil)
	if err := c.Score(data); err != nil {
		t.Fatal(err)
	}
	if !data.FailFlag {
		t.Error("expected FailFlag set when every sample collides")
	}
	for b, cost := range data.Costs {
		if cost <= 0 {
			t.Errorf("sample %d: expected positive collision cost, got %f", b, cost)
		}
	}
}

func TestObstaclesCriticNoFailFlagWhenOneSampleClear(t *testing.T) {
	data := newTestData(2, 2, false)
	for t := 0; t < 2; t++ {
		data.Trajectories.Set(1, t, 0, 100) // sample 1 rolls out away from the lethal region
	}

	data.Costmap = &fakeCostmap{
		lethalAt: func(x, y float64) bool { return x < 50 },
	}

	c, _ := newObstaclesCritic(1.0, nil)
	if err := c.Score(data); err != nil {
		t.Fatal(err)
	}
	if data.FailFlag {
		t.Error("expected FailFlag unset when at least one sample is clear")
	}
}

func TestObstaclesCriticNoopWithoutCostmap(t *testing.T) {
	data := newTestData(1, 2, false)
	c, _ := newObstaclesCritic(1.0, nil)
	if err := c.Score(data); err != nil {
		t.Fatal(err)
	}
	if data.Costs[0] != 0 {
		t.Errorf("expected no-op without a costmap collaborator, got cost %f", data.Costs[0])
	}
}

func TestGoalCriticDisabledByParam(t *testing.T) {
	data := newTestData(1, 2, false)
	data.Goal = [3]float64{10, 0, 0}
	data.RobotPose = [3]float64{9.5, 0, 0}
	data.Trajectories.Set(0, 1, 0, 0)

	c, _ := newGoalCritic(1.0, map[string]float64{"enabled": 0})
	if err := c.Score(data); err != nil {
		t.Fatal(err)
	}
	if data.Costs[0] != 0 {
		t.Errorf("expected disabled critic to leave cost at zero, got %f", data.Costs[0])
	}
}

func TestPathAngleCriticZeroOnSinglePointPath(t *testing.T) {
	data := newTestData(1, 2, false)
	data.Goal = [3]float64{10, 0, 0} // robot at origin, well outside goal tolerance
	data.PathXs = []float64{5}
	data.PathYs = []float64{5}
	data.PathYaws = []float64{0}

	c, _ := newPathAngleCritic(1.0, nil)
	if err := c.Score(data); err != nil {
		t.Fatal(err)
	}
	if data.Costs[0] != 0 {
		t.Errorf("expected zero cost for a length-1 path, got %f", data.Costs[0])
	}
}

func TestPathAngleCriticPenalizesDeviationFromNearestSegment(t *testing.T) {
	data := newTestData(2, 2, false)
	data.Goal = [3]float64{10, 0, 0} // robot at origin, well outside goal tolerance
	data.PathXs = []float64{0, 10}
	data.PathYs = []float64{0, 0}
	data.PathYaws = []float64{0, 0}

	for t := 0; t < 2; t++ {
		data.Trajectories.Set(0, t, 0, float64(t)) // x, yaw stays 0: aligned with the segment
		data.Trajectories.Set(0, t, 2, 0)
		data.Trajectories.Set(1, t, 0, float64(t))
		data.Trajectories.Set(1, t, 2, math.Pi/2) // perpendicular to the segment
	}

	c, _ := newPathAngleCritic(1.0, nil)
	if err := c.Score(data); err != nil {
		t.Fatal(err)
	}
	if data.Costs[0] != 0 {
		t.Errorf("expected zero cost for a trajectory aligned with the path, got %f", data.Costs[0])
	}
	if data.Costs[1] <= data.Costs[0] {
		t.Errorf("expected the perpendicular trajectory to cost more: %v", data.Costs)
	}
}

func TestReferenceTrajectoryCriticZeroWhenOnPath(t *testing.T) {
	data := newTestData(1, 3, false)
	data.PathXs = []float64{0, 1, 2}
	data.PathYs = []float64{0, 0, 0}
	data.PathYaws = []float64{0, 0, 0}

	for t := 0; t < 3; t++ {
		data.Trajectories.Set(0, t, 0, float64(t))
	}

	c, _ := newReferenceTrajectoryCritic(1.0, nil)
	if err := c.Score(data); err != nil {
		t.Fatal(err)
	}
	if data.Costs[0] != 0 {
		t.Errorf("expected zero cost for a trajectory exactly on the path, got %f", data.Costs[0])
	}
}
