// Package optimizer implements the MPPI inner loop (spec §4.5): sample
// noised controls around a warm-started mean sequence, roll them out
// through the motion model and integrator, score every sample with the
// critic pipeline, and fold the scores back into the mean sequence with a
// softmin-weighted update. Grounded on the teacher's sim.Simulator, which
// runs the same "advance every sample, then reduce" shape for its batched
// experiments, though there the reduction is a plain metric sum rather
// than a softmin control update.
package optimizer

import (
	"math"

	"github.com/IhabMohamed/mppic/internal/critics"
	"github.com/IhabMohamed/mppic/internal/goalchecker"
	"github.com/IhabMohamed/mppic/internal/motionmodel"
	"github.com/IhabMohamed/mppic/internal/mppi"
	"github.com/IhabMohamed/mppic/internal/noise"
	"github.com/IhabMohamed/mppic/internal/tensor"
	"github.com/IhabMohamed/mppic/internal/trajectory"
)

// Path is the reference path the robot is tracking, pruned and resampled
// by the caller to whatever lookahead window it uses.
type Path struct {
	Xs, Ys, Yaws []float64
}

// Optimizer owns one MPPI controller instance: its settings, its warm
// started mean control sequence, the motion model it rolls out through,
// and every scratch buffer the inner loop reuses tick over tick.
type Optimizer struct {
	settings mppi.Settings
	model    motionmodel.Model
	layout   motionmodel.Layout

	integrator *trajectory.Integrator
	noiseGen   *noise.Generator
	critics    []critics.Critic

	controlSequence  *tensor.Array2 // (T, U), the warm-started mean
	controlsOnly     *tensor.Array3 // (B, T, U) scratch for ApplyConstraints
	state            *tensor.Array3 // (B, T, 2U+1)
	trajectories     *tensor.Array3 // (B, T, 3)
	weightedControls *tensor.Array2 // (T, U) scratch for the softmin update
	costs            []float64
	weights          []float64

	lastMinCost  float64
	lastFailFlag bool
}

// New builds an Optimizer from settings and a set of critic specs, seeding
// its noise generator with seed. Returns a ConfigurationError if settings
// is invalid, names an unknown motion model, or names an unknown critic.
func New(settings mppi.Settings, seed uint64, criticSpecs []critics.Spec) (*Optimizer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	model, err := motionmodel.New(motionmodel.Kind(settings.MotionModelName), settings.MinTurningRadius)
	if err != nil {
		return nil, err
	}
	cs, err := critics.BuildAll(criticSpecs)
	if err != nil {
		return nil, err
	}

	o := &Optimizer{
		settings:   settings,
		model:      model,
		layout:     motionmodel.NewLayout(model.IsHolonomic()),
		integrator: trajectory.New(),
		noiseGen:   noise.New(seed),
		critics:    cs,
	}
	o.Reset()
	return o, nil
}

// Reset rebuilds every scratch buffer for the current settings and
// motion model, and zeroes the warm-started control sequence. Called from
// New, and by a caller (the parameter server) after a reconfiguration
// changes any shape-affecting parameter.
func (o *Optimizer) Reset() {
	s := o.settings
	u := o.layout.U
	width := o.layout.Width()

	o.noiseGen.Reset(s, o.model.IsHolonomic())

	if o.controlSequence == nil {
		o.controlSequence = tensor.NewArray2(s.TimeSteps, u)
	} else {
		o.controlSequence.ResizeIfNeeded(s.TimeSteps, u)
		o.controlSequence.Reset()
	}
	if o.controlsOnly == nil {
		o.controlsOnly = tensor.NewArray3(s.BatchSize, s.TimeSteps, u)
	} else {
		o.controlsOnly.ResizeIfNeeded(s.BatchSize, s.TimeSteps, u)
	}
	if o.state == nil {
		o.state = tensor.NewArray3(s.BatchSize, s.TimeSteps, width)
	} else {
		o.state.ResizeIfNeeded(s.BatchSize, s.TimeSteps, width)
	}
	if o.trajectories == nil {
		o.trajectories = tensor.NewArray3(s.BatchSize, s.TimeSteps, 3)
	} else {
		o.trajectories.ResizeIfNeeded(s.BatchSize, s.TimeSteps, 3)
	}
	if o.weightedControls == nil {
		o.weightedControls = tensor.NewArray2(s.TimeSteps, u)
	} else {
		o.weightedControls.ResizeIfNeeded(s.TimeSteps, u)
	}
	o.costs = make([]float64, s.BatchSize)
	o.weights = make([]float64, s.BatchSize)
}

// Reconfigure validates s, rebuilds the motion model if the model name
// changed, and resets every scratch buffer for the new shape — the
// optimizer-side half of spec §4.6's dynamic parameter reload: a
// parameter server watching the settings file on disk calls this from
// its ReloadFunc.
func (o *Optimizer) Reconfigure(s mppi.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.MotionModelName != o.settings.MotionModelName || s.MinTurningRadius != o.settings.MinTurningRadius {
		model, err := motionmodel.New(motionmodel.Kind(s.MotionModelName), s.MinTurningRadius)
		if err != nil {
			return err
		}
		o.model = model
		o.layout = motionmodel.NewLayout(model.IsHolonomic())
	}
	o.settings = s
	o.Reset()
	return nil
}

// SetSpeedLimit narrows (or, with mppi.NoSpeedLimit, clears) the active
// per-axis constraints used to clip sampled controls, per spec §6's
// speed_limit handling.
func (o *Optimizer) SetSpeedLimit(limit float64, percentage bool) {
	o.settings.SetSpeedLimit(limit, percentage)
}

// Settings returns the optimizer's current settings, primarily for the
// parameter server to read back after a reconfiguration.
func (o *Optimizer) Settings() mppi.Settings { return o.settings }

// GetOptimizedTrajectory returns the (B, T, 3) world-frame rollout from
// the most recently completed EvalControl call, for visualization.
// Callers must not mutate the returned array; it is reused on the next
// tick.
func (o *Optimizer) GetOptimizedTrajectory() *tensor.Array3 { return o.trajectories }

// EvalControl runs the full MPPI tick: IterationCount rounds of sample,
// roll out, score, and softmin-update, then extracts the first row of the
// resulting mean sequence as the command to execute this tick. robotTwist
// is the robot's current measured velocity (vx, vy, wz), used to seed row
// 0 of every sample's velocity columns (spec §3, §4.5 step 4). If the
// final round's critic pipeline raises FailFlag, the optimizer is reset (control
// sequence zeroed, buffers reallocated, noise re-seeded) and the tick is
// retried up to RetryAttemptLimit additional times before EvalControl
// gives up and returns an *mppi.OptimizationFailure (spec §4.5 "Fallback",
// §7 "Recovery policy").
func (o *Optimizer) EvalControl(
	robotPose [3]float64,
	robotTwist [3]float64,
	robotGoal [3]float64,
	path Path,
	gc goalchecker.GoalChecker,
	cm critics.CostQuerier,
) ([3]float64, error) {
	attempts := 0
	for {
		failed := o.optimize(robotPose, robotTwist, robotGoal, path, gc, cm)
		if !failed {
			break
		}
		attempts++
		if attempts > o.settings.RetryAttemptLimit {
			return [3]float64{}, &mppi.OptimizationFailure{Attempts: attempts}
		}
		o.Reset()
	}

	cmd := o.extractCommand()
	if o.settings.ShiftControlSequence {
		o.controlSequence.ShiftRowsUp()
	}
	return cmd, nil
}

// optimize runs IterationCount rounds of the inner loop and reports
// whether the final round's critic pipeline raised FailFlag.
func (o *Optimizer) optimize(
	robotPose [3]float64,
	robotTwist [3]float64,
	robotGoal [3]float64,
	path Path,
	gc goalchecker.GoalChecker,
	cm critics.CostQuerier,
) bool {
	var failed bool
	for iter := 0; iter < o.settings.IterationCount; iter++ {
		noiseSamples := o.noiseGen.Generate()
		o.populateState(noiseSamples, robotTwist)

		o.integrator.Integrate(o.trajectories, o.state, o.layout, robotPose[0], robotPose[1], robotPose[2], o.settings.ModelDt)

		for i := range o.costs {
			o.costs[i] = 0
		}
		data := &critics.Data{
			State:        o.state,
			Trajectories: o.trajectories,
			Layout:       o.layout,
			ModelDt:      o.settings.ModelDt,
			PathXs:       path.Xs,
			PathYs:       path.Ys,
			PathYaws:     path.Yaws,
			RobotPose:    robotPose,
			Goal:         robotGoal,
			GoalChecker:  gc,
			Costmap:      cm,
			Costs:        o.costs,
		}
		for _, c := range o.critics {
			c.Score(data)
		}
		failed = data.FailFlag
		o.lastMinCost = tensor.Min(o.costs)
		o.lastFailFlag = failed

		o.updateControlSequence()
	}
	return failed
}

// LastMinCost returns the lowest per-sample cost seen in the most
// recently completed optimize() round, for telemetry.
func (o *Optimizer) LastMinCost() float64 { return o.lastMinCost }

// LastFailFlag reports whether the most recently completed optimize()
// round had its critic pipeline raise FailFlag.
func (o *Optimizer) LastFailFlag() bool { return o.lastFailFlag }

// populateState samples controls from the warm-started mean plus noise,
// clips them to the active constraints, lets the motion model apply any
// further per-model constraint (Ackermann's turning radius), then fills
// the velocity columns and stamps the trailing dt column. Row 0's
// velocity is seeded from robotTwist, the robot's current measured
// velocity (spec §3, §4.5 step 4); rows 1..T-1 carry the model's
// (identity) prediction from the *previous* row's control, per spec §4.1's
// predict contract.
func (o *Optimizer) populateState(noiseSamples *tensor.Array3, robotTwist [3]float64) {
	u := o.layout.U
	limits := o.axisLimits()

	parallelFor(o.state.Batch, 64, func(start, end int) {
		for b := start; b < end; b++ {
			for t := 0; t < o.state.Time; t++ {
				for a := 0; a < u; a++ {
					v := o.controlSequence.At(t, a) + noiseSamples.At(b, t, a)
					if limit := limits[a]; limit >= 0 {
						if v > limit {
							v = limit
						} else if v < -limit {
							v = -limit
						}
					}
					o.controlsOnly.Set(b, t, a, v)
				}
			}
		}
	})

	o.model.ApplyConstraints(o.controlsOnly)

	row0Velocity := o.twistVelocity(robotTwist)

	parallelFor(o.state.Batch, 64, func(start, end int) {
		for b := start; b < end; b++ {
			for t := 0; t < o.state.Time; t++ {
				controlRow := o.controlsOnly.Cell(b, t)
				cell := o.state.Cell(b, t)
				copy(cell[o.layout.ControlStart():o.layout.ControlStart()+u], controlRow)
				if t == 0 {
					copy(cell[o.layout.VelocityStart():o.layout.VelocityStart()+u], row0Velocity)
				} else {
					velocities := o.model.Predict(o.controlsOnly.Cell(b, t-1))
					copy(cell[o.layout.VelocityStart():o.layout.VelocityStart()+u], velocities)
				}
				cell[o.layout.DtIndex()] = o.settings.ModelDt
			}
		}
	})
}

// twistVelocity maps a (vx, vy, wz) measured twist onto the U-length
// velocity block for the current layout.
func (o *Optimizer) twistVelocity(twist [3]float64) []float64 {
	if o.layout.Holonomic {
		return []float64{twist[0], twist[1], twist[2]}
	}
	return []float64{twist[0], twist[2]}
}

// axisLimits returns the per-control-column clip limit, in control order
// (vx, [vy,] wz), or mppi.NoSpeedLimit for an axis with no clip.
func (o *Optimizer) axisLimits() []float64 {
	c := o.settings.Constraints
	if o.layout.Holonomic {
		return []float64{c.Vx, c.Vy, c.Wz}
	}
	return []float64{c.Vx, c.Wz}
}

// updateControlSequence folds the batch's softmin weights back into the
// mean control sequence, per spec §4.5 step 7: weight samples by
// exp(-(cost-min)/temperature), normalize, and take the weighted mean of
// the actual sampled controls (already clipped and motion-model
// constrained in o.controlsOnly this iteration) — not the mean plus a
// weighted average of the raw noise, which would bypass the per-axis clip
// and the Ackermann turning-radius constraint those controls already
// passed through.
func (o *Optimizer) updateControlSequence() {
	minCost := tensor.Min(o.costs)
	temp := o.settings.Temperature

	var sum float64
	for b, c := range o.costs {
		w := math.Exp(-(c - minCost) / temp)
		o.weights[b] = w
		sum += w
	}
	if sum == 0 {
		return
	}
	for b := range o.weights {
		o.weights[b] /= sum
	}

	o.weightedControls.Fill(0)
	for b := 0; b < o.state.Batch; b++ {
		o.weightedControls.AddScaled(o.controlsOnly.Batch2(b), o.weights[b])
	}

	u := o.layout.U
	limits := o.axisLimits()
	for t := 0; t < o.controlSequence.Rows; t++ {
		for a := 0; a < u; a++ {
			v := o.weightedControls.At(t, a)
			if limit := limits[a]; limit >= 0 {
				if v > limit {
					v = limit
				} else if v < -limit {
					v = -limit
				}
			}
			o.controlSequence.Set(t, a, v)
		}
	}
}

// extractCommand reads the first row of the mean control sequence as the
// command for this tick, mapping control columns back to (vx, vy, wz).
func (o *Optimizer) extractCommand() [3]float64 {
	row := o.controlSequence.Row(0)
	if o.layout.Holonomic {
		return [3]float64{row[o.layout.VxIndex()], row[o.layout.VyIndex()], row[o.layout.WzIndex()]}
	}
	return [3]float64{row[o.layout.VxIndex()], 0, row[o.layout.WzIndex()]}
}
