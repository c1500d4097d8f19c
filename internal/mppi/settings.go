package mppi

import "math"

// Constraints holds symmetric per-axis velocity limits. Vy is meaningful
// only for holonomic motion models.
type Constraints struct {
	Vx float64
	Vy float64
	Wz float64
}

// Std holds per-axis sampling standard deviations for the noise generator.
type Std struct {
	Vx float64
	Vy float64
	Wz float64
}

// NoSpeedLimit is the sentinel passed to Settings.SetSpeedLimit to restore
// base_constraints as the working constraints.
const NoSpeedLimit = -1.0

// Settings is the immutable-within-tick configuration bundle described in
// spec §3. BaseConstraints is the configured maximum; Constraints is the
// current working maximum, which SetSpeedLimit may shrink below
// BaseConstraints but never grow past it.
type Settings struct {
	ModelDt              float64
	TimeSteps            int
	BatchSize            int
	IterationCount       int
	Temperature          float64
	BaseConstraints      Constraints
	Constraints          Constraints
	SamplingStd          Std
	RetryAttemptLimit    int
	ShiftControlSequence bool
	MotionModelName      string
	MinTurningRadius     float64
}

// DefaultSettings returns the parameter defaults from the parameter
// surface table (spec §6).
func DefaultSettings() Settings {
	base := Constraints{Vx: 0.5, Vy: 0.5, Wz: 1.3}
	return Settings{
		ModelDt:           0.1,
		TimeSteps:         15,
		BatchSize:         400,
		IterationCount:    1,
		Temperature:       0.25,
		BaseConstraints:   base,
		Constraints:       base,
		SamplingStd:       Std{Vx: 0.2, Vy: 0.2, Wz: 1.0},
		RetryAttemptLimit: 1,
		MotionModelName:   "DiffDrive",
		MinTurningRadius:  0.2,
	}
}

// Validate checks the numeric invariants from spec §3. It does not check
// MotionModelName; that is the responsibility of whatever constructs the
// motion model from it (see motionmodel.New).
func (s Settings) Validate() error {
	switch {
	case s.BatchSize < 1:
		return &ConfigurationError{Field: "batch_size", Value: s.BatchSize, Wrapped: ErrInvalidParameter}
	case s.TimeSteps < 2:
		return &ConfigurationError{Field: "time_steps", Value: s.TimeSteps, Wrapped: ErrInvalidParameter}
	case s.ModelDt <= 0:
		return &ConfigurationError{Field: "model_dt", Value: s.ModelDt, Wrapped: ErrInvalidParameter}
	case s.IterationCount < 1:
		return &ConfigurationError{Field: "iteration_count", Value: s.IterationCount, Wrapped: ErrInvalidParameter}
	case s.Temperature <= 0:
		return &ConfigurationError{Field: "temperature", Value: s.Temperature, Wrapped: ErrInvalidParameter}
	}
	if s.Constraints.Vx < 0 || s.Constraints.Vx > s.BaseConstraints.Vx ||
		s.Constraints.Vy < 0 || s.Constraints.Vy > s.BaseConstraints.Vy ||
		s.Constraints.Wz < 0 || s.Constraints.Wz > s.BaseConstraints.Wz {
		return &ConfigurationError{Field: "constraints", Value: s.Constraints, Wrapped: ErrInvalidParameter}
	}
	return nil
}

// ShiftEnabled reports whether the controller period matches model_dt
// closely enough that control-sequence shifting should be turned on
// (spec §4.5): true iff |1/controller_frequency − model_dt| < 1e-6.
//
// A controller_frequency of zero is treated as "unspecified" and disables
// shifting rather than dividing by zero.
func ShiftEnabled(controllerFrequency, modelDt float64) (bool, error) {
	const eps = 1e-6
	if controllerFrequency == 0 {
		return false, nil
	}
	period := 1.0 / controllerFrequency
	if period < modelDt {
		return false, nil
	}
	if math.Abs(period-modelDt) < eps {
		return true, nil
	}
	return false, &ConfigurationError{Field: "controller_frequency", Value: controllerFrequency, Wrapped: ErrPeriodMismatch}
}

// SetSpeedLimit mutates s.Constraints in place following spec §9's guarded
// policy: percentage limits scale every axis by the same ratio; an
// absolute limit sets Vx directly and scales Vy/Wz by the same ratio the
// absolute value implies relative to BaseConstraints.Vx — except when
// BaseConstraints.Vx is zero, in which case Vy and Wz are left at their
// base values rather than dividing by zero (spec §9 open question (b)).
func (s *Settings) SetSpeedLimit(limit float64, percentage bool) {
	if limit == NoSpeedLimit {
		s.Constraints = s.BaseConstraints
		return
	}
	if percentage {
		ratio := limit / 100.0
		if ratio > 1 {
			ratio = 1
		}
		s.Constraints.Vx = s.BaseConstraints.Vx * ratio
		s.Constraints.Vy = s.BaseConstraints.Vy * ratio
		s.Constraints.Wz = s.BaseConstraints.Wz * ratio
		return
	}
	if limit > s.BaseConstraints.Vx {
		limit = s.BaseConstraints.Vx
	}
	s.Constraints.Vx = limit
	if s.BaseConstraints.Vx == 0 {
		s.Constraints.Vy = s.BaseConstraints.Vy
		s.Constraints.Wz = s.BaseConstraints.Wz
		return
	}
	ratio := limit / s.BaseConstraints.Vx
	s.Constraints.Vy = s.BaseConstraints.Vy * ratio
	s.Constraints.Wz = s.BaseConstraints.Wz * ratio
}
