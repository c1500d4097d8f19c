// Package motionmodel implements the three motion-model variants spec
// §4.1 requires: DiffDrive, Omni, and Ackermann. Where the source this
// repository is grounded on dispatches through a base class pointer, this
// package uses a closed tagged union with a Kind-driven constructor (spec
// §9's redesign flag) — no vtable; any Kind without a case in New's switch
// falls to its default branch and is rejected with a ConfigurationError.
package motionmodel

import (
	"fmt"

	"github.com/IhabMohamed/mppic/internal/mppi"
	"github.com/IhabMohamed/mppic/internal/tensor"
)

// Kind names one of the three supported motion models.
type Kind string

const (
	DiffDrive Kind = "DiffDrive"
	Omni      Kind = "Omni"
	Ackermann Kind = "Ackermann"
)

// Control column layout: non-holonomic models carry {vx, wz}; holonomic
// models insert vy between them: {vx, vy, wz}.
const (
	ColVx = 0
	ColVyHolonomic = 1
	ColWzNonHolonomic = 1
	ColWzHolonomic    = 2
)

// ControlDims returns the control-dimension U implied by the holonomic
// flag: 2 for DiffDrive/Ackermann, 3 for Omni.
func ControlDims(holonomic bool) int {
	if holonomic {
		return 3
	}
	return 2
}

// Layout describes the column offsets of the (B, T, 2U+1) state batch
// (spec §3): controls first, then velocities, then a trailing dt column.
type Layout struct {
	Holonomic bool
	U         int // control dimension
}

// NewLayout builds the Layout implied by a holonomic flag.
func NewLayout(holonomic bool) Layout {
	return Layout{Holonomic: holonomic, U: ControlDims(holonomic)}
}

// Width is the total row width, 2U+1.
func (l Layout) Width() int { return 2*l.U + 1 }

// ControlStart/VelocityStart/DtIndex are the offsets of each field group.
func (l Layout) ControlStart() int  { return 0 }
func (l Layout) VelocityStart() int { return l.U }
func (l Layout) DtIndex() int       { return 2 * l.U }

// VxIndex, VyIndex, WzIndex give the column within a group (control or
// velocity) for each axis. VyIndex panics if the layout is not holonomic;
// callers should check Holonomic first.
func (l Layout) VxIndex() int { return 0 }
func (l Layout) VyIndex() int {
	if !l.Holonomic {
		panic("motionmodel: VyIndex on non-holonomic layout")
	}
	return 1
}
func (l Layout) WzIndex() int {
	if l.Holonomic {
		return 2
	}
	return 1
}

// Model is the capability every motion-model variant implements.
type Model interface {
	// Kind reports which variant this is.
	Kind() Kind

	// IsHolonomic controls whether the state layout carries a vy column.
	IsHolonomic() bool

	// ApplyConstraints mutates the control columns of the (B, T, U) control
	// block in place to enforce model-specific limits beyond the plain
	// per-axis clip the optimizer already applies. DiffDrive and Omni are
	// no-ops here.
	ApplyConstraints(controls *tensor.Array3)

	// Predict returns the velocity row that should populate the next time
	// step, given one sample's control row at the current step. For
	// DiffDrive/Ackermann this is the identity on (vx, wz); for Omni the
	// identity on (vx, vy, wz) — physical kinematics is captured by the
	// integrator, not the predictor (spec §4.1).
	Predict(controlRow []float64) []float64
}

// New constructs the Model named by kind, returning a ConfigurationError
// wrapping ErrUnknownMotionModel for any other name. minTurningRadius is
// only meaningful for Ackermann.
func New(kind Kind, minTurningRadius float64) (Model, error) {
	switch kind {
	case DiffDrive:
		return &diffDrive{}, nil
	case Omni:
		return &omni{}, nil
	case Ackermann:
		return &ackermann{minTurningRadius: minTurningRadius}, nil
	default:
		return nil, &mppi.ConfigurationError{
			Field:   "motion_model",
			Value:   string(kind),
			Wrapped: mppi.ErrUnknownMotionModel,
		}
	}
}

// GetParams and SetParam let the parameter server push runtime tuning into
// a motion model without a type switch at the call site, mirroring the
// teacher's Configurable capability (internal/physics.Drone.SetParam).
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

func paramError(name string) error {
	return fmt.Errorf("motionmodel: unknown param %q", name)
}
