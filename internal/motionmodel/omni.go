package motionmodel

import "github.com/IhabMohamed/mppic/internal/tensor"

// omni is the holonomic model: it can translate laterally (vy)
// independently of heading. It applies no extra control constraint beyond
// the optimizer's own per-axis clip.
type omni struct{}

func (o *omni) Kind() Kind { return Omni }

func (o *omni) IsHolonomic() bool { return true }

func (o *omni) ApplyConstraints(_ *tensor.Array3) {}

func (o *omni) Predict(controlRow []float64) []float64 {
	out := make([]float64, len(controlRow))
	copy(out, controlRow)
	return out
}
