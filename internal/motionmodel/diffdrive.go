package motionmodel

import "github.com/IhabMohamed/mppic/internal/tensor"

// diffDrive is the default, non-holonomic two-wheel model. It applies no
// extra control constraint beyond the optimizer's own per-axis clip.
type diffDrive struct{}

func (d *diffDrive) Kind() Kind { return DiffDrive }

func (d *diffDrive) IsHolonomic() bool { return false }

func (d *diffDrive) ApplyConstraints(_ *tensor.Array3) {}

func (d *diffDrive) Predict(controlRow []float64) []float64 {
	out := make([]float64, len(controlRow))
	copy(out, controlRow)
	return out
}
