// Package trajectory turns a populated state batch into world-frame
// trajectories. It follows the teacher's integrator shape (a small
// stateless stepper with a Step-like entry point, see
// internal/integrators.Euler) but integrates a whole (B, T) batch per
// call instead of one sample at a time, since the state batch already
// carries every sample's controls and rolled-out velocities for the
// entire horizon.
package trajectory

import (
	"math"

	"github.com/IhabMohamed/mppic/internal/motionmodel"
	"github.com/IhabMohamed/mppic/internal/tensor"
)

// Integrator writes world-frame (x, y, yaw) trajectories from a state
// batch. It holds no state of its own; it is stateless and reusable.
type Integrator struct{}

// New returns a ready-to-use Integrator.
func New() *Integrator {
	return &Integrator{}
}

// Integrate fills out (shape (B, T, 3)) from state (shape (B, T, 2U+1))
// given the layout and the robot's starting pose (x0, y0, yaw0), per the
// per-step update rule in spec §4.3. Row 0 of every sample is the robot
// pose. out must already be shaped (state.Batch, state.Time, 3); the
// caller (the optimizer) owns and reuses this buffer across ticks.
func (in *Integrator) Integrate(out *tensor.Array3, state *tensor.Array3, layout motionmodel.Layout, x0, y0, yaw0, dt float64) {
	vxIdx := layout.VelocityStart() + layout.VxIndex()
	wzIdx := layout.VelocityStart() + layout.WzIndex()
	var vyIdx int
	if layout.Holonomic {
		vyIdx = layout.VelocityStart() + layout.VyIndex()
	}

	for b := 0; b < state.Batch; b++ {
		x, y, yaw := x0, y0, yaw0
		out.Set(b, 0, 0, x)
		out.Set(b, 0, 1, y)
		out.Set(b, 0, 2, yaw)

		for t := 0; t < state.Time-1; t++ {
			row := state.Cell(b, t)
			vx := row[vxIdx]
			wz := row[wzIdx]

			sin, cos := math.Sin(yaw), math.Cos(yaw)

			dx := vx * cos * dt
			dy := vx * sin * dt
			if layout.Holonomic {
				vy := row[vyIdx]
				dx -= vy * sin * dt
				dy += vy * cos * dt
			}

			x += dx
			y += dy
			yaw += wz * dt

			out.Set(b, t+1, 0, x)
			out.Set(b, t+1, 1, y)
			out.Set(b, t+1, 2, yaw)
		}
	}
}
