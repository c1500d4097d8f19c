package trajectory

import (
	"math"
	"testing"

	"github.com/IhabMohamed/mppic/internal/motionmodel"
	"github.com/IhabMohamed/mppic/internal/tensor"
)

func TestIntegrateZeroControlHoldsPose(t *testing.T) {
	layout := motionmodel.NewLayout(false)
	batch, steps := 3, 5

	state := tensor.NewArray3(batch, steps, layout.Width())
	out := tensor.NewArray3(batch, steps, 3)

	New().Integrate(out, state, layout, 1.0, 2.0, 0.5, 0.1)

	for b := 0; b < batch; b++ {
		for tt := 0; tt < steps; tt++ {
			cell := out.Cell(b, tt)
			if cell[0] != 1.0 || cell[1] != 2.0 || cell[2] != 0.5 {
				t.Fatalf("sample %d step %d: expected pose held at (1,2,0.5), got %v", b, tt, cell)
			}
		}
	}
}

func TestIntegrateStraightLine(t *testing.T) {
	layout := motionmodel.NewLayout(false)
	batch, steps := 1, 3
	dt := 0.1

	state := tensor.NewArray3(batch, steps, layout.Width())
	for tt := 0; tt < steps; tt++ {
		row := state.Cell(0, tt)
		row[layout.VelocityStart()+layout.VxIndex()] = 1.0
		row[layout.VelocityStart()+layout.WzIndex()] = 0.0
	}

	out := tensor.NewArray3(batch, steps, 3)
	New().Integrate(out, state, layout, 0, 0, 0, dt)

	if math.Abs(out.At(0, 1, 0)-0.1) > 1e-9 {
		t.Errorf("expected x=0.1 after one step, got %f", out.At(0, 1, 0))
	}
	if math.Abs(out.At(0, 2, 0)-0.2) > 1e-9 {
		t.Errorf("expected x=0.2 after two steps, got %f", out.At(0, 2, 0))
	}
	if out.At(0, 2, 1) != 0 {
		t.Errorf("expected y=0 for straight-ahead motion, got %f", out.At(0, 2, 1))
	}
}

func TestIntegrateHolonomicLateral(t *testing.T) {
	layout := motionmodel.NewLayout(true)
	batch, steps := 1, 2
	dt := 0.5

	state := tensor.NewArray3(batch, steps, layout.Width())
	row := state.Cell(0, 0)
	row[layout.VelocityStart()+layout.VyIndex()] = 1.0

	out := tensor.NewArray3(batch, steps, 3)
	New().Integrate(out, state, layout, 0, 0, 0, dt)

	if math.Abs(out.At(0, 1, 1)-0.5) > 1e-9 {
		t.Errorf("expected y=0.5 from pure lateral motion at yaw=0, got %f", out.At(0, 1, 1))
	}
	if out.At(0, 1, 0) != 0 {
		t.Errorf("expected x=0 from pure lateral motion, got %f", out.At(0, 1, 0))
	}
}
