package motionmodel

import (
	"errors"
	"math"
	"testing"

	"github.com/IhabMohamed/mppic/internal/mppi"
	"github.com/IhabMohamed/mppic/internal/tensor"
)

func TestNewRejectsUnknownKind(t *testing.T) {
	_, err := New(Kind("Hovercraft"), 0.2)
	if err == nil {
		t.Fatal("expected an error for unknown motion model")
	}
	var cfgErr *mppi.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *mppi.ConfigurationError, got %T", err)
	}
	if !errors.Is(err, mppi.ErrUnknownMotionModel) {
		t.Fatalf("expected wrapped ErrUnknownMotionModel, got %v", err)
	}
}

func TestHolonomicFlags(t *testing.T) {
	dd, _ := New(DiffDrive, 0)
	om, _ := New(Omni, 0)
	ak, _ := New(Ackermann, 0.5)

	if dd.IsHolonomic() || ak.IsHolonomic() {
		t.Error("DiffDrive and Ackermann must be non-holonomic")
	}
	if !om.IsHolonomic() {
		t.Error("Omni must be holonomic")
	}
}

func TestAckermannConstraintScalesTowardZero(t *testing.T) {
	m, _ := New(Ackermann, 0.5)

	controls := tensor.NewArray3(2, 1, 2)
	controls.Set(0, 0, ColVx, 1.0)
	controls.Set(0, 0, ColWzNonHolonomic, 10.0) // way over limit of 1/0.5=2

	controls.Set(1, 0, ColVx, 1.0)
	controls.Set(1, 0, ColWzNonHolonomic, -0.1) // already within limit

	m.ApplyConstraints(controls)

	for b := 0; b < 2; b++ {
		vx := controls.At(b, 0, ColVx)
		wz := controls.At(b, 0, ColWzNonHolonomic)
		if math.Abs(wz)*0.5 > math.Abs(vx)+1e-9 {
			t.Errorf("sample %d: |wz|*r=%f exceeds |vx|=%f", b, math.Abs(wz)*0.5, math.Abs(vx))
		}
	}

	if controls.At(1, 0, ColWzNonHolonomic) != -0.1 {
		t.Error("expected untouched wz for a sample already within the constraint")
	}
	if controls.At(0, 0, ColWzNonHolonomic) != 2.0 {
		t.Errorf("expected wz clamped to 2.0, got %f", controls.At(0, 0, ColWzNonHolonomic))
	}
}

func TestAckermannDrivesWzToZeroWhenVxZero(t *testing.T) {
	m, _ := New(Ackermann, 0.5)
	controls := tensor.NewArray3(1, 1, 2)
	controls.Set(0, 0, ColVx, 0)
	controls.Set(0, 0, ColWzNonHolonomic, 3.0)

	m.ApplyConstraints(controls)

	if controls.At(0, 0, ColWzNonHolonomic) != 0 {
		t.Errorf("expected wz driven to zero when vx=0, got %f", controls.At(0, 0, ColWzNonHolonomic))
	}
}

func TestPredictIsIdentity(t *testing.T) {
	m, _ := New(DiffDrive, 0)
	row := []float64{0.3, -0.2}
	out := m.Predict(row)
	if out[0] != row[0] || out[1] != row[1] {
		t.Errorf("expected identity predict, got %v from %v", out, row)
	}
}
