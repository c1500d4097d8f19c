package tensor

import "testing"

func TestArray2ShiftRowsUp(t *testing.T) {
	a := NewArray2(4, 2)
	for r := 0; r < 4; r++ {
		a.Set(r, 0, float64(r))
		a.Set(r, 1, float64(r)*10)
	}

	prev := a.Clone()
	a.ShiftRowsUp()

	for t2 := 0; t2 < 2; t2++ {
		for c := 0; c < 2; c++ {
			got := a.At(t2, c)
			want := prev.At(t2+1, c)
			if got != want {
				t.Errorf("row %d col %d: got %f want %f", t2, c, got, want)
			}
		}
	}
	for c := 0; c < 2; c++ {
		if a.At(3, c) != prev.At(3, c) {
			t.Errorf("last row col %d: got %f want unchanged %f", c, a.At(3, c), prev.At(3, c))
		}
	}
}

func TestArray2ClipCol(t *testing.T) {
	a := NewArray2(3, 1)
	a.Set(0, 0, -5)
	a.Set(1, 0, 0.2)
	a.Set(2, 0, 5)

	a.ClipCol(0, 1.0)

	if a.At(0, 0) != -1.0 {
		t.Errorf("expected -1.0, got %f", a.At(0, 0))
	}
	if a.At(1, 0) != 0.2 {
		t.Errorf("expected 0.2 unchanged, got %f", a.At(1, 0))
	}
	if a.At(2, 0) != 1.0 {
		t.Errorf("expected 1.0, got %f", a.At(2, 0))
	}
}

func TestArray2ResizeIfNeededPreservesUnlessShapeChanges(t *testing.T) {
	a := NewArray2(2, 2)
	a.Set(0, 0, 42)
	backing := a.Data

	a.ResizeIfNeeded(2, 2)
	if &a.Data[0] != &backing[0] {
		t.Error("expected no reallocation for unchanged shape")
	}

	a.ResizeIfNeeded(3, 2)
	if a.Rows != 3 || len(a.Data) != 6 {
		t.Errorf("expected reallocation to (3,2), got rows=%d len=%d", a.Rows, len(a.Data))
	}
}

func TestArray3IsValid(t *testing.T) {
	a := NewArray3(2, 2, 2)
	if !a.IsValid() {
		t.Error("zeroed array should be valid")
	}
	a.Data[0] = posInf()
	if a.IsValid() {
		t.Error("array with Inf should be invalid")
	}
}

func posInf() float64 {
	var x float64
	return 1 / x
}

func TestMinSum(t *testing.T) {
	v := []float64{3, -1, 2}
	if Min(v) != -1 {
		t.Errorf("expected min -1, got %f", Min(v))
	}
	if Sum(v) != 4 {
		t.Errorf("expected sum 4, got %f", Sum(v))
	}
}
