package noise

import (
	"math"
	"testing"

	"github.com/IhabMohamed/mppic/internal/mppi"
)

func TestGenerateShape(t *testing.T) {
	s := mppi.DefaultSettings()
	s.BatchSize = 10
	s.TimeSteps = 5

	g := New(42)
	g.Reset(s, false)

	samples := g.Generate()
	if samples.Batch != 10 || samples.Time != 5 || samples.Width != 2 {
		t.Fatalf("expected shape (10,5,2), got (%d,%d,%d)", samples.Batch, samples.Time, samples.Width)
	}
}

func TestGenerateHolonomicHasThreeColumns(t *testing.T) {
	s := mppi.DefaultSettings()
	s.BatchSize = 4
	s.TimeSteps = 3

	g := New(1)
	g.Reset(s, true)

	samples := g.Generate()
	if samples.Width != 3 {
		t.Fatalf("expected 3 control columns for holonomic model, got %d", samples.Width)
	}
}

func TestGenerateIsReproducibleForSameSeed(t *testing.T) {
	s := mppi.DefaultSettings()
	s.BatchSize = 20
	s.TimeSteps = 8

	g1 := New(7)
	g1.Reset(s, false)
	a := g1.Generate()

	g2 := New(7)
	g2.Reset(s, false)
	b := g2.Generate()

	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("expected identical streams for identical seeds, diverged at index %d", i)
		}
	}
}

func TestGenerateProducesFiniteValues(t *testing.T) {
	s := mppi.DefaultSettings()
	s.BatchSize = 50
	s.TimeSteps = 10

	g := New(3)
	g.Reset(s, false)
	samples := g.Generate()

	for _, v := range samples.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatal("expected all finite noise samples")
		}
	}
}
