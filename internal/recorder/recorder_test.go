package recorder

import (
	"testing"

	"github.com/IhabMohamed/mppic/internal/mppi"
)

func TestFlushAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	settings := mppi.DefaultSettings()
	r := New(dir, 99, settings)

	r.Record(Tick{Time: 0, Pose: [3]float64{0, 0, 0}, Command: [3]float64{0.1, 0, 0.05}, MinCost: 2.5})
	r.Record(Tick{Time: 0.1, Pose: [3]float64{0.01, 0, 0.005}, Command: [3]float64{0.2, 0, 0}, MinCost: 1.1, FailFlag: true})

	if err := r.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	meta, err := Load(dir, r.RunID())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.TickCount != 2 || meta.Seed != 99 {
		t.Errorf("unexpected metadata: %+v", meta)
	}

	ticks, err := LoadTicks(dir, r.RunID())
	if err != nil {
		t.Fatalf("LoadTicks: %v", err)
	}
	if len(ticks) != 2 {
		t.Fatalf("expected 2 ticks, got %d", len(ticks))
	}
	if !ticks[1].FailFlag {
		t.Error("expected second tick's FailFlag to round-trip true")
	}
	if ticks[0].MinCost != 2.5 {
		t.Errorf("expected MinCost 2.5, got %f", ticks[0].MinCost)
	}
}
