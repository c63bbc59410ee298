package telemetry

import (
	"math"
	"testing"
)

func TestCollectorClosesWindowAtBoundary(t *testing.T) {
	c := NewCollector(4)

	for tick := 0; tick < 3; tick++ {
		if got := c.Observe(tick, false, []float64{1, 2, 3}, 1.5, 2); got != nil {
			t.Fatalf("tick %d: window closed early: %+v", tick, got)
		}
	}

	got := c.Observe(3, true, []float64{1, 2, 3}, 2.0, 2)
	if got == nil {
		t.Fatal("window did not close at the 4th tick")
	}
	if got.TicksMoved != 1 {
		t.Errorf("TicksMoved = %d, want 1", got.TicksMoved)
	}
	if got.WindowEndTick != 3 {
		t.Errorf("WindowEndTick = %d, want 3", got.WindowEndTick)
	}
	if math.Abs(got.MeanPressure-2.0) > 1e-9 {
		t.Errorf("MeanPressure = %v, want 2.0", got.MeanPressure)
	}
	if got.MaxVelocity != 2.0 {
		t.Errorf("MaxVelocity = %v, want 2.0", got.MaxVelocity)
	}
}

func TestCollectorResetsAfterWindowCloses(t *testing.T) {
	c := NewCollector(2)
	c.Observe(0, true, []float64{5}, 1, 1)
	c.Observe(1, true, []float64{5}, 1, 1)

	got := c.Observe(2, false, []float64{10}, 1, 1)
	if got != nil {
		t.Fatalf("window closed early on tick 2: %+v", got)
	}
	got = c.Observe(3, false, []float64{10}, 1, 1)
	if got.TicksMoved != 0 {
		t.Errorf("TicksMoved = %d, want 0 (stale count should have reset)", got.TicksMoved)
	}
}
