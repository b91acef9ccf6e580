package telemetry

import (
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCollector(window int) (*PerfCollector, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	pc := NewPerfCollector(window)
	pc.now = clock.now
	return pc, clock
}

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc, clock := newTestCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseDriving)
		clock.advance(300 * time.Microsecond)
		pc.StartPhase(PhaseProgress)
		clock.advance(100 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration != 400*time.Microsecond {
		t.Errorf("avg tick = %v, want 400µs", stats.AvgTickDuration)
	}
	if stats.PhaseAvg[PhaseDriving] != 300*time.Microsecond {
		t.Errorf("driving avg = %v, want 300µs", stats.PhaseAvg[PhaseDriving])
	}
	if got := stats.PhasePct[PhaseDriving]; got < 74.9 || got > 75.1 {
		t.Errorf("driving pct = %v, want 75", got)
	}
	if got := stats.TicksPerSecond; got < 2499 || got > 2501 {
		t.Errorf("ticks/sec = %v, want 2500", got)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc, clock := newTestCollector(5)

	// Five slow ticks, then five fast ones that push the slow ones out.
	for i := 0; i < 10; i++ {
		d := 10 * time.Millisecond
		if i >= 5 {
			d = time.Millisecond
		}
		pc.StartTick()
		pc.StartPhase(PhaseDriving)
		clock.advance(d)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration != time.Millisecond {
		t.Errorf("avg tick = %v, want 1ms once the window has rolled", stats.AvgTickDuration)
	}
	if stats.MaxTickDuration != time.Millisecond {
		t.Errorf("max tick = %v, want 1ms", stats.MaxTickDuration)
	}
}

func TestPerfCollector_MinMax(t *testing.T) {
	pc, clock := newTestCollector(10)
	for _, d := range []time.Duration{3, 1, 2} {
		pc.StartTick()
		clock.advance(d * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.MinTickDuration != time.Millisecond || stats.MaxTickDuration != 3*time.Millisecond {
		t.Errorf("min/max = %v/%v, want 1ms/3ms", stats.MinTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)
	stats := pc.Stats()

	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc, clock := newTestCollector(10)

	pc.RecordFrame()
	clock.advance(20 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration != 20*time.Millisecond {
		t.Errorf("frame duration = %v, want 20ms", stats.FrameDuration)
	}
	if stats.FPS < 49.9 || stats.FPS > 50.1 {
		t.Errorf("FPS = %v, want 50", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		PhasePct: map[string]float64{
			PhaseDriving:   80,
			PhaseStandings: 5,
		},
	}

	row := stats.ToCSV(120)
	if row.WindowEnd != 120 || row.AvgTickUS != 2000 {
		t.Errorf("row = %+v", row)
	}
	if row.DrivingPct != 80 || row.StandingsPct != 5 || row.ProgressPct != 0 {
		t.Errorf("phase pct = %v/%v/%v, want 80/0/5", row.DrivingPct, row.ProgressPct, row.StandingsPct)
	}
}
