package race

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"

	"github.com/pthm-cable/driftloop/config"
	"github.com/pthm-cable/driftloop/telemetry"
	"github.com/pthm-cable/driftloop/track"
	"github.com/pthm-cable/driftloop/vehicle"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func newTestSession(t *testing.T, cfg *config.Config, seed int64) *Session {
	t.Helper()
	s, err := NewSession(Options{Seed: seed, Config: cfg})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ---------- Grid ----------

func TestNewSession_Grid(t *testing.T) {
	cfg := testConfig(t)
	s := newTestSession(t, cfg, 1)

	if got, want := len(s.Cars()), cfg.Race.AICars+1; got != want {
		t.Fatalf("cars = %d, want %d", got, want)
	}
	if s.Player() != s.Cars()[0] || s.Player().Mode() != vehicle.ModePlayer {
		t.Error("player should take pole in player mode")
	}
	for i, car := range s.Cars()[1:] {
		if car.Mode() != vehicle.ModeAI {
			t.Errorf("car %d mode = %v, want ai", i+2, car.Mode())
		}
	}

	finish := s.Track().FinishPosition()
	seen := map[[2]float64]bool{}
	for i, car := range s.Cars() {
		p := car.Position()
		if !s.Track().IsOnTrack(p) {
			t.Errorf("car %d starts off track at %v", i+1, p)
		}
		if p.X >= finish.X {
			t.Errorf("car %d starts at x=%v, not behind the finish at x=%v", i+1, p.X, finish.X)
		}
		if car.Heading() != vehicle.SpawnHeading {
			t.Errorf("car %d heading = %v", i+1, car.Heading())
		}
		key := [2]float64{p.X, p.Y}
		if seen[key] {
			t.Errorf("car %d shares a grid slot", i+1)
		}
		seen[key] = true
	}

	racer, prog, ok := s.Racer(s.Entities()[1])
	if !ok || racer.Name != "Vega" || racer.Number != 2 || racer.Player {
		t.Errorf("second racer = %+v, ok=%v", racer, ok)
	}
	if prog.Laps != 0 || prog.Started {
		t.Errorf("fresh progress = %+v", prog)
	}
}

func TestNewSession_AllAI(t *testing.T) {
	cfg := testConfig(t)
	cfg.Race.Player = false
	cfg.Race.AICars = 3
	s := newTestSession(t, cfg, 1)

	if s.Player() != nil {
		t.Error("expected no player car")
	}
	if len(s.Cars()) != 3 {
		t.Errorf("cars = %d, want 3", len(s.Cars()))
	}
	s.SetAutopilot(true) // no-op without a player
	if s.Autopilot() {
		t.Error("autopilot reported without a player")
	}
}

// ---------- Stepping ----------

func TestStep_ClampsDT(t *testing.T) {
	cfg := testConfig(t)
	s := newTestSession(t, cfg, 1)

	s.Step(vehicle.Input{}, 5)
	if got := s.SimTime(); got != cfg.Physics.MaxFrameDT {
		t.Errorf("sim time after a long frame = %v, want %v", got, cfg.Physics.MaxFrameDT)
	}
	s.Step(vehicle.Input{}, -1)
	if got := s.SimTime(); got != cfg.Physics.MaxFrameDT {
		t.Errorf("negative dt advanced time to %v", got)
	}
	if s.Tick() != 2 {
		t.Errorf("tick = %d, want 2", s.Tick())
	}
}

func TestStep_PlayerInput(t *testing.T) {
	s := newTestSession(t, testConfig(t), 1)
	start := s.Player().Position()

	for i := 0; i < 30; i++ {
		s.StepFixed(vehicle.Input{Throttle: 1})
	}
	if s.Player().Position().X <= start.X {
		t.Errorf("throttle did not move the player east: %v -> %v", start, s.Player().Position())
	}

	s.SetAutopilot(true)
	if !s.Autopilot() || s.Player().Mode() != vehicle.ModeAI {
		t.Error("autopilot did not hand the player car to the AI")
	}
	s.SetAutopilot(false)
	if s.Autopilot() {
		t.Error("autopilot did not release the player car")
	}
}

func TestSetTrackConfig_ResetsGridAtOnce(t *testing.T) {
	cfg := testConfig(t)
	cfg.Track = track.Config{HorizontalCount: 12, VerticalCount: 10, SizePx: 512}
	s := newTestSession(t, cfg, 3)
	// Drive until some car targets a waypoint the 3x3 track below lacks.
	deep := func() bool {
		return lo.SomeBy(s.Cars(), func(c *vehicle.Car) bool { return c.WaypointIndex() >= 8 })
	}
	for i := 0; i < 20000 && !deep(); i++ {
		s.StepFixed(vehicle.Input{Throttle: 1})
	}
	if !deep() {
		t.Fatal("no car got past waypoint 8")
	}

	next := track.Config{HorizontalCount: 3, VerticalCount: 3, SizePx: 512}
	if !s.SetTrackConfig(next) {
		t.Fatal("changed config did not rebuild")
	}

	// No Step: a paused game draws targets straight after the rebuild.
	count := s.Track().WaypointCount()
	for i, car := range s.Cars() {
		if car.Stale() {
			t.Errorf("car %d stale right after SetTrackConfig", i+1)
		}
		if idx := car.WaypointIndex(); idx < 0 || idx >= count {
			t.Fatalf("car %d waypoint %d out of range [0, %d)", i+1, idx, count)
		}
		_ = car.TargetWaypoint()
		if car.Position() != s.gridSlot(i) {
			t.Errorf("car %d at %v, want grid slot %v", i+1, car.Position(), s.gridSlot(i))
		}
		if car.Speed() != 0 {
			t.Errorf("car %d kept speed %v", i+1, car.Speed())
		}
	}
	for _, e := range s.Leaderboard() {
		if e.Laps != 0 || e.WaypointsPassed != 0 {
			t.Errorf("%s kept progress: laps %d, waypoints %d", e.Name, e.Laps, e.WaypointsPassed)
		}
	}

	if s.SetTrackConfig(next) {
		t.Error("same config should not rebuild")
	}
}

func TestRegenerateAndResetTrack_ResetGridAtOnce(t *testing.T) {
	cfg := testConfig(t)
	s := newTestSession(t, cfg, 5)

	rebuilds := []struct {
		name string
		do   func()
	}{
		{"regenerate", s.RegenerateTrack},
		{"reset", s.ResetTrack},
	}
	for _, rb := range rebuilds {
		for i := 0; i < 120; i++ {
			s.StepFixed(vehicle.Input{Throttle: 1})
		}
		before := s.Track().Generation()
		rb.do()
		if s.Track().Generation() == before {
			t.Fatalf("%s: track not rebuilt", rb.name)
		}
		for i, car := range s.Cars() {
			if car.Stale() {
				t.Errorf("%s: car %d stale without a step", rb.name, i+1)
			}
			if car.Position() != s.gridSlot(i) {
				t.Errorf("%s: car %d not on the grid", rb.name, i+1)
			}
		}
	}
}

func TestStep_ResetsAfterDirectTrackRebuild(t *testing.T) {
	cfg := testConfig(t)
	s := newTestSession(t, cfg, 3)
	for i := 0; i < 60; i++ {
		s.StepFixed(vehicle.Input{Throttle: 1})
	}

	s.Track().Regenerate()
	s.Step(vehicle.Input{}, 0)
	for i, car := range s.Cars() {
		if car.Stale() {
			t.Errorf("car %d still stale after a step", i+1)
		}
	}
}

func TestRace_AIMakesProgress(t *testing.T) {
	cfg := testConfig(t)
	cfg.Race.Player = false
	cfg.Race.AICars = 2
	s := newTestSession(t, cfg, 7)

	for i := 0; i < 600; i++ {
		s.StepFixed(vehicle.Input{})
		for j, car := range s.Cars() {
			if !s.Track().IsOnTrack(car.Position()) {
				t.Fatalf("step %d: car %d left the track at %v", i, j+1, car.Position())
			}
		}
	}

	board := s.Leaderboard()
	if len(board) != 2 || board[0].Position != 1 || board[1].Position != 2 {
		t.Fatalf("leaderboard = %+v", board)
	}
	if board[0].WaypointsPassed < 2 {
		t.Errorf("leader passed %d waypoints in 10s", board[0].WaypointsPassed)
	}
}

func TestRace_DeterministicForSeed(t *testing.T) {
	run := func() []vehicle.State {
		cfg := testConfig(t)
		cfg.Race.AICars = 3
		s := newTestSession(t, cfg, 11)
		for i := 0; i < 300; i++ {
			s.StepFixed(vehicle.Input{Throttle: 1, Steering: 0.2})
		}
		states := make([]vehicle.State, 0, len(s.Cars()))
		for _, c := range s.Cars() {
			states = append(states, c.State())
		}
		return states
	}

	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("same seed produced different races (-first +second):\n%s", diff)
	}
}

// ---------- Telemetry ----------

func TestTelemetry_WindowsAndOutput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Race.AICars = 2
	dir := filepath.Join(t.TempDir(), "out")

	var windows []telemetry.WindowStats
	s, err := NewSession(Options{
		Seed:           5,
		Config:         cfg,
		Textures:       track.UniformTextures(256),
		StatsWindowSec: 1,
		OutputDir:      dir,
		StatsCallback: func(ws telemetry.WindowStats) {
			windows = append(windows, ws)
		},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	ticks := int(3 / cfg.Physics.DT)
	for i := 0; i < ticks+1; i++ {
		s.StepFixed(vehicle.Input{Throttle: 1})
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if len(windows) != 3 {
		t.Fatalf("windows = %d, want 3", len(windows))
	}
	if windows[0].Cars != 3 || windows[0].Leader == "" {
		t.Errorf("first window = %+v", windows[0])
	}
	if windows[0].SpeedMean <= 0 {
		t.Error("cars under throttle should have a positive mean speed")
	}

	for _, name := range []string{"config.yaml", "telemetry.csv", "standings.csv", "perf.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}
