package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/driftloop/components"
	"github.com/pthm-cable/driftloop/track"
	"github.com/pthm-cable/driftloop/vehicle"
)

// openTrack is drivable everywhere, with tiles of 100 px.
type openTrack struct {
	waypoints []track.Waypoint
}

func (o *openTrack) IsOnTrack(r2.Vec) bool         { return true }
func (o *openTrack) Waypoint(i int) track.Waypoint { return o.waypoints[i] }
func (o *openTrack) WaypointCount() int            { return len(o.waypoints) }
func (o *openTrack) TileSize() float64             { return 100 }
func (o *openTrack) FinishPosition() r2.Vec        { return o.waypoints[0].Position }
func (o *openTrack) Generation() uint64            { return 1 }

// pileTrack stacks n waypoints on the origin so a parked car advances
// exactly one waypoint per update.
func pileTrack(n int) *openTrack {
	return &openTrack{waypoints: make([]track.Waypoint, n)}
}

type fixture struct {
	world  *ecs.World
	mapper *ecs.Map4[components.Racer, components.Vehicle, components.Progress, components.Standing]
	tr     *openTrack
	rng    *rand.Rand
}

func newFixture(tr *openTrack) *fixture {
	w := ecs.NewWorld()
	return &fixture{
		world:  w,
		mapper: ecs.NewMap4[components.Racer, components.Vehicle, components.Progress, components.Standing](w),
		tr:     tr,
		rng:    rand.New(rand.NewSource(1)),
	}
}

func (f *fixture) add(number int, name string, mode vehicle.ControlMode, at r2.Vec) (ecs.Entity, *vehicle.Car) {
	car := vehicle.NewCar(f.tr, f.rng, vehicle.DefaultConfig(), vehicle.WithMode(mode))
	car.ResetAt(at)
	racer := components.Racer{Name: name, Number: number, Player: mode == vehicle.ModePlayer}
	veh := components.Vehicle{Car: car}
	prog := components.Progress{}
	st := components.Standing{}
	return f.mapper.NewEntity(&racer, &veh, &prog, &st), car
}

// ---------- Driving ----------

func TestDriving_PlayerInputOnlyReachesPlayer(t *testing.T) {
	f := newFixture(pileTrack(4))
	_, player := f.add(1, "You", vehicle.ModePlayer, r2.Vec{})
	_, ai := f.add(2, "Vega", vehicle.ModeAI, r2.Vec{})

	sys := NewDrivingSystem(f.world)
	in := vehicle.Input{Throttle: 2, Handbrake: 1}
	sys.Update(f.world, in, 1.0/60)

	if got := player.Input(); got != in.Clamped() {
		t.Errorf("player input = %+v, want %+v", got, in.Clamped())
	}
	if ai.Input().Handbrake != 0 {
		t.Error("AI car took the player's handbrake")
	}
}

func TestDriving_AdvancesEveryCar(t *testing.T) {
	f := newFixture(pileTrack(4))
	_, a := f.add(1, "A", vehicle.ModePlayer, r2.Vec{})
	_, b := f.add(2, "B", vehicle.ModePlayer, r2.Vec{})

	NewDrivingSystem(f.world).Update(f.world, vehicle.Input{}, 1.0/60)

	if a.WaypointIndex() != 1 || b.WaypointIndex() != 1 {
		t.Errorf("waypoint indices = %d, %d; want 1, 1", a.WaypointIndex(), b.WaypointIndex())
	}
}

// ---------- Progress ----------

func TestProgress_LapCounting(t *testing.T) {
	const dt = 0.5
	f := newFixture(pileTrack(4))
	e, _ := f.add(1, "A", vehicle.ModePlayer, r2.Vec{})

	driving := NewDrivingSystem(f.world)
	progress := NewProgressSystem(f.world)
	progMap := ecs.NewMap1[components.Progress](f.world)

	var events []LapEvent
	step := func() {
		driving.Update(f.world, vehicle.Input{}, dt)
		events = append(events, progress.Update(f.world, 4, dt)...)
	}

	// Leaving the finish starts lap one without completing anything.
	step()
	prog := progMap.Get(e)
	if !prog.Started || prog.Laps != 0 || prog.LapTime != 0 {
		t.Fatalf("after first crossing: %+v", *prog)
	}

	for i := 0; i < 4; i++ {
		step()
	}
	prog = progMap.Get(e)
	if prog.Laps != 1 {
		t.Fatalf("laps = %d, want 1", prog.Laps)
	}
	if prog.WaypointsPassed != 5 {
		t.Errorf("waypoints passed = %d, want 5", prog.WaypointsPassed)
	}
	if prog.LastLap != 4*dt || prog.BestLap != 4*dt {
		t.Errorf("last/best lap = %v/%v, want %v", prog.LastLap, prog.BestLap, 4*dt)
	}
	if len(events) != 1 || events[0].Lap != 1 || !events[0].Best || events[0].Entity != e {
		t.Errorf("events = %+v", events)
	}

	for i := 0; i < 4; i++ {
		step()
	}
	if got := progMap.Get(e).Laps; got != 2 {
		t.Errorf("laps = %d, want 2", got)
	}
	if len(events) != 2 || events[1].Best {
		t.Errorf("equal lap should not be a new best: %+v", events)
	}
}

func TestProgress_CountsCollisions(t *testing.T) {
	tr := &fakeWalls{openTrack: *pileTrack(4)}
	f := newFixture(pileTrack(4))
	car := vehicle.NewCar(tr, f.rng, vehicle.DefaultConfig())
	car.ResetAt(r2.Vec{X: 10})
	racer := components.Racer{Number: 1, Player: true}
	veh := components.Vehicle{Car: car}
	prog := components.Progress{}
	st := components.Standing{}
	e := f.mapper.NewEntity(&racer, &veh, &prog, &st)

	progress := NewProgressSystem(f.world)
	car.SetInput(vehicle.Input{Throttle: 1})
	for i := 0; i < 120; i++ {
		car.Update(1.0 / 60)
		progress.Update(f.world, 4, 1.0/60)
	}

	if got := ecs.NewMap1[components.Progress](f.world).Get(e).Collisions; got == 0 {
		t.Error("expected collisions to be counted")
	}
}

// fakeWalls only allows |x| < 50.
type fakeWalls struct {
	openTrack
}

func (f *fakeWalls) IsOnTrack(p r2.Vec) bool { return p.X > -50 && p.X < 50 }

func TestProgress_NoWaypoints(t *testing.T) {
	f := newFixture(pileTrack(4))
	f.add(1, "A", vehicle.ModePlayer, r2.Vec{})
	if ev := NewProgressSystem(f.world).Update(f.world, 0, 1); len(ev) != 0 {
		t.Errorf("events = %v, want none", ev)
	}
}

func TestProgress_Reset(t *testing.T) {
	f := newFixture(pileTrack(4))
	e, _ := f.add(1, "A", vehicle.ModePlayer, r2.Vec{})
	driving := NewDrivingSystem(f.world)
	progress := NewProgressSystem(f.world)
	for i := 0; i < 6; i++ {
		driving.Update(f.world, vehicle.Input{}, 0.1)
		progress.Update(f.world, 4, 0.1)
	}

	progress.ResetProgress(f.world)
	if got := *ecs.NewMap1[components.Progress](f.world).Get(e); got != (components.Progress{}) {
		t.Errorf("progress after reset = %+v", got)
	}
}

// ---------- Standings ----------

func TestStandings_Order(t *testing.T) {
	tr := &openTrack{waypoints: []track.Waypoint{
		{Position: r2.Vec{X: 1000}},
		{Position: r2.Vec{X: 2000}},
		{Position: r2.Vec{X: 3000}},
	}}
	f := newFixture(tr)
	far, _ := f.add(1, "Far", vehicle.ModePlayer, r2.Vec{X: 500})
	near, _ := f.add(2, "Near", vehicle.ModePlayer, r2.Vec{X: 900})
	lapped, _ := f.add(3, "Lapped", vehicle.ModePlayer, r2.Vec{X: 0})
	tie, _ := f.add(4, "Tie", vehicle.ModePlayer, r2.Vec{X: 500})

	progMap := ecs.NewMap1[components.Progress](f.world)
	progMap.Get(lapped).Laps = 1

	entries := NewStandingsSystem(f.world).Update(f.world)

	want := []ecs.Entity{lapped, near, far, tie}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	standingMap := ecs.NewMap1[components.Standing](f.world)
	for i, e := range want {
		if entries[i].Entity != e {
			t.Errorf("position %d: got %s, want entity %v", i+1, entries[i].Name, e)
		}
		if entries[i].Position != i+1 {
			t.Errorf("entry %d position = %d", i, entries[i].Position)
		}
		if got := standingMap.Get(e).Position; got != i+1 {
			t.Errorf("standing of %s = %d, want %d", entries[i].Name, got, i+1)
		}
	}
	if entries[1].ToNext != 100 {
		t.Errorf("near car distance = %v, want 100", entries[1].ToNext)
	}
}

func TestStandings_WaypointsBeatDistance(t *testing.T) {
	a := Entry{Number: 1, WaypointsPassed: 3, ToNext: 900}
	b := Entry{Number: 2, WaypointsPassed: 2, ToNext: 10}
	if compareEntries(a, b) >= 0 {
		t.Error("more waypoints passed should rank ahead regardless of distance")
	}
	if compareEntries(b, a) <= 0 {
		t.Error("comparison should be antisymmetric")
	}
}

// ---------- Registry ----------

func TestSystemRegistry(t *testing.T) {
	reg := NewSystemRegistry()

	if got := reg.GetName("driving"); got != "Driving" {
		t.Errorf("GetName(driving) = %q", got)
	}
	if got := reg.GetName("unknown"); got != "unknown" {
		t.Errorf("GetName(unknown) = %q, want fallback to ID", got)
	}
	if got := len(reg.ByCategory("race")); got != 2 {
		t.Errorf("race systems = %d, want 2", got)
	}
	cats := reg.Categories()
	if len(cats) != 3 || cats[0] != "sim" {
		t.Errorf("categories = %v", cats)
	}
	if ids := reg.IDs(); len(ids) != 4 || ids[0] != "driving" {
		t.Errorf("IDs = %v", ids)
	}

	reg.Register(SystemInfo{ID: "driving", Name: "Cars", Category: "sim"})
	if got := reg.GetName("driving"); got != "Cars" {
		t.Errorf("GetName after re-register = %q, want Cars", got)
	}
	if got := len(reg.IDs()); got != 4 {
		t.Errorf("re-register grew registry to %d", got)
	}
}
