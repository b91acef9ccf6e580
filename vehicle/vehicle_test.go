package vehicle

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/driftloop/track"
)

// fakeTrack is a rectangular drivable area with an explicit racing line.
type fakeTrack struct {
	area      r2.Box
	waypoints []track.Waypoint
	tile      float64
	gen       uint64
}

func (f *fakeTrack) IsOnTrack(p r2.Vec) bool       { return f.area.Contains(p) }
func (f *fakeTrack) Waypoint(i int) track.Waypoint { return f.waypoints[i] }
func (f *fakeTrack) WaypointCount() int            { return len(f.waypoints) }
func (f *fakeTrack) TileSize() float64             { return f.tile }
func (f *fakeTrack) FinishPosition() r2.Vec        { return f.waypoints[0].Position }
func (f *fakeTrack) Generation() uint64            { return f.gen }

// straightTrack is a wide open field with waypoints heading east.
func straightTrack() *fakeTrack {
	wps := make([]track.Waypoint, 6)
	for i := range wps {
		wps[i] = track.Waypoint{Position: r2.Vec{X: float64(i) * 512, Y: 0}}
	}
	return &fakeTrack{
		area:      r2.Box{Min: r2.Vec{X: -1e7, Y: -1e7}, Max: r2.Vec{X: 1e7, Y: 1e7}},
		waypoints: wps,
		tile:      512,
	}
}

func newTestCar(tr Track, seed int64, opts ...Option) *Car {
	return NewCar(tr, rand.New(rand.NewSource(seed)), DefaultConfig(), opts...)
}

// ---------- Physics ----------

func TestUpdate_ZeroInputIsNoOp(t *testing.T) {
	for _, dt := range []float64{0, 0.001, 1.0 / 60, 0.1, 1} {
		car := newTestCar(straightTrack(), 1)
		car.ResetAt(r2.Vec{X: 100, Y: 100})

		car.Update(dt)

		if car.Position() != (r2.Vec{X: 100, Y: 100}) {
			t.Errorf("dt=%v: position moved to %v", dt, car.Position())
		}
		if car.Velocity() != (r2.Vec{}) {
			t.Errorf("dt=%v: velocity became %v", dt, car.Velocity())
		}
		if car.Heading() != SpawnHeading {
			t.Errorf("dt=%v: heading changed to %v", dt, car.Heading())
		}
	}
}

func TestUpdate_ThrottleAcceleratesToMaxSpeed(t *testing.T) {
	car := newTestCar(straightTrack(), 1)
	cfg := car.Config()
	car.SetInput(Input{Throttle: 1})

	prev := 0.0
	for i := 0; i < 600; i++ {
		car.Update(1.0 / 60)
		fwd := r2.Dot(car.Velocity(), forwardVector(car.Heading()))
		if fwd < prev-1e-9 {
			t.Fatalf("frame %d: forward speed dropped from %v to %v", i, prev, fwd)
		}
		if car.Speed() > cfg.MaxSpeed+1e-9 {
			t.Fatalf("frame %d: speed %v exceeds max %v", i, car.Speed(), cfg.MaxSpeed)
		}
		prev = fwd
	}

	if math.Abs(car.Speed()-cfg.MaxSpeed) > 1e-9 {
		t.Errorf("expected speed clamped at %v, got %v", cfg.MaxSpeed, car.Speed())
	}
}

func TestUpdate_BrakeNeverReverses(t *testing.T) {
	car := newTestCar(straightTrack(), 1)
	car.velocity = r2.Vec{X: 300}
	car.SetInput(Input{Brake: 1})

	for i := 0; i < 120; i++ {
		car.Update(1.0 / 60)
		if car.Velocity().X < 0 {
			t.Fatalf("frame %d: braking reversed the car: %v", i, car.Velocity())
		}
	}
	if car.Speed() > car.Config().StopSpeed {
		t.Errorf("expected car stopped, speed %v", car.Speed())
	}
}

func TestUpdate_HandbrakeSnapsToZero(t *testing.T) {
	car := newTestCar(straightTrack(), 1)
	car.velocity = r2.Vec{X: 50}
	car.SetInput(Input{Handbrake: 1})

	car.Update(0.1) // 1600 * 0.1 far exceeds 50

	if car.Velocity() != (r2.Vec{}) {
		t.Errorf("expected velocity zero, got %v", car.Velocity())
	}
}

func TestUpdate_DragSlowsWithoutReversing(t *testing.T) {
	car := newTestCar(straightTrack(), 1)
	car.velocity = r2.Vec{X: 100}

	car.Update(0.1)
	if got, want := car.Velocity().X, 100-car.Config().Drag*0.1; math.Abs(got-want) > 1e-6 {
		t.Errorf("expected speed %v after drag, got %v", want, got)
	}

	for i := 0; i < 20; i++ {
		car.Update(0.1)
	}
	if car.Velocity().X < 0 {
		t.Errorf("drag reversed the car: %v", car.Velocity())
	}
}

func TestUpdate_LateralDamping(t *testing.T) {
	car := newTestCar(straightTrack(), 1)
	// Heading east; a pure southward velocity is all slip.
	car.velocity = r2.Vec{Y: 400}
	car.SetInput(Input{Throttle: 0.0001})

	car.Update(0.05)

	lateral := r2.Dot(car.Velocity(), rightVector(car.Heading()))
	want := 400 * (1 - car.Config().LateralDamping*0.05)
	if math.Abs(lateral-want) > 1e-6 {
		t.Errorf("expected lateral %v, got %v", want, lateral)
	}
}

func TestUpdate_CollisionRollsBack(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		tr := straightTrack()
		tr.area = r2.Box{Max: r2.Vec{X: 100, Y: 100}}
		car := newTestCar(tr, seed)
		start := r2.Vec{X: 50, Y: 50}
		car.ResetAt(start)
		car.velocity = r2.Vec{X: 800}

		car.Update(0.1)

		st := car.State()
		if st.Position != start {
			t.Errorf("seed %d: expected rollback to %v, got %v", seed, start, st.Position)
		}
		if !st.Collided {
			t.Errorf("seed %d: collision not recorded", seed)
		}
		if st.ImpactSpeed <= 0 || st.ImpactSpeed > 800 {
			t.Errorf("seed %d: impact speed %v out of range", seed, st.ImpactSpeed)
		}
		retained := st.ImpactSpeed * car.Config().CollisionVelocityRetention
		if st.Speed > retained+1e-9 {
			t.Errorf("seed %d: speed %v exceeds retained %v", seed, st.Speed, retained)
		}
		if math.Abs(st.Speed-retained) > 1e-9 {
			t.Errorf("seed %d: jitter changed magnitude: %v vs %v", seed, st.Speed, retained)
		}
		if st.Velocity.X >= 0 {
			t.Errorf("seed %d: expected bounce back west, got %v", seed, st.Velocity)
		}

		// Flags only describe the last frame.
		car.velocity = r2.Vec{}
		car.Update(0.1)
		if car.Collided() {
			t.Errorf("seed %d: collision flag not cleared", seed)
		}
	}
}

func TestUpdate_SlowBounceStops(t *testing.T) {
	tr := straightTrack()
	tr.area = r2.Box{Max: r2.Vec{X: 100, Y: 100}}
	car := newTestCar(tr, 1)
	car.ResetAt(r2.Vec{X: 99.5, Y: 50})
	car.velocity = r2.Vec{X: 30}

	car.Update(0.1)

	if !car.Collided() {
		t.Fatal("expected a collision")
	}
	if car.Velocity() != (r2.Vec{}) {
		t.Errorf("expected velocity zero after slow bounce, got %v", car.Velocity())
	}
	if car.Heading() != SpawnHeading {
		t.Errorf("slow bounce should not jitter heading, got %v", car.Heading())
	}
}

func TestUpdate_DriftScoreNonDecreasing(t *testing.T) {
	tr := straightTrack()
	tr.area = r2.Box{Min: r2.Vec{X: -2000, Y: -2000}, Max: r2.Vec{X: 2000, Y: 2000}}
	car := newTestCar(tr, 3)
	rng := rand.New(rand.NewSource(42))

	prev := 0.0
	for i := 0; i < 3000; i++ {
		car.SetInput(Input{
			Throttle:  rng.Float64(),
			Brake:     rng.Float64() * 0.2,
			Handbrake: math.Floor(rng.Float64() * 1.1),
			Steering:  rng.Float64()*2 - 1,
		})
		car.Update(rng.Float64() * 0.1)
		if car.DriftScore() < prev {
			t.Fatalf("frame %d: drift score fell from %v to %v", i, prev, car.DriftScore())
		}
		prev = car.DriftScore()
	}
}

func TestUpdate_DriftScoresSideways(t *testing.T) {
	car := newTestCar(straightTrack(), 1)
	car.velocity = r2.Vec{X: 200, Y: 200}

	car.Update(1.0 / 60)

	if car.DriftScore() <= 0 {
		t.Errorf("expected drift points for a sideways slide, got %v", car.DriftScore())
	}
}

// ---------- Steering ----------

func TestSteer_IntegratesAndClamps(t *testing.T) {
	car := newTestCar(straightTrack(), 1)
	cfg := car.Config()

	car.steer(1, 0.1)
	if want := cfg.SteeringTurnRate * 0.1; math.Abs(car.wheel-want) > 1e-9 {
		t.Errorf("expected wheel %v, got %v", want, car.wheel)
	}
	car.steer(-0.5, 0.1)
	if want := cfg.SteeringTurnRate * 0.05; math.Abs(car.wheel-want) > 1e-9 {
		t.Errorf("analog input: expected wheel %v, got %v", want, car.wheel)
	}

	for i := 0; i < 100; i++ {
		car.steer(1, 0.1)
	}
	if car.wheel != cfg.MaxSteeringAngle {
		t.Errorf("expected wheel clamped to %v, got %v", cfg.MaxSteeringAngle, car.wheel)
	}
}

func TestSteer_AutoCentersAtFixedRate(t *testing.T) {
	car := newTestCar(straightTrack(), 1)
	cfg := car.Config()
	car.wheel = 20

	car.steer(0.005, 0.05) // inside the deadzone
	if want := 20 - cfg.SteeringAutoCenterRate*0.05; math.Abs(car.wheel-want) > 1e-9 {
		t.Errorf("expected wheel %v, got %v", want, car.wheel)
	}

	car.steer(0, 0.05)
	if car.wheel != 0 {
		t.Errorf("expected wheel snapped to 0, got %v", car.wheel)
	}

	car.wheel = -cfg.SteeringCenterEpsilon / 2
	car.steer(0, 0.001)
	if car.wheel != 0 {
		t.Errorf("expected wheel below epsilon to snap to 0, got %v", car.wheel)
	}
}

func TestUpdate_ReversingFlipsSteering(t *testing.T) {
	tests := []struct {
		name     string
		velocity r2.Vec
		turn     float64 // expected sign of heading change
	}{
		{"forward turns right", r2.Vec{X: 300}, 1},
		{"reverse turns left", r2.Vec{X: -300}, -1},
		{"too slow to turn", r2.Vec{X: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			car := newTestCar(straightTrack(), 1)
			car.velocity = tt.velocity
			car.wheel = 20
			car.SetInput(Input{Steering: 1})

			car.Update(1.0 / 60)

			delta := wrapDegrees(car.Heading() - SpawnHeading)
			if sign(delta) != tt.turn {
				t.Errorf("expected heading change sign %v, got delta %v", tt.turn, delta)
			}
		})
	}
}

// ---------- Waypoints ----------

func TestWaypointAdvance(t *testing.T) {
	tr := straightTrack()
	car := newTestCar(tr, 1)

	car.Update(1.0 / 60)
	if car.WaypointIndex() != 1 {
		t.Errorf("car on waypoint 0 should target 1, got %d", car.WaypointIndex())
	}

	// Only one advance per frame.
	car.Update(1.0 / 60)
	if car.WaypointIndex() != 1 {
		t.Errorf("waypoint 1 is out of reach, got index %d", car.WaypointIndex())
	}
}

func TestWaypointAdvance_Wraps(t *testing.T) {
	tr := straightTrack()
	car := newTestCar(tr, 1)
	last := len(tr.waypoints) - 1
	car.ResetAt(tr.waypoints[last].Position)
	car.waypoint = last

	car.Update(1.0 / 60)

	if car.WaypointIndex() != 0 {
		t.Errorf("expected index to wrap to 0, got %d", car.WaypointIndex())
	}
}

func TestStaleAfterRebuild(t *testing.T) {
	tr := straightTrack()
	car := newTestCar(tr, 1)
	if car.Stale() {
		t.Fatal("new car should not be stale")
	}

	tr.gen++
	if !car.Stale() {
		t.Error("car should be stale after the track generation changes")
	}

	car.Reset()
	if car.Stale() {
		t.Error("reset car should not be stale")
	}
	if car.WaypointIndex() != 0 || car.Position() != tr.FinishPosition() {
		t.Errorf("reset should return to the finish, got %+v", car.State())
	}
}

// ---------- AI ----------

func TestAI_StraightAheadNeedsNoSteering(t *testing.T) {
	tr := straightTrack()
	car := newTestCar(tr, 7, WithMode(ModeAI))

	// One frame long enough to cross the tick interval.
	car.Update(0.05)

	in := car.Input()
	if math.Abs(in.Steering) > 1e-9 {
		t.Errorf("expected no steering toward a waypoint dead ahead, got %v", in.Steering)
	}
	if in.Throttle <= 0 || in.Brake != 0 {
		t.Errorf("expected throttle from rest, got %+v", in)
	}
}

func TestAI_SteersTowardsTarget(t *testing.T) {
	tests := []struct {
		name   string
		target r2.Vec
		want   float64
	}{
		{"south-east is right", r2.Vec{X: 512, Y: 512}, 1},
		{"north-east is left", r2.Vec{X: 512, Y: -512}, -1},
		{"slightly right gets the floor", r2.Vec{X: 512, Y: 100}, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := straightTrack()
			tr.waypoints[1].Position = tt.target
			car := newTestCar(tr, 7, WithMode(ModeAI))
			car.Update(0.05)

			if got := car.Input().Steering; math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected steering %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAI_IgnoresPlayerInput(t *testing.T) {
	car := newTestCar(straightTrack(), 1, WithMode(ModeAI))
	car.SetInput(Input{Throttle: 1, Steering: -1})

	if car.Input() != (Input{}) {
		t.Errorf("AI car accepted player input: %+v", car.Input())
	}
}

func TestAI_TicksAtFixedRate(t *testing.T) {
	car := newTestCar(straightTrack(), 1, WithMode(ModeAI))

	// Under one tick interval: no decision yet.
	car.Update(0.01)
	car.Update(0.01)
	if car.Input() != (Input{}) {
		t.Errorf("AI decided before its first tick: %+v", car.Input())
	}

	car.Update(0.02)
	if car.Input().Throttle <= 0 {
		t.Errorf("AI should have ticked by now: %+v", car.Input())
	}
}

func TestAI_PedalsAreExclusive(t *testing.T) {
	car := newTestCar(straightTrack(), 1)
	target := car.track.TileSize() * car.ai.StraightSpeed

	for _, collision := range []bool{false, true} {
		for _, atCorner := range []bool{false, true} {
			for _, approaching := range []bool{false, true} {
				for speed := 0.0; speed <= 1.5*target; speed += target / 50 {
					throttle, brake := car.pedals(speed, collision, atCorner, approaching, 300)
					if throttle > 0 && brake > 0 {
						t.Fatalf("throttle %v and brake %v together at speed %v", throttle, brake, speed)
					}
					if throttle > 1 || brake > 1 || throttle < 0 || brake < 0 {
						t.Fatalf("pedal out of range: %v %v", throttle, brake)
					}
					if collision && brake != 1 {
						t.Fatalf("collision ahead should brake fully, got %v", brake)
					}
				}
			}
		}
	}
}

func TestAI_SpeedLadder(t *testing.T) {
	car := newTestCar(straightTrack(), 1)
	target := car.track.TileSize() * car.ai.StraightSpeed // variations start at 1

	tests := []struct {
		name         string
		speed        float64
		wantThrottle bool
		wantBrake    bool
	}{
		{"far below target", 0, true, false},
		{"well over target", target * 1.5, false, true},
		{"slightly under", target * 0.97, true, false},
		{"slightly over", target * 1.05, false, true},
		{"on target coasts", target * 1.001, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			throttle, brake := car.pedals(tt.speed, false, false, false, 1e6)
			if (throttle > 0) != tt.wantThrottle || (brake > 0) != tt.wantBrake {
				t.Errorf("speed %v: got throttle %v brake %v", tt.speed, throttle, brake)
			}
		})
	}

	// Gentle corrections stay well below full authority.
	throttle, _ := car.pedals(target*0.97, false, false, false, 1e6)
	if throttle > car.ai.GentleCap {
		t.Errorf("gentle throttle %v above cap %v", throttle, car.ai.GentleCap)
	}
}

func TestAI_DeterministicOnGeneratedTrack(t *testing.T) {
	run := func() []State {
		rng := rand.New(rand.NewSource(99))
		tr := track.New(track.UniformTextures(256), rng, track.Config{
			HorizontalCount: 6, VerticalCount: 8, SizePx: 384, DetourProbability: 0.5,
		})
		cars := []*Car{
			NewCar(tr, rng, DefaultConfig(), WithMode(ModeAI)),
			NewCar(tr, rng, DefaultConfig(), WithMode(ModeAI)),
		}
		var states []State
		for i := 0; i < 600; i++ {
			for _, c := range cars {
				c.Update(1.0 / 60)
				if !tr.IsOnTrack(c.Position()) {
					t.Fatalf("frame %d: car left the track at %v", i, c.Position())
				}
			}
		}
		for _, c := range cars {
			states = append(states, c.State())
		}
		return states
	}

	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("same seed produced different runs (-first +second):\n%s", diff)
	}
}

// ---------- Math ----------

func TestWrapDegrees(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{179, 179},
		{180, -180},
		{-181, 179},
		{360, 0},
		{540, -180},
		{-720 + 45, 45},
	}
	for _, tt := range tests {
		if got := wrapDegrees(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("wrapDegrees(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHeadingVectors(t *testing.T) {
	tests := []struct {
		heading float64
		forward r2.Vec
	}{
		{0, r2.Vec{X: 0, Y: -1}},
		{90, r2.Vec{X: 1, Y: 0}},
		{180, r2.Vec{X: 0, Y: 1}},
		{270, r2.Vec{X: -1, Y: 0}},
	}
	for _, tt := range tests {
		f := forwardVector(tt.heading)
		if r2.Norm(r2.Sub(f, tt.forward)) > 1e-9 {
			t.Errorf("forwardVector(%v) = %v, want %v", tt.heading, f, tt.forward)
		}
		if got := wrapHeading(headingTo(f)); math.Abs(wrapDegrees(got-tt.heading)) > 1e-9 {
			t.Errorf("headingTo(forwardVector(%v)) = %v", tt.heading, got)
		}
		// Right is forward turned a quarter clockwise.
		if r := rightVector(tt.heading); r2.Norm(r2.Sub(r, forwardVector(tt.heading+90))) > 1e-9 {
			t.Errorf("rightVector(%v) = %v", tt.heading, r)
		}
	}
}

func TestInputClamped(t *testing.T) {
	got := Input{Throttle: 2, Brake: -1, Handbrake: 0.5, Steering: -3}.Clamped()
	want := Input{Throttle: 1, Brake: 0, Handbrake: 0.5, Steering: -1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Clamped() mismatch (-want +got):\n%s", diff)
	}
}
