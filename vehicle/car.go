package vehicle

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/driftloop/track"
)

// SpawnHeading is the heading of a freshly reset car: east, along the top
// edge towards the rest of the lap.
const SpawnHeading = 90.0

// Track is the view of a track a car needs. *track.Track implements it.
type Track interface {
	IsOnTrack(p r2.Vec) bool
	Waypoint(i int) track.Waypoint
	WaypointCount() int
	TileSize() float64
	FinishPosition() r2.Vec
	Generation() uint64
}

// ControlMode selects where a car's input comes from.
type ControlMode uint8

const (
	ModePlayer ControlMode = iota
	ModeAI
)

func (m ControlMode) String() string {
	if m == ModeAI {
		return "ai"
	}
	return "player"
}

// State is a read-only snapshot of a car for renderers, HUDs and sound.
type State struct {
	Position      r2.Vec
	Velocity      r2.Vec
	Speed         float64
	Heading       float64
	SteeringAngle float64
	Mode          ControlMode
	WaypointIndex int
	DriftScore    float64
	Collided      bool    // Hit a wall during the last update
	ImpactSpeed   float64 // Speed at that hit
	Input         Input
}

// Car is a single vehicle on a track.
//
// The car borrows its track and RNG. Its waypoint index is only meaningful
// for the track layout it was last reset against: after the track is
// rebuilt the owner must call Reset (Stale reports when this is needed).
type Car struct {
	track Track
	rng   *rand.Rand
	cfg   Config
	ai    AIConfig
	mode  ControlMode

	position     r2.Vec
	lastPosition r2.Vec
	heading      float64
	velocity     r2.Vec
	wheel        float64
	input        Input

	waypoint   int
	driftScore float64

	aiAccum  float64
	speedVar float64
	steerVar float64
	distVar  float64

	collided    bool
	impactSpeed float64
	generation  uint64
}

// Option configures a Car.
type Option func(c *Car)

// WithMode sets the initial control mode.
func WithMode(m ControlMode) Option {
	return func(c *Car) {
		c.mode = m
	}
}

// WithAIConfig replaces the AI tunables.
func WithAIConfig(ai AIConfig) Option {
	return func(c *Car) {
		c.ai = ai
	}
}

// NewCar creates a car at the track's finish position.
func NewCar(tr Track, rng *rand.Rand, cfg Config, opts ...Option) *Car {
	c := &Car{
		track: tr,
		rng:   rng,
		cfg:   cfg,
		ai:    DefaultAIConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Reset()
	return c
}

// Reset puts the car back on the finish line at rest, targeting waypoint 0.
func (c *Car) Reset() {
	c.ResetAt(c.track.FinishPosition())
}

// ResetAt puts the car at p at rest, facing SpawnHeading and targeting
// waypoint 0. The drift score is cleared.
func (c *Car) ResetAt(p r2.Vec) {
	c.position = p
	c.lastPosition = p
	c.heading = SpawnHeading
	c.velocity = r2.Vec{}
	c.wheel = 0
	c.input = Input{}
	c.waypoint = 0
	c.driftScore = 0
	c.aiAccum = 0
	c.speedVar, c.steerVar, c.distVar = 1, 1, 1
	c.collided = false
	c.impactSpeed = 0
	c.generation = c.track.Generation()
}

// Stale reports whether the track was rebuilt since the car was last reset.
func (c *Car) Stale() bool {
	return c.generation != c.track.Generation()
}

// Mode returns the control mode.
func (c *Car) Mode() ControlMode { return c.mode }

// SetMode switches between player and AI control. The last input is kept
// until the new source replaces it.
func (c *Car) SetMode(m ControlMode) {
	if m == c.mode {
		return
	}
	c.mode = m
	c.aiAccum = 0
}

// SetInput sets the player input for the next update. It is ignored in AI mode.
func (c *Car) SetInput(in Input) {
	if c.mode != ModePlayer {
		return
	}
	c.input = in.Clamped()
}

// Config returns the car's physics tunables.
func (c *Car) Config() Config { return c.cfg }

// AIConfig returns the car's AI tunables.
func (c *Car) AIConfig() AIConfig { return c.ai }

func (c *Car) Position() r2.Vec    { return c.position }
func (c *Car) Velocity() r2.Vec    { return c.velocity }
func (c *Car) Heading() float64    { return c.heading }
func (c *Car) Input() Input        { return c.input }
func (c *Car) WaypointIndex() int  { return c.waypoint }
func (c *Car) DriftScore() float64 { return c.driftScore }

// Speed returns the magnitude of the velocity.
func (c *Car) Speed() float64 { return r2.Norm(c.velocity) }

// Collided reports whether the last update hit a wall.
func (c *Car) Collided() bool { return c.collided }

// State returns a snapshot of the car.
func (c *Car) State() State {
	return State{
		Position:      c.position,
		Velocity:      c.velocity,
		Speed:         r2.Norm(c.velocity),
		Heading:       c.heading,
		SteeringAngle: c.wheel,
		Mode:          c.mode,
		WaypointIndex: c.waypoint,
		DriftScore:    c.driftScore,
		Collided:      c.collided,
		ImpactSpeed:   c.impactSpeed,
		Input:         c.input,
	}
}

// Update advances the car by dt seconds. Callers clamp dt; the game uses
// [0, 0.1].
//
// Waypoint advancement runs first on every frame in both modes, then the AI
// (if driving) may pick new input, then physics integrates it.
func (c *Car) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	c.advanceWaypoint()
	if c.mode == ModeAI {
		c.tickAI(dt)
	}
	c.integrate(dt)
}

// TargetWaypoint returns the waypoint the car is heading for.
func (c *Car) TargetWaypoint() track.Waypoint {
	return c.track.Waypoint(c.waypoint)
}

// reachDistance is how close the car must get to its target waypoint before
// moving on to the next one.
func (c *Car) reachDistance() float64 {
	return c.track.TileSize() * c.ai.ReachFraction * c.distVar
}

func (c *Car) advanceWaypoint() {
	n := c.track.WaypointCount()
	if n == 0 {
		return
	}
	if c.waypoint >= n {
		// Stale index from a rebuilt track; keep it in range until reset.
		c.waypoint %= n
	}
	wp := c.track.Waypoint(c.waypoint)
	if r2.Norm(r2.Sub(wp.Position, c.position)) < c.reachDistance() {
		c.waypoint = (c.waypoint + 1) % n
	}
}
