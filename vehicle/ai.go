package vehicle

import (
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/driftloop/track"
)

// tickAI accumulates frame time and makes one driving decision per AI tick.
// Between ticks the car keeps its last input.
func (c *Car) tickAI(dt float64) {
	interval := c.ai.TickInterval()
	c.aiAccum += dt
	if c.aiAccum < interval {
		return
	}
	c.aiAccum -= interval
	// A long stall does not queue up decisions.
	if c.aiAccum >= interval {
		c.aiAccum = 0
	}
	c.input = c.decide()
}

// variation draws one per-tick random multiplier.
func (c *Car) variation() float64 {
	return lerp(c.ai.VariationMin, c.ai.VariationMax, c.rng.Float64())
}

// decide computes the next input from the car's state and the waypoints
// ahead. It draws three values from the RNG, always in the same order.
func (c *Car) decide() Input {
	ai := &c.ai
	tile := c.track.TileSize()

	c.speedVar = c.variation()
	c.steerVar = c.variation()
	c.distVar = c.variation()

	n := c.track.WaypointCount()
	if n == 0 {
		return Input{}
	}
	current := c.track.Waypoint(c.waypoint % n)
	next := c.track.Waypoint((c.waypoint + 1) % n)

	toTarget := r2.Sub(current.Position, c.position)
	headingError := 0.0
	if r2.Norm(toTarget) > 1e-6 {
		headingError = wrapDegrees(headingTo(toTarget) - c.heading)
	}

	speed := r2.Norm(c.velocity)
	collision := false
	if speed > ai.LookaheadMinSpeed {
		probe := r2.Add(c.position, r2.Scale(tile*ai.LookaheadFraction/speed, c.velocity))
		collision = !c.track.IsOnTrack(probe)
	}

	atCorner := current.Type == track.WaypointCorner
	approaching := next.Type == track.WaypointCorner
	distToNext := r2.Norm(r2.Sub(next.Position, c.position))

	throttle, brake := c.pedals(speed, collision, atCorner, approaching, distToNext)
	return Input{
		Throttle: throttle,
		Brake:    brake,
		Steering: c.steering(headingError, collision, atCorner, approaching, distToNext),
	}
}

// steering returns a proportional steering command, or zero when the
// heading error is inside the tolerance for the current context.
func (c *Car) steering(headingError float64, collision, atCorner, approaching bool, distToNext float64) float64 {
	ai := &c.ai
	tile := c.track.TileSize()

	threshold, deadband := ai.StraightThreshold, ai.StraightDeadband
	if atCorner {
		threshold, deadband = ai.CornerThreshold, ai.CornerDeadband
	}
	if approaching && distToNext < ai.ApproachDistance*tile*c.distVar {
		threshold = ai.ApproachThreshold
	}
	threshold *= c.steerVar

	absErr := math.Abs(headingError)
	if !collision && (absErr <= threshold || absErr <= deadband) {
		return 0
	}

	cmd := 0.0
	if ai.FullLockHeading > 0 {
		cmd = lo.Clamp(headingError/ai.FullLockHeading, -1, 1)
	}
	if math.Abs(cmd) < ai.SteeringFloor {
		cmd = math.Copysign(ai.SteeringFloor, cmd)
	}
	return cmd
}

// pedals picks throttle or brake, never both.
func (c *Car) pedals(speed float64, collision, atCorner, approaching bool, distToNext float64) (throttle, brake float64) {
	ai := &c.ai
	tile := c.track.TileSize()

	factor := ai.StraightSpeed
	if atCorner {
		factor = ai.CornerSpeed
	}
	nearCorner := approaching && distToNext < ai.BrakingDistance*tile*c.distVar
	if nearCorner {
		factor = ai.CornerSpeed
	}
	target := math.Max(tile*factor*c.speedVar, 1e-6)
	gap := speed - target

	switch {
	case collision || (nearCorner && speed > target*ai.EmergencyMargin):
		return 0, 1
	case gap > target*ai.BrakeThreshold:
		return 0, lo.Clamp(gap/target*ai.BrakeGain, ai.BrakeFloor, 1)
	case -gap > target*ai.ThrottleThreshold:
		return lo.Clamp(-gap/target*ai.ThrottleGain, ai.ThrottleFloor, 1), 0
	case math.Abs(gap) > target*ai.GentleBand:
		amount := math.Min(ai.GentleCap, math.Abs(gap)/target*ai.GentleGain)
		if gap < 0 {
			return amount, 0
		}
		return 0, amount
	}
	return 0, 0
}
