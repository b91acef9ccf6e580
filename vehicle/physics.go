package vehicle

import (
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r2"
)

// integrate runs one physics step. The order of the stages matters: drift is
// scored on the damped velocity, rotation uses the steering wheel after this
// frame's input, and collision rollback targets the position stored at the
// end of the previous step.
func (c *Car) integrate(dt float64) {
	cfg := &c.cfg
	in := c.input

	c.collided = false
	c.impactSpeed = 0

	forward := forwardVector(c.heading)

	if in.Throttle > 0 {
		c.velocity = r2.Add(c.velocity, r2.Scale(in.Throttle*cfg.Acceleration*dt, forward))
	}

	if speed := r2.Norm(c.velocity); in.Brake > 0 && speed > cfg.StopSpeed {
		c.velocity = withSpeed(c.velocity, math.Max(speed-in.Brake*cfg.BrakeDeceleration*dt, 0))
	}

	if speed := r2.Norm(c.velocity); in.Handbrake > 0 && speed > cfg.StopSpeed {
		next := speed - in.Handbrake*cfg.HandbrakeDeceleration*dt
		if next <= 0 {
			c.velocity = r2.Vec{}
		} else {
			c.velocity = withSpeed(c.velocity, next)
		}
	}

	if speed := r2.Norm(c.velocity); in.Idle() && speed > cfg.StopSpeed {
		c.velocity = withSpeed(c.velocity, math.Max(speed-cfg.Drag*dt, 0))
	}

	if speed := r2.Norm(c.velocity); speed > cfg.MaxSpeed {
		c.velocity = withSpeed(c.velocity, cfg.MaxSpeed)
	}

	// Split into forward and sideways slip and bleed off the slip.
	right := rightVector(c.heading)
	forwardSpeed := r2.Dot(c.velocity, forward)
	lateralSpeed := r2.Dot(c.velocity, right)
	lateralSpeed *= 1 - lo.Clamp(cfg.LateralDamping*dt, 0, 1)
	c.velocity = r2.Add(r2.Scale(forwardSpeed, forward), r2.Scale(lateralSpeed, right))

	c.scoreDrift(forwardSpeed, math.Abs(lateralSpeed), dt)
	c.steer(in.Steering, dt)

	speed := r2.Norm(c.velocity)
	if math.Abs(forwardSpeed) > cfg.MinRotationSpeed {
		ratio := 0.0
		if cfg.MaxSpeed > 0 {
			ratio = lo.Clamp(speed/cfg.MaxSpeed, 0, 1)
		}
		sensitivity := lerp(cfg.SteeringSensitivityLow, cfg.SteeringSensitivityHigh, ratio)
		c.heading = wrapHeading(c.heading + sign(forwardSpeed)*c.wheel*sensitivity*dt)
	}

	c.position = r2.Add(c.position, r2.Scale(dt, c.velocity))

	if !c.track.IsOnTrack(c.position) {
		c.bounce(speed)
	}

	c.lastPosition = c.position
}

// scoreDrift adds to the drift score while the car slides sideways at speed.
func (c *Car) scoreDrift(forwardSpeed, lateralSpeed, dt float64) {
	threshold := c.cfg.DriftSpeedThreshold
	if lateralSpeed <= threshold || forwardSpeed <= threshold {
		return
	}
	speed := r2.Norm(c.velocity)
	points := c.cfg.DriftPointsPerSecond * math.Min(speed/100, 2) * (lateralSpeed / (speed + 1)) * dt
	if points > 0 {
		c.driftScore += points
	}
}

// steer moves the steering wheel. Input magnitude is the turn rate
// multiplier; with the stick released the wheel returns to centre at a fixed
// angular rate.
func (c *Car) steer(input, dt float64) {
	cfg := &c.cfg
	switch {
	case math.Abs(input) > cfg.SteeringInputDeadzone:
		c.wheel += input * cfg.SteeringTurnRate * dt
	case math.Abs(c.wheel) > cfg.SteeringCenterEpsilon:
		t := math.Min(cfg.SteeringAutoCenterRate*dt/math.Abs(c.wheel), 1)
		c.wheel = lerp(c.wheel, 0, t)
		if math.Abs(c.wheel) <= cfg.SteeringCenterEpsilon {
			c.wheel = 0
		}
	default:
		c.wheel = 0
	}
	c.wheel = lo.Clamp(c.wheel, -cfg.MaxSteeringAngle, cfg.MaxSteeringAngle)
}

// bounce rolls the car back to its last on-track position and reflects its
// velocity. Faster hits get more random deflection so the car does not
// wedge itself against a wall.
func (c *Car) bounce(impactSpeed float64) {
	cfg := &c.cfg

	c.position = c.lastPosition
	c.velocity = r2.Scale(-cfg.CollisionVelocityRetention, c.velocity)

	if r2.Norm(c.velocity) < cfg.MinBounceSpeed {
		c.velocity = r2.Vec{}
	} else {
		ratio := 0.0
		if cfg.MaxSpeed > 0 {
			ratio = lo.Clamp(impactSpeed/cfg.MaxSpeed, 0, 1)
		}
		bound := lerp(cfg.CollisionMinJitter, cfg.CollisionMaxJitter, ratio)
		jitter := (c.rng.Float64()*2 - 1) * bound
		c.velocity = r2.Rotate(c.velocity, degToRad(jitter), r2.Vec{})
		c.heading = wrapHeading(c.heading + jitter)
	}

	c.collided = true
	c.impactSpeed = impactSpeed
}
