// Package vehicle implements the arcade car model: force integration,
// steering wheel, drift scoring, collision bounce and the AI driver.
package vehicle

// Config holds the physics tunables of a car. Values are used as given;
// nothing is clamped. Speeds are in px/s, rates in px/s² or deg/s.
type Config struct {
	Acceleration          float64 `yaml:"acceleration"`           // Throttle rate at full input
	BrakeDeceleration     float64 `yaml:"brake_deceleration"`     // Brake rate at full input
	HandbrakeDeceleration float64 `yaml:"handbrake_deceleration"` // Handbrake rate at full input
	Drag                  float64 `yaml:"drag"`                   // Passive slow-down with no control input
	MaxSpeed              float64 `yaml:"max_speed"`              // Top speed
	StopSpeed             float64 `yaml:"stop_speed"`             // Below this, brakes and drag do nothing

	SteeringTurnRate        float64 `yaml:"steering_turn_rate"`        // Wheel deg/s at full steering input
	SteeringAutoCenterRate  float64 `yaml:"steering_auto_center_rate"` // Wheel deg/s back to centre
	MaxSteeringAngle        float64 `yaml:"max_steering_angle"`        // Wheel lock in degrees
	SteeringInputDeadzone   float64 `yaml:"steering_input_deadzone"`   // |input| at or below counts as released
	SteeringCenterEpsilon   float64 `yaml:"steering_center_epsilon"`   // Wheel snaps to zero below this
	SteeringSensitivityLow  float64 `yaml:"steering_sensitivity_low"`  // Heading gain per wheel degree at rest
	SteeringSensitivityHigh float64 `yaml:"steering_sensitivity_high"` // Heading gain per wheel degree at top speed
	MinRotationSpeed        float64 `yaml:"min_rotation_speed"`        // Forward speed needed to turn

	LateralDamping float64 `yaml:"lateral_damping"` // Sideways slip decay per second

	CollisionVelocityRetention float64 `yaml:"collision_velocity_retention"` // Fraction of speed kept on bounce
	CollisionMinJitter         float64 `yaml:"collision_min_jitter"`         // Bounce jitter bound at rest, degrees
	CollisionMaxJitter         float64 `yaml:"collision_max_jitter"`         // Bounce jitter bound at top speed, degrees
	MinBounceSpeed             float64 `yaml:"min_bounce_speed"`             // Bounces slower than this stop dead

	DriftSpeedThreshold  float64 `yaml:"drift_speed_threshold"`   // Forward and lateral speed needed to score
	DriftPointsPerSecond float64 `yaml:"drift_points_per_second"` // Base drift score rate
}

// DefaultConfig returns the tuned car constants.
func DefaultConfig() Config {
	return Config{
		Acceleration:          420,
		BrakeDeceleration:     700,
		HandbrakeDeceleration: 1600,
		Drag:                  160,
		MaxSpeed:              1000,
		StopSpeed:             1,

		SteeringTurnRate:        140,
		SteeringAutoCenterRate:  200,
		MaxSteeringAngle:        35,
		SteeringInputDeadzone:   0.01,
		SteeringCenterEpsilon:   0.5,
		SteeringSensitivityLow:  4.0,
		SteeringSensitivityHigh: 2.0,
		MinRotationSpeed:        5,

		LateralDamping: 6,

		CollisionVelocityRetention: 0.4,
		CollisionMinJitter:         4,
		CollisionMaxJitter:         25,
		MinBounceSpeed:             20,

		DriftSpeedThreshold:  50,
		DriftPointsPerSecond: 100,
	}
}

// AIConfig holds the AI driver tunables. Distances are fractions of the
// track tile size, angles are degrees, speed gaps are fractions of the
// target speed.
type AIConfig struct {
	TickRate float64 `yaml:"tick_rate"` // Decisions per second

	VariationMin float64 `yaml:"variation_min"` // Per-tick random multiplier band
	VariationMax float64 `yaml:"variation_max"`

	LookaheadFraction float64 `yaml:"lookahead_fraction"`  // Collision probe distance ahead of the car
	LookaheadMinSpeed float64 `yaml:"lookahead_min_speed"` // No probe below this speed

	StraightThreshold float64 `yaml:"straight_threshold"` // Heading error tolerated on straights
	CornerThreshold   float64 `yaml:"corner_threshold"`   // Heading error tolerated in corners
	ApproachThreshold float64 `yaml:"approach_threshold"` // Heading error tolerated just before a corner
	ApproachDistance  float64 `yaml:"approach_distance"`  // Distance to the next corner that counts as approaching
	StraightDeadband  float64 `yaml:"straight_deadband"`
	CornerDeadband    float64 `yaml:"corner_deadband"`
	FullLockHeading   float64 `yaml:"full_lock_heading"` // Heading error that commands full steering
	SteeringFloor     float64 `yaml:"steering_floor"`    // Smallest steering magnitude issued

	CornerSpeed     float64 `yaml:"corner_speed"`     // Target speed in corners, tiles/s
	StraightSpeed   float64 `yaml:"straight_speed"`   // Target speed on straights, tiles/s
	BrakingDistance float64 `yaml:"braking_distance"` // Distance to the next corner where hard braking may start
	EmergencyMargin float64 `yaml:"emergency_margin"` // Overspeed ratio that triggers full brake near a corner

	BrakeThreshold    float64 `yaml:"brake_threshold"` // Overspeed beyond which to brake
	BrakeGain         float64 `yaml:"brake_gain"`
	BrakeFloor        float64 `yaml:"brake_floor"`
	ThrottleThreshold float64 `yaml:"throttle_threshold"` // Underspeed beyond which to accelerate
	ThrottleGain      float64 `yaml:"throttle_gain"`
	ThrottleFloor     float64 `yaml:"throttle_floor"`
	GentleBand        float64 `yaml:"gentle_band"` // Gaps smaller than this are left to coast
	GentleGain        float64 `yaml:"gentle_gain"`
	GentleCap         float64 `yaml:"gentle_cap"`

	ReachFraction float64 `yaml:"reach_fraction"` // Waypoint counts as reached within this distance
}

// DefaultAIConfig returns the tuned AI constants.
func DefaultAIConfig() AIConfig {
	return AIConfig{
		TickRate: 30,

		VariationMin: 0.8,
		VariationMax: 1.2,

		LookaheadFraction: 0.5,
		LookaheadMinSpeed: 1,

		StraightThreshold: 8,
		CornerThreshold:   4,
		ApproachThreshold: 3,
		ApproachDistance:  1.5,
		StraightDeadband:  2,
		CornerDeadband:    1,
		FullLockHeading:   45,
		SteeringFloor:     0.3,

		CornerSpeed:     0.8,
		StraightSpeed:   1.8,
		BrakingDistance: 2.0,
		EmergencyMargin: 1.1,

		BrakeThreshold:    0.10,
		BrakeGain:         2,
		BrakeFloor:        0.2,
		ThrottleThreshold: 0.05,
		ThrottleGain:      2,
		ThrottleFloor:     0.3,
		GentleBand:        0.01,
		GentleGain:        3,
		GentleCap:         0.3,

		ReachFraction: 0.75,
	}
}

// TickInterval returns the seconds between AI decisions.
func (c AIConfig) TickInterval() float64 {
	if c.TickRate <= 0 {
		return 0
	}
	return 1 / c.TickRate
}
