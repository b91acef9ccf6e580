// Package main provides CMA-ES tuning for the AI driver constants.
package main

import (
	"github.com/samber/lo"

	"github.com/pthm-cable/driftloop/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
// The AI tick rate and the variation range stay fixed: they set how often and
// how differently the cars decide, not how well.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Lookahead and tile classification
			{Name: "lookahead_fraction", Path: "ai.lookahead_fraction", Min: 0.1, Max: 1.5, Default: 0.5},
			{Name: "straight_threshold", Path: "ai.straight_threshold", Min: 4, Max: 16, Default: 8},
			{Name: "corner_threshold", Path: "ai.corner_threshold", Min: 1, Max: 8, Default: 4},
			{Name: "approach_distance", Path: "ai.approach_distance", Min: 0.5, Max: 3, Default: 1.5},
			// Steering
			{Name: "full_lock_heading", Path: "ai.full_lock_heading", Min: 15, Max: 90, Default: 45},
			{Name: "steering_floor", Path: "ai.steering_floor", Min: 0, Max: 0.8, Default: 0.3},
			// Target speeds
			{Name: "corner_speed", Path: "ai.corner_speed", Min: 0.3, Max: 1.6, Default: 0.8},
			{Name: "straight_speed", Path: "ai.straight_speed", Min: 1, Max: 3, Default: 1.8},
			{Name: "braking_distance", Path: "ai.braking_distance", Min: 0.5, Max: 4, Default: 2},
			{Name: "emergency_margin", Path: "ai.emergency_margin", Min: 1, Max: 1.5, Default: 1.1},
			// Pedal response
			{Name: "brake_gain", Path: "ai.brake_gain", Min: 0.5, Max: 5, Default: 2},
			{Name: "throttle_gain", Path: "ai.throttle_gain", Min: 0.5, Max: 5, Default: 2},
			// Waypoint capture
			{Name: "reach_fraction", Path: "ai.reach_fraction", Min: 0.3, Max: 1.2, Default: 0.75},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	return lo.Map(pv.Specs, func(spec ParamSpec, _ int) float64 {
		return spec.Default
	})
}

// Normalize converts raw parameter values to the [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = lo.Clamp(v[i], spec.Min, spec.Max)
	}
	return clamped
}

// fields returns pointers to the tuned fields of cfg, in Specs order.
func fields(cfg *config.Config) []*float64 {
	ai := &cfg.AI
	return []*float64{
		&ai.LookaheadFraction,
		&ai.StraightThreshold,
		&ai.CornerThreshold,
		&ai.ApproachDistance,
		&ai.FullLockHeading,
		&ai.SteeringFloor,
		&ai.CornerSpeed,
		&ai.StraightSpeed,
		&ai.BrakingDistance,
		&ai.EmergencyMargin,
		&ai.BrakeGain,
		&ai.ThrottleGain,
		&ai.ReachFraction,
	}
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	for i, f := range fields(cfg) {
		*f = clamped[i]
	}
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return lo.Map(fields(cfg), func(f *float64, _ int) float64 {
		return *f
	})
}
