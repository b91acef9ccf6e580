package game

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/pthm-cable/driftloop/vehicle"
)

// released is the axis value of an untouched trigger.
const released = -1

func TestMapInput_Keyboard(t *testing.T) {
	tests := []struct {
		name string
		c    Controls
		want vehicle.Input
	}{
		{"idle", Controls{}, vehicle.Input{}},
		{"throttle", Controls{Up: true}, vehicle.Input{Throttle: 1}},
		{"brake", Controls{Down: true}, vehicle.Input{Brake: 1}},
		{"left", Controls{Left: true}, vehicle.Input{Steering: -1}},
		{"right", Controls{Right: true}, vehicle.Input{Steering: 1}},
		{"both directions cancel", Controls{Left: true, Right: true}, vehicle.Input{}},
		{"handbrake turn", Controls{Up: true, Right: true, Handbrake: true}, vehicle.Input{Throttle: 1, Steering: 1, Handbrake: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, MapInput(tt.c)); diff != "" {
				t.Errorf("MapInput (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMapInput_Gamepad(t *testing.T) {
	approx := cmpopts.EquateApprox(0, 1e-6)
	tests := []struct {
		name string
		c    Controls
		want vehicle.Input
	}{
		{
			"released pad leaves keys alone",
			Controls{Up: true, HasPad: true, PadThrottle: released, PadBrake: released},
			vehicle.Input{Throttle: 1},
		},
		{
			"half throttle",
			Controls{HasPad: true, PadThrottle: 0, PadBrake: released},
			vehicle.Input{Throttle: 0.5},
		},
		{
			"full brake",
			Controls{HasPad: true, PadThrottle: released, PadBrake: 1},
			vehicle.Input{Brake: 1},
		},
		{
			"stick inside deadzone",
			Controls{Right: true, HasPad: true, PadSteer: 0.05, PadThrottle: released, PadBrake: released},
			vehicle.Input{Steering: 1},
		},
		{
			"stick full left",
			Controls{HasPad: true, PadSteer: -1, PadThrottle: released, PadBrake: released},
			vehicle.Input{Steering: -1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, MapInput(tt.c), approx); diff != "" {
				t.Errorf("MapInput (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyDeadzone(t *testing.T) {
	tests := []struct {
		v    float32
		want float64
	}{
		{0, 0},
		{0.1, 0},
		{-0.1, 0},
		{1, 1},
		{-1, -1},
		{0.56, 0.5},
		{2, 1},
	}
	for _, tt := range tests {
		got := applyDeadzone(tt.v, padDeadzone)
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("applyDeadzone(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestTriggerValue(t *testing.T) {
	tests := []struct {
		axis float32
		want float64
	}{
		{-1, 0},
		{0, 0.5},
		{1, 1},
		{1.5, 1},
	}
	for _, tt := range tests {
		if got := triggerValue(tt.axis); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("triggerValue(%v) = %v, want %v", tt.axis, got, tt.want)
		}
	}
}
