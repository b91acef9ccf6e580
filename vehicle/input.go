package vehicle

import "github.com/samber/lo"

// Input is one frame of control intent. Keyboards produce the extremes,
// analog sticks anything in range.
type Input struct {
	Throttle  float64 // [0, 1]
	Brake     float64 // [0, 1]
	Handbrake float64 // [0, 1]
	Steering  float64 // [-1, 1], positive turns right
}

// Clamped returns in with every field forced into its legal range.
func (in Input) Clamped() Input {
	return Input{
		Throttle:  lo.Clamp(in.Throttle, 0, 1),
		Brake:     lo.Clamp(in.Brake, 0, 1),
		Handbrake: lo.Clamp(in.Handbrake, 0, 1),
		Steering:  lo.Clamp(in.Steering, -1, 1),
	}
}

// Idle reports whether no pedal is pressed.
func (in Input) Idle() bool {
	return in.Throttle <= 0 && in.Brake <= 0 && in.Handbrake <= 0
}
