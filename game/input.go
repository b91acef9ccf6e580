package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/samber/lo"

	"github.com/pthm-cable/driftloop/vehicle"
)

// padDeadzone is the stick deflection below which steering reads as zero.
const padDeadzone = 0.12

// Controls is one frame of raw driving controls from keyboard and gamepad.
type Controls struct {
	Up, Down, Left, Right bool // Arrow keys or WASD
	Handbrake             bool // Space, or the pad's bottom face button

	HasPad      bool
	PadSteer    float32 // Left stick X, -1..1
	PadThrottle float32 // Right trigger, -1 released .. 1 pressed
	PadBrake    float32 // Left trigger, -1 released .. 1 pressed
}

// ReadControls polls raylib for the current driving controls.
func ReadControls() Controls {
	c := Controls{
		Up:        rl.IsKeyDown(rl.KeyUp) || rl.IsKeyDown(rl.KeyW),
		Down:      rl.IsKeyDown(rl.KeyDown) || rl.IsKeyDown(rl.KeyS),
		Left:      rl.IsKeyDown(rl.KeyLeft) || rl.IsKeyDown(rl.KeyA),
		Right:     rl.IsKeyDown(rl.KeyRight) || rl.IsKeyDown(rl.KeyD),
		Handbrake: rl.IsKeyDown(rl.KeySpace),
	}
	if rl.IsGamepadAvailable(0) {
		c.HasPad = true
		c.PadSteer = rl.GetGamepadAxisMovement(0, rl.GamepadAxisLeftX)
		c.PadThrottle = rl.GetGamepadAxisMovement(0, rl.GamepadAxisRightTrigger)
		c.PadBrake = rl.GetGamepadAxisMovement(0, rl.GamepadAxisLeftTrigger)
		c.Handbrake = c.Handbrake || rl.IsGamepadButtonDown(0, rl.GamepadButtonRightFaceDown)
	}
	return c
}

// MapInput turns raw controls into a car input. Keys give full deflection;
// the pad gives analog values and wins over keys wherever it is deflected.
func MapInput(c Controls) vehicle.Input {
	in := vehicle.Input{
		Throttle:  lo.Ternary(c.Up, 1.0, 0.0),
		Brake:     lo.Ternary(c.Down, 1.0, 0.0),
		Handbrake: lo.Ternary(c.Handbrake, 1.0, 0.0),
	}
	if c.Left {
		in.Steering--
	}
	if c.Right {
		in.Steering++
	}

	if c.HasPad {
		if t := triggerValue(c.PadThrottle); t > 0 {
			in.Throttle = t
		}
		if b := triggerValue(c.PadBrake); b > 0 {
			in.Brake = b
		}
		if s := applyDeadzone(c.PadSteer, padDeadzone); s != 0 {
			in.Steering = s
		}
	}
	return in.Clamped()
}

// triggerValue maps a trigger axis from [-1, 1] onto [0, 1].
func triggerValue(axis float32) float64 {
	return lo.Clamp(float64(axis+1)/2, 0, 1)
}

// applyDeadzone zeroes small deflections and rescales the rest so the
// output still spans [-1, 1].
func applyDeadzone(v, dz float32) float64 {
	a := float64(v)
	mag := lo.Clamp(max(a, -a), 0, 1)
	if mag < float64(dz) {
		return 0
	}
	scaled := (mag - float64(dz)) / (1 - float64(dz))
	return lo.Ternary(a < 0, -scaled, scaled)
}

// handleInput processes non-driving keys: pause, speed, overlays, camera
// and selection.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > minStepsPerUpdate {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < maxStepsPerUpdate {
		g.stepsPerUpdate++
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.session.SetAutopilot(!g.session.Autopilot())
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.session.RestartRace()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		g.session.RegenerateTrack()
	}
	if rl.IsKeyPressed(rl.KeyF1) {
		g.controlsPanel.SetEnabled(!g.controlsPanel.Enabled())
	}

	g.handleOverlayKeys()
	g.handleCameraInput()

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		g.inspector.Deselect()
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		m := rl.GetMousePosition()
		g.inspector.HandleClick(int32(m.X), int32(m.Y), g.mouseWorld())
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.background.Resize(int32(w), int32(h))
	g.inspector.SetScreenWidth(int32(w))
}

// handleCameraInput processes zoom controls. The camera itself follows the
// focused car.
func (g *Game) handleCameraInput() {
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset(g.focusPosition())
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.camera.Fit(g.session.Track().Extent())
	}
}
