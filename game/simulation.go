package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/driftloop/vehicle"
)

// Update reads input and advances the race by one rendered frame. It runs
// stepsPerUpdate steps of the frame's dt, so the speed control multiplies
// race time.
func (g *Game) Update() {
	g.handleInput()

	frameDT := float64(rl.GetFrameTime())
	g.session.Perf().RecordFrame()
	if !g.paused {
		input := MapInput(ReadControls())
		for i := 0; i < g.stepsPerUpdate; i++ {
			g.session.Step(input, frameDT)
		}
	}

	g.camera.Follow(g.focusPosition(), float32(frameDT))
}

// UpdateHeadless runs stepsPerUpdate fixed steps with no raylib calls.
// Headless games put the player car on autopilot, so the input is unused.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.session.StepFixed(vehicle.Input{})
	}
}
