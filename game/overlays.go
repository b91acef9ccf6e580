package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/driftloop/renderer"
	"github.com/pthm-cable/driftloop/ui"
)

// handleOverlayKeys toggles overlays bound to the pressed key.
func (g *Game) handleOverlayKeys() {
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, on, ok := g.overlays.HandleKeyPress(key); ok {
			g.logger.Debug("overlay toggled", "overlay", id, "enabled", on)
		}
	}
	g.syncWidgets()
}

// syncWidgets enables each HUD widget to match its overlay.
func (g *Game) syncWidgets() {
	for id, w := range g.widgets {
		w.SetEnabled(g.overlays.IsEnabled(id))
	}
}

// drawWorldOverlays draws the enabled debug overlays. Call it in world space.
func (g *Game) drawWorldOverlays() {
	tr := g.session.Track()
	if g.overlays.IsEnabled(ui.OverlayBounds) {
		renderer.DrawBounds(tr.Bounds())
	}
	if g.overlays.IsEnabled(ui.OverlayWaypoints) {
		target := -1
		if _, car, ok := g.focusCar(); ok {
			target = car.WaypointIndex()
		}
		renderer.DrawWaypoints(tr.Waypoints(), target, tr.TileSize())
	}
	if g.overlays.IsEnabled(ui.OverlayTargets) {
		for _, car := range g.session.Cars() {
			p := car.Position()
			t := car.TargetWaypoint().Position
			rl.DrawLineEx(
				rl.Vector2{X: float32(p.X), Y: float32(p.Y)},
				rl.Vector2{X: float32(t.X), Y: float32(t.Y)},
				2, rl.Fade(rl.Magenta, 0.5),
			)
		}
	}
}
