package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/samber/lo"

	"github.com/pthm-cable/driftloop/renderer"
	"github.com/pthm-cable/driftloop/systems"
	"github.com/pthm-cable/driftloop/ui"
)

const controlsLegend = "WASD/Arrows drive | Space handbrake | Tab autopilot | F1 controls"

// Draw renders the game state.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.background.Draw(g.camera)

	rl.BeginMode2D(renderer.Camera2D(g.camera))
	tr := g.session.Track()
	g.trackRenderer.Draw(tr, g.camera)
	g.drawWorldOverlays()
	g.drawCars()
	g.inspector.DrawSelectionHighlight(tr.TileSize())
	rl.EndMode2D()

	g.drawUI()
	rl.EndDrawing()
}

// drawCars draws every visible car, leader last so it sits on top.
func (g *Game) drawCars() {
	tileSize := g.session.Track().TileSize()
	focus, _, hasFocus := g.focusCar()
	board := g.session.Leaderboard()
	for i := len(board) - 1; i >= 0; i-- {
		e := board[i]
		car, ok := g.carOf(e.Entity)
		if !ok {
			continue
		}
		p := car.Position()
		if !g.camera.IsVisible(float32(p.X), float32(p.Y), float32(tileSize*0.2)) {
			continue
		}
		renderer.DrawCar(car.State(), e.Color, tileSize, hasFocus && e.Entity == focus)
	}
}

// drawUI renders screen-space panels.
func (g *Game) drawUI() {
	data := g.hudData()
	g.hud.Draw(data)
	for _, w := range g.always {
		w.Draw(data)
	}
	for _, id := range g.overlays.EnabledOverlays() {
		if w, ok := g.widgets[id]; ok {
			w.Draw(data)
		}
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.SetPosition(10, int32(g.screenHeight)-180)
		g.perfPanel.Draw(data)
	}
	g.controlsPanel.Draw(data)
	g.inspector.Draw(g.session.World())

	legend := controlsLegend
	if g.stepsPerUpdate > 1 {
		legend = fmt.Sprintf("%s | %dx", legend, g.stepsPerUpdate)
	}
	g.hud.DrawControls(int32(g.screenHeight), legend)
}

// hudData snapshots the session for the widgets.
func (g *Game) hudData() ui.HUDData {
	tr := g.session.Track()
	board := g.session.Leaderboard()
	data := ui.HUDData{
		Title:        "driftloop",
		ScreenWidth:  int32(g.screenWidth),
		ScreenHeight: int32(g.screenHeight),
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		Tick:         int64(g.session.Tick()),
		SimTime:      g.session.SimTime(),
		MaxSpeed:     g.cfg.Car.MaxSpeed,
		Autopilot:    g.session.Autopilot(),
		Leaderboard:  board,
		TotalCars:    len(board),
		Waypoints:    tr.Waypoints(),
		Extent:       tr.Extent(),
		TrackConfig:  tr.Config(),
		Perf:         g.session.Perf().Stats(),
		Registry:     g.session.Registry(),
	}
	data.Cars = lo.FilterMap(board, func(e systems.Entry, _ int) (ui.CarMarker, bool) {
		car, ok := g.carOf(e.Entity)
		if !ok {
			return ui.CarMarker{}, false
		}
		return ui.CarMarker{Position: car.Position(), Color: e.Color, Player: e.Player}, true
	})
	if e, car, ok := g.focusCar(); ok {
		data.HasFocus = true
		data.Focus = car.State()
		if racer, _, ok := g.session.Racer(e); ok {
			data.FocusName = fmt.Sprintf("#%d %s", racer.Number, racer.Name)
			data.FocusNumber = racer.Number
		}
	}
	return data
}
