// Package game runs a race session either headless or in a raylib window.
package game

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/driftloop/camera"
	"github.com/pthm-cable/driftloop/components"
	"github.com/pthm-cable/driftloop/config"
	"github.com/pthm-cable/driftloop/inspector"
	"github.com/pthm-cable/driftloop/race"
	"github.com/pthm-cable/driftloop/renderer"
	"github.com/pthm-cable/driftloop/track"
	"github.com/pthm-cable/driftloop/ui"
)

// Game holds the race session and, when not headless, everything needed
// to show it.
type Game struct {
	session *race.Session
	vehMap  *ecs.Map1[components.Vehicle]
	cfg     *config.Config
	logger  *slog.Logger

	headless       bool
	paused         bool
	stepsPerUpdate int

	screenWidth, screenHeight float32

	// Rendering (nil when headless)
	camera        *camera.Camera
	background    *renderer.BackgroundRenderer
	textures      *renderer.TileTextures
	trackRenderer *renderer.TrackRenderer

	// UI (nil when headless)
	hud           *ui.HUD
	widgets       map[ui.OverlayID]ui.Widget
	always        []ui.Widget
	overlays      *ui.OverlayRegistry
	controlsPanel *ui.ControlsPanel
	perfPanel     *ui.PerfPanel
	inspector     *inspector.Inspector
}

// NewGameWithOptions creates a game. Unless headless, a raylib window must
// already be open.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := &Game{
		cfg:            cfg,
		logger:         logger,
		headless:       opts.Headless,
		stepsPerUpdate: max(opts.StepsPerUpdate, minStepsPerUpdate),
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
	}

	var textures track.Textures
	if !opts.Headless && opts.TextureDir != "" {
		tex, err := renderer.LoadTileTextures(opts.TextureDir)
		if err != nil {
			return nil, fmt.Errorf("loading tile textures: %w", err)
		}
		g.textures = tex
		textures = tex
	}

	session, err := race.NewSession(race.Options{
		Seed:           opts.Seed,
		Config:         cfg,
		Textures:       textures,
		Logger:         logger,
		LogStats:       opts.LogStats,
		StatsWindowSec: opts.StatsWindowSec,
		OutputDir:      opts.OutputDir,
	})
	if err != nil {
		g.textures.Unload()
		return nil, err
	}
	g.session = session
	g.vehMap = ecs.NewMap1[components.Vehicle](session.World())

	if opts.Headless {
		session.SetAutopilot(true)
	} else {
		g.initGraphics()
	}
	return g, nil
}

// initGraphics creates the camera, renderers and UI.
func (g *Game) initGraphics() {
	cc := g.cfg.Camera
	g.camera = camera.New(g.screenWidth, g.screenHeight,
		float32(cc.Zoom), float32(cc.MinZoom), float32(cc.MaxZoom), float32(cc.Smoothing))
	g.camera.Reset(g.focusPosition())

	g.background = renderer.NewBackgroundRenderer(int32(g.screenWidth), int32(g.screenHeight), color.RGBA{R: 46, G: 92, B: 48, A: 255})
	g.trackRenderer = renderer.NewTrackRenderer(g.textures)

	g.hud = ui.NewHUD()
	g.overlays = ui.NewOverlayRegistry()
	g.controlsPanel = ui.NewControlsPanel(10, 80, 260, ui.DefaultBindings(), g.overlays)
	g.perfPanel = ui.NewPerfPanel(10, 80)
	g.inspector = inspector.NewInspector(g.session.World(), int32(g.screenWidth), float64(g.cfg.Track.SizePx)*0.1)

	g.widgets = map[ui.OverlayID]ui.Widget{
		ui.OverlayLeaderboard: ui.NewLeaderboard(260, 10),
		ui.OverlayMinimap:     ui.NewMinimap(220),
		ui.OverlayCarPanel:    ui.NewCarPanel(260),
		ui.OverlayTrackPanel: ui.NewTrackPanel(320, ui.TrackActions{
			Apply:      func(c track.Config) { g.session.SetTrackConfig(c) },
			Regenerate: g.session.RegenerateTrack,
			Reset:      g.session.ResetTrack,
		}),
	}
	g.always = []ui.Widget{ui.NewFPSCounter(), ui.NewSpeedometer(220)}
	g.syncWidgets()
}

// Session returns the underlying race session.
func (g *Game) Session() *race.Session {
	return g.session
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.session.Tick()
}

// Unload releases all resources and closes telemetry output.
func (g *Game) Unload() {
	if g.background != nil {
		g.background.Unload()
	}
	g.textures.Unload()
	if err := g.session.Close(); err != nil {
		g.logger.Error("closing session", "error", err)
	}
}
