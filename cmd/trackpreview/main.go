// Track preview tool - builds tracks interactively with sliders, or renders
// one track to a PNG.
//
// Usage:
//
//	go run ./cmd/trackpreview
//	go run ./cmd/trackpreview -seed 7 -out track.png
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/driftloop/camera"
	"github.com/pthm-cable/driftloop/renderer"
	"github.com/pthm-cable/driftloop/track"
	"github.com/pthm-cable/driftloop/ui"
)

const (
	windowWidth  = 1200
	windowHeight = 800
	panelWidth   = 320
)

func main() {
	seed := flag.Int64("seed", 1, "Layout seed")
	textureDir := flag.String("textures", "", "Directory of tile PNGs (empty = procedural tiles)")
	outPath := flag.String("out", "", "Render one track to this PNG and exit")
	width := flag.Int("width", 1024, "PNG width")
	height := flag.Int("height", 768, "PNG height")
	showWaypoints := flag.Bool("waypoints", true, "Draw waypoints")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if *outPath != "" {
		if err := renderPNG(*outPath, *seed, *textureDir, int32(*width), int32(*height), *showWaypoints); err != nil {
			fmt.Fprintf(os.Stderr, "trackpreview: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Track rendered to: %s (%dx%d)\n", *outPath, *width, *height)
		return
	}
	runInteractive(*seed, *textureDir, *showWaypoints)
}

// scene is one track with everything needed to draw it.
type scene struct {
	track      *track.Track
	cam        *camera.Camera
	textures   *renderer.TileTextures
	background *renderer.BackgroundRenderer
	tiles      *renderer.TrackRenderer
	waypoints  bool
}

// newScene builds the track and loads textures. It needs a window.
func newScene(seed int64, textureDir string, w, h int32, waypoints bool) *scene {
	s := &scene{
		cam:        camera.New(float32(w), float32(h), 1, 0.02, 4, 0),
		background: renderer.NewBackgroundRenderer(w, h, color.RGBA{R: 58, G: 110, B: 52, A: 255}),
		waypoints:  waypoints,
	}

	var textures track.Textures = track.UniformTextures(track.DefaultConfig().SizePx)
	if textureDir != "" {
		tex, err := renderer.LoadTileTextures(textureDir)
		if err != nil {
			slog.Warn("falling back to procedural tiles", "error", err)
		} else {
			s.textures = tex
			textures = tex
		}
	}
	s.tiles = renderer.NewTrackRenderer(s.textures)
	s.track = track.New(textures, rand.New(rand.NewSource(seed)), track.DefaultConfig())
	s.fit()
	return s
}

// fit zooms the camera onto the whole track with a small margin.
func (s *scene) fit() {
	s.cam.Fit(s.track.Extent())
	s.cam.ZoomBy(0.92)
}

func (s *scene) draw() {
	s.background.Draw(s.cam)
	rl.BeginMode2D(renderer.Camera2D(s.cam))
	s.tiles.Draw(s.track, s.cam)
	if s.waypoints {
		renderer.DrawWaypoints(s.track.Waypoints(), -1, s.track.TileSize())
	}
	rl.EndMode2D()
}

func (s *scene) unload() {
	s.background.Unload()
	s.textures.Unload()
}

// runInteractive opens a window with the track builder panel.
func runInteractive(seed int64, textureDir string, waypoints bool) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(windowWidth, windowHeight, "Track Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	s := newScene(seed, textureDir, windowWidth, windowHeight, waypoints)
	defer s.unload()

	panel := ui.NewTrackPanel(panelWidth, ui.TrackActions{
		Apply: func(cfg track.Config) {
			if s.track.SetConfig(cfg) {
				s.fit()
			}
		},
		Regenerate: func() {
			s.track.Regenerate()
			s.fit()
		},
		Reset: func() {
			s.track.Reset()
			s.fit()
		},
	})
	panel.SetEnabled(true)

	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
			s.cam.Resize(float32(w), float32(h))
			s.background.Resize(w, h)
			s.fit()
		}
		if rl.IsKeyPressed(rl.KeyW) {
			s.waypoints = !s.waypoints
		}
		if rl.IsKeyPressed(rl.KeyC) {
			if text, err := configYAML(s.track.Config()); err != nil {
				slog.Error("encoding track config", "error", err)
			} else {
				rl.SetClipboardText(text)
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		s.draw()

		panel.Draw(ui.HUDData{
			ScreenWidth:  int32(rl.GetScreenWidth()),
			ScreenHeight: int32(rl.GetScreenHeight()),
			TrackConfig:  s.track.Config(),
		})
		rl.DrawText("Track Preview", 10, 10, 20, rl.White)
		rl.DrawText(trackSummary(s.track), 10, 36, 16, rl.LightGray)
		rl.DrawText("W: toggle waypoints  C: copy YAML", 10, int32(rl.GetScreenHeight())-24, 14, rl.LightGray)
		rl.EndDrawing()
	}
}

// renderPNG draws one track into an offscreen texture and exports it.
func renderPNG(path string, seed int64, textureDir string, w, h int32, waypoints bool) error {
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(w, h, "Track Preview")
	defer rl.CloseWindow()

	s := newScene(seed, textureDir, w, h, waypoints)
	defer s.unload()

	target := rl.LoadRenderTexture(w, h)
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	s.draw()
	rl.EndTextureMode()

	// Render textures are stored bottom-up
	img := rl.LoadImageFromTexture(target.Texture)
	defer rl.UnloadImage(img)
	rl.ImageFlipVertical(img)

	if !rl.ExportImage(*img, path) {
		return fmt.Errorf("exporting %s", path)
	}
	return nil
}

// trackSummary is the one-line description shown under the title.
func trackSummary(tr *track.Track) string {
	cfg := tr.Config()
	return fmt.Sprintf("%dx%d  tiles: %d  detours: %d  waypoints: %d  tile: %dpx",
		cfg.HorizontalCount, cfg.VerticalCount, len(tr.Tiles()), tr.Detours(), tr.WaypointCount(), cfg.SizePx)
}

// configYAML renders cfg as the track section of a config file.
func configYAML(cfg track.Config) (string, error) {
	data, err := yaml.Marshal(map[string]track.Config{"track": cfg})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
