package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/driftloop/track"
)

// TrackActions are the track operations the builder panel can trigger.
type TrackActions struct {
	Apply      func(track.Config) // Rebuild if the config changed
	Regenerate func()             // New layout with the current config
	Reset      func()             // Rebuild the default layout
}

// TrackPanel edits track.Config with raygui sliders.
type TrackPanel struct {
	toggle
	renderer *Renderer
	actions  TrackActions
	width    int32

	draft track.Config
	dirty bool
}

// NewTrackPanel creates a disabled track builder panel.
func NewTrackPanel(width int32, actions TrackActions) *TrackPanel {
	return &TrackPanel{renderer: NewRenderer(), actions: actions, width: width}
}

// Draw implements Widget.
func (p *TrackPanel) Draw(data HUDData) {
	if !p.enabled {
		return
	}
	if !p.dirty {
		p.draft = data.TrackConfig
	}

	r := p.renderer
	pad := r.Theme.Padding
	h := int32(190)
	x, y := int32(10), int32(80)
	r.DrawPanel(x, y, p.width, h)

	rl.DrawText("Track Builder", x+pad, y+pad, 16, rl.White)
	row := float32(y + pad + 26)
	sx := float32(x + 90)
	sw := float32(p.width - 150)

	before := p.draft
	hc := gui.SliderBar(rl.Rectangle{X: sx, Y: row, Width: sw, Height: 16}, "Columns", fmt.Sprint(p.draft.HorizontalCount),
		float32(p.draft.HorizontalCount), 3, 16)
	p.draft.HorizontalCount = int(hc + 0.5)
	row += 24
	vc := gui.SliderBar(rl.Rectangle{X: sx, Y: row, Width: sw, Height: 16}, "Rows", fmt.Sprint(p.draft.VerticalCount),
		float32(p.draft.VerticalCount), 3, 12)
	p.draft.VerticalCount = int(vc + 0.5)
	row += 24
	sz := gui.SliderBar(rl.Rectangle{X: sx, Y: row, Width: sw, Height: 16}, "Tile px", fmt.Sprint(p.draft.SizePx),
		float32(p.draft.SizePx), 256, 1024)
	p.draft.SizePx = int(sz/32+0.5) * 32
	row += 24
	dp := gui.SliderBar(rl.Rectangle{X: sx, Y: row, Width: sw, Height: 16}, "Detours", fmt.Sprintf("%.2f", p.draft.DetourProbability),
		float32(p.draft.DetourProbability), 0, 1)
	p.draft.DetourProbability = float64(dp)
	row += 30

	if !p.draft.Equal(before) {
		p.dirty = true
	}

	bw := float32(p.width-4*pad) / 3
	if gui.Button(rl.Rectangle{X: float32(x + pad), Y: row, Width: bw, Height: 24}, "Apply") && p.actions.Apply != nil {
		p.actions.Apply(p.draft)
		p.dirty = false
	}
	if gui.Button(rl.Rectangle{X: float32(x+2*pad) + bw, Y: row, Width: bw, Height: 24}, "Regenerate") && p.actions.Regenerate != nil {
		p.actions.Regenerate()
	}
	if gui.Button(rl.Rectangle{X: float32(x+3*pad) + 2*bw, Y: row, Width: bw, Height: 24}, "Reset") && p.actions.Reset != nil {
		p.actions.Reset()
		p.dirty = false
	}
	row += 30
	if p.dirty {
		rl.DrawText("unapplied changes", x+pad, int32(row), r.Theme.FontSize, rl.Orange)
	}
}
