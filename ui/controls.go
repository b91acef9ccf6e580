package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/samber/lo"
)

// KeyBinding is one line of the race controls list.
type KeyBinding struct {
	Keys   string // e.g. "Tab"
	Action string // e.g. "Autopilot"
}

// DefaultBindings are the race keys handled by the game loop.
func DefaultBindings() []KeyBinding {
	return []KeyBinding{
		{Keys: "WASD/Arrows", Action: "Drive"},
		{Keys: "Space", Action: "Handbrake"},
		{Keys: "Tab", Action: "Autopilot"},
		{Keys: "R", Action: "Restart race"},
		{Keys: "N", Action: "New track"},
		{Keys: "P", Action: "Pause"},
		{Keys: "< >", Action: "Sim speed"},
		{Keys: "Wheel/+-", Action: "Zoom"},
		{Keys: "F", Action: "Fit track"},
		{Keys: "Click", Action: "Inspect car"},
	}
}

type rowKind int

const (
	rowHeader rowKind = iota
	rowBinding
	rowOverlay
)

// controlRow is one line of the panel.
type controlRow struct {
	kind    rowKind
	label   string
	key     string
	enabled bool
}

// controlRows lays out the race keys followed by each overlay category.
func controlRows(bindings []KeyBinding, overlays *OverlayRegistry) []controlRow {
	rows := []controlRow{{kind: rowHeader, label: "Race"}}
	rows = append(rows, lo.Map(bindings, func(b KeyBinding, _ int) controlRow {
		return controlRow{kind: rowBinding, label: b.Action, key: b.Keys}
	})...)
	if overlays == nil {
		return rows
	}
	for _, category := range overlays.Categories() {
		rows = append(rows, controlRow{kind: rowHeader, label: categoryLabel(category)})
		for _, desc := range overlays.ByCategory(category) {
			rows = append(rows, controlRow{
				kind:    rowOverlay,
				label:   desc.Name,
				key:     desc.KeyLabel,
				enabled: overlays.IsEnabled(desc.ID),
			})
		}
	}
	return rows
}

// ControlsPanel lists the race keys and the overlay toggles.
type ControlsPanel struct {
	toggle
	renderer *Renderer
	x, y     int32
	width    int32
	bindings []KeyBinding
	overlays *OverlayRegistry
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32, bindings []KeyBinding, overlays *OverlayRegistry) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		bindings: bindings,
		overlays: overlays,
	}
}

// Draw implements Widget.
func (c *ControlsPanel) Draw(HUDData) {
	if !c.enabled {
		return
	}

	r := c.renderer
	pad := r.Theme.Padding
	lh := r.Theme.LineHeight
	rows := controlRows(c.bindings, c.overlays)
	headers := lo.CountBy(rows, func(row controlRow) bool { return row.kind == rowHeader })

	r.DrawPanel(c.x, c.y, c.width, int32(len(rows)+1)*lh+int32(headers)*4+pad*2)

	y := c.y + pad
	rl.DrawText("Controls", c.x+pad, y, 16, rl.White)
	y += lh

	inner := c.width - pad*2
	for _, row := range rows {
		switch row.kind {
		case rowHeader:
			y += 4
			rl.DrawText(row.label, c.x+pad, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		case rowBinding:
			rl.DrawText(row.label, c.x+pad, y, r.Theme.FontSize, r.Theme.LabelColor)
			c.drawKey(c.x+pad, y, inner, row.key)
		case rowOverlay:
			status := lo.Ternary(row.enabled, rl.Color{R: 100, G: 200, B: 100, A: 255}, rl.Color{R: 80, G: 80, B: 80, A: 255})
			rl.DrawRectangle(c.x+pad, y+2, 8, 8, status)
			rl.DrawText(row.label, c.x+pad+14, y, r.Theme.FontSize, lo.Ternary(row.enabled, rl.White, r.Theme.LabelColor))
			c.drawKey(c.x+pad, y, inner, row.key)
		}
		y += lh
	}
}

// drawKey right-aligns a key label within width.
func (c *ControlsPanel) drawKey(x, y, width int32, key string) {
	if key == "" {
		return
	}
	fs := c.renderer.Theme.FontSize
	text := fmt.Sprintf("[%s]", key)
	rl.DrawText(text, x+width-rl.MeasureText(text, fs), y, fs, rl.Color{R: 150, G: 150, B: 150, A: 255})
}

func categoryLabel(cat string) string {
	switch cat {
	case "hud":
		return "HUD"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
