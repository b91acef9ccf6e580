package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/samber/lo"
)

// Renderer draws panels and descriptor rows in a shared theme.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// rowHeight is the vertical space a row of the given widget takes.
func (r *Renderer) rowHeight(w WidgetType) int32 {
	switch w {
	case WidgetBar, WidgetCenteredBar:
		return r.Theme.LineHeight + 2
	case WidgetSpacer:
		return 6
	}
	return r.Theme.LineHeight
}

// label draws a row label and returns the x where its value starts.
func (r *Renderer) label(x, y int32, text string) int32 {
	rl.DrawText(text+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	return x + r.Theme.LabelWidth
}

// DrawField draws one row for d and returns the y below it.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, d HUDData, width int32) int32 {
	t := r.Theme
	switch fd.Widget {
	case WidgetText:
		rl.DrawText(fd.text(d), r.label(x, y, fd.Label), y, t.FontSize, t.ValueColor)

	case WidgetBar, WidgetCenteredBar:
		bx := r.label(x, y, fd.Label)
		bw := width - t.LabelWidth - 50
		v := fd.value(d)
		rl.DrawRectangle(bx, y+2, bw, t.BarHeight, t.BarBg)
		if fd.Widget == WidgetBar {
			rl.DrawRectangle(bx, y+2, int32(float32(bw)*barFraction(v, fd.Range)), t.BarHeight, t.BarFill)
			rl.DrawText(fmt.Sprintf("%.2f", v), bx+bw+5, y, t.FontSize, t.ValueColor)
			break
		}
		from, to := centeredSpan(v, fd.Range.Max)
		cx := bx + bw/2
		half := float32(bw / 2)
		fill := lo.Ternary(v < 0, t.BarFillNegative, t.BarFillPositive)
		rl.DrawRectangle(cx+int32(half*from), y+2, int32(half*(to-from)), t.BarHeight, fill)
		rl.DrawLine(cx, y+2, cx, y+2+t.BarHeight, rl.Color{R: 80, G: 80, B: 80, A: 255})
		rl.DrawText(fmt.Sprintf("%+.2f", v), bx+bw+5, y, t.FontSize, t.ValueColor)

	case WidgetColorSwatch:
		if fd.Color != nil {
			rl.DrawRectangle(r.label(x, y, fd.Label), y+1, 12, 12, fd.Color(d))
		}

	case WidgetSection:
		rl.DrawText(fd.Label, x, y, t.HeaderFontSize, t.SectionHeader)
	}
	return y + r.rowHeight(fd.Widget)
}

// DrawSection draws a section's header and visible rows, returning the y
// below it.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, d HUDData, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(d) {
		return y
	}
	if sd.Title != "" {
		y = r.DrawField(x, y, FieldDescriptor{Label: sd.Title, Widget: WidgetSection}, d, width)
	}
	for _, fd := range sd.Fields {
		if fd.visible(d) {
			y = r.DrawField(x, y, fd, d, width)
		}
	}
	return y + 4
}

// SectionHeight returns how tall DrawSection draws sd for d.
func (r *Renderer) SectionHeight(sd SectionDescriptor, d HUDData) int32 {
	if sd.Visible != nil && !sd.Visible(d) {
		return 0
	}
	h := int32(4)
	if sd.Title != "" {
		h += r.rowHeight(WidgetSection)
	}
	for _, fd := range sd.Fields {
		if fd.visible(d) {
			h += r.rowHeight(fd.Widget)
		}
	}
	return h
}

// barFraction maps value into [0, 1] over rng.
func barFraction(value float32, rng FieldRange) float32 {
	span := rng.Max - rng.Min
	if span <= 0 {
		return 0
	}
	return lo.Clamp((value-rng.Min)/span, 0, 1)
}

// centeredSpan returns the filled part of a centred bar as offsets from the
// centre in half-widths, from <= to, each within [-1, 1].
func centeredSpan(value, maxVal float32) (from, to float32) {
	if maxVal <= 0 {
		return 0, 0
	}
	f := lo.Clamp(value/maxVal, -1, 1)
	return min(f, 0), max(f, 0)
}
