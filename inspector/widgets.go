package inspector

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/samber/lo"

	"github.com/pthm-cable/driftloop/vehicle"
)

// Row colors
var (
	ColorBarBg       = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill     = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarLow      = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorText        = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim     = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorAngleBg     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorAngleNeedle = rl.Color{R: 255, G: 200, B: 100, A: 255}
	ColorBoolOn      = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff     = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

// Row heights
const (
	rowHeight    = 18
	headerHeight = 22
	dialSize     = 40
	angleHeight  = dialSize + 4

	labelColumn = 90 // x offset of bars, dials and indicators
	barWidth    = 120
	barHeight   = 14
)

// item is one row of the panel: a section header or a field.
type item struct {
	header string
	field  Field
}

func headerItem(title string) item { return item{header: title} }

func fieldItem(f Field) item { return item{field: f} }

// height returns the vertical space the row takes.
func (it item) height() int32 {
	if it.header != "" {
		return headerHeight
	}
	if it.field.Hint.Widget == WidgetAngle {
		return angleHeight
	}
	return rowHeight
}

// itemsHeight sums the rows.
func itemsHeight(items []item) int32 {
	return lo.SumBy(items, func(it item) int32 { return it.height() })
}

// carItems lists the physics state of a car.
func carItems(st vehicle.State, cfg vehicle.Config) []item {
	unit := Hint{Widget: WidgetBar, Max: 1}
	return []item{
		headerItem("CAR"),
		fieldItem(Field{Name: "Position", Value: st.Position, Hint: Hint{Widget: WidgetVector}}),
		fieldItem(Field{Name: "Mode", Value: st.Mode, Hint: Hint{Widget: WidgetLabel}}),
		fieldItem(Field{Name: "Speed", Value: st.Speed, Hint: Hint{Widget: WidgetBar, Max: cfg.MaxSpeed}}),
		fieldItem(Field{Name: "Heading", Value: st.Heading, Hint: Hint{Widget: WidgetAngle}}),
		fieldItem(Field{Name: "Wheel", Value: st.SteeringAngle, Hint: Hint{Widget: WidgetBar, Min: -cfg.MaxSteeringAngle, Max: cfg.MaxSteeringAngle}}),
		fieldItem(Field{Name: "Throttle", Value: st.Input.Throttle, Hint: unit}),
		fieldItem(Field{Name: "Brake", Value: st.Input.Brake, Hint: unit}),
		fieldItem(Field{Name: "Handbrake", Value: st.Input.Handbrake, Hint: unit}),
		fieldItem(Field{Name: "Steering", Value: st.Input.Steering, Hint: Hint{Widget: WidgetBar, Min: -1, Max: 1}}),
		fieldItem(Field{Name: "Drift", Value: st.DriftScore, Hint: Hint{Widget: WidgetLabel, Format: "%.0f"}}),
		fieldItem(Field{Name: "Collided", Value: st.Collided, Hint: Hint{Widget: WidgetBool}}),
	}
}

// componentItems lists the reflected fields of each component under title.
func componentItems(title string, comps ...any) []item {
	items := []item{headerItem(title)}
	for _, c := range comps {
		items = append(items, lo.Map(ExtractFields(c), func(f Field, _ int) item { return fieldItem(f) })...)
	}
	return items
}

// drawItems draws rows top-down from (x, y) within width.
func drawItems(x, y, width int32, items []item) {
	for _, it := range items {
		if it.header != "" {
			drawHeader(x, y, width, it.header)
		} else {
			drawField(x, y, it.field)
		}
		y += it.height()
	}
}

func drawHeader(x, y, width int32, title string) {
	rl.DrawRectangle(x-2, y, width+4, headerHeight-4, ColorSection)
	rl.DrawText(title, x+2, y+2, 14, ColorSectionText)
}

// drawField draws f with its widget, falling back to a label when the value
// does not suit the widget.
func drawField(x, y int32, f Field) {
	switch f.Hint.Widget {
	case WidgetBar:
		if v, ok := toFloat(f.Value); ok {
			drawBar(x, y, f.Label(), v, f.Hint)
			return
		}
	case WidgetAngle:
		if v, ok := toFloat(f.Value); ok {
			drawAngle(x, y, f.Label(), v)
			return
		}
	case WidgetBool:
		if v, ok := f.Value.(bool); ok {
			drawBool(x, y, f.Label(), v)
			return
		}
	}
	rl.DrawText(f.Label(), x, y, 14, ColorTextDim)
	rl.DrawText(f.Text(), x+labelColumn, y, 14, ColorText)
}

func drawBar(x, y int32, name string, value float64, h Hint) {
	ratio := h.Ratio(value)
	rl.DrawText(name, x, y, 14, ColorTextDim)

	bx := x + labelColumn
	rl.DrawRectangle(bx, y, barWidth, barHeight, ColorBarBg)
	if h.Min < 0 && h.Max > 0 {
		// Centered: fill from the zero mark
		zero := int32(barWidth * h.Ratio(0))
		fill := int32(barWidth*ratio) - zero
		rl.DrawRectangle(bx+min(zero, zero+fill), y, absInt32(fill), barHeight, ColorBarFill)
		rl.DrawLine(bx+zero, y, bx+zero, y+barHeight, ColorTextDim)
	} else {
		rl.DrawRectangle(bx, y, int32(barWidth*ratio), barHeight, lerpColor(ColorBarLow, ColorBarFill, float32(ratio)))
	}
	rl.DrawText(FormatValue(value, ""), bx+barWidth+5, y, 14, ColorTextDim)
}

// drawAngle draws a compass dial for a heading in degrees.
func drawAngle(x, y int32, name string, degrees float64) {
	cx := x + labelColumn + dialSize/2
	cy := y + dialSize/2

	rl.DrawText(name, x, cy-7, 14, ColorTextDim)
	rl.DrawCircle(cx, cy, dialSize/2, ColorAngleBg)
	rl.DrawCircleLines(cx, cy, dialSize/2, ColorTextDim)
	end := needleEnd(float32(cx), float32(cy), dialSize/2-4, float32(degrees))
	rl.DrawLineEx(rl.Vector2{X: float32(cx), Y: float32(cy)}, end, 2, ColorAngleNeedle)
	rl.DrawText(FormatValue(degrees, "%.0f deg"), x+labelColumn+dialSize+5, cy-7, 14, ColorTextDim)
}

// needleEnd returns the tip of a compass needle of length l at the heading.
func needleEnd(cx, cy, l, degrees float32) rl.Vector2 {
	rad := float64(degrees) * math.Pi / 180
	return rl.Vector2{
		X: cx + l*float32(math.Sin(rad)),
		Y: cy - l*float32(math.Cos(rad)),
	}
}

func drawBool(x, y int32, name string, on bool) {
	rl.DrawText(name, x, y, 14, ColorTextDim)
	c := lo.Ternary(on, ColorBoolOn, ColorBoolOff)
	rl.DrawRectangle(x+labelColumn, y, barHeight, barHeight, c)
	rl.DrawText(lo.Ternary(on, "YES", "NO"), x+labelColumn+barHeight+5, y, 14, c)
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// lerpColor interpolates between two colors.
func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}
