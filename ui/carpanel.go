package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// carPanelSections lays out the car telemetry panel.
func carPanelSections() []SectionDescriptor {
	return []SectionDescriptor{
		{
			ID:      "driver",
			Visible: func(d HUDData) bool { _, ok := focusEntry(d); return ok },
			Fields: []FieldDescriptor{
				{ID: "color", Label: "Car", Widget: WidgetColorSwatch,
					Color: func(d HUDData) rl.Color { e, _ := focusEntry(d); return e.Color }},
				{ID: "position", Label: "Position", Widget: WidgetText,
					Text: func(d HUDData) string {
						e, _ := focusEntry(d)
						return fmt.Sprintf("P%d / %d", e.Position, d.TotalCars)
					}},
			},
		},
		{
			ID:    "motion",
			Title: "Motion",
			Fields: []FieldDescriptor{
				{ID: "speed", Label: "Speed", Widget: WidgetBar, Range: DefaultRange(),
					Value: func(d HUDData) float32 {
						if d.MaxSpeed <= 0 {
							return 0
						}
						return float32(d.Focus.Speed / d.MaxSpeed)
					}},
				{ID: "heading", Label: "Heading", Widget: WidgetText, Format: "%.1f°",
					Value: func(d HUDData) float32 { return float32(d.Focus.Heading) }},
				{ID: "steer", Label: "Wheel", Widget: WidgetCenteredBar, Range: FieldRange{Min: -45, Max: 45},
					Value: func(d HUDData) float32 { return float32(d.Focus.SteeringAngle) }},
				{ID: "drift", Label: "Drift", Widget: WidgetText, Format: "%.0f",
					Value: func(d HUDData) float32 { return float32(d.Focus.DriftScore) }},
				{ID: "impact", Label: "Impact", Widget: WidgetText, Format: "%.0f",
					Value:   func(d HUDData) float32 { return float32(d.Focus.ImpactSpeed) },
					Visible: func(d HUDData) bool { return d.Focus.Collided }},
			},
		},
		{
			ID:    "input",
			Title: "Input",
			Fields: []FieldDescriptor{
				{ID: "throttle", Label: "Throttle", Widget: WidgetBar, Range: DefaultRange(),
					Value: func(d HUDData) float32 { return float32(d.Focus.Input.Throttle) }},
				{ID: "brake", Label: "Brake", Widget: WidgetBar, Range: DefaultRange(),
					Value: func(d HUDData) float32 { return float32(d.Focus.Input.Brake) }},
				{ID: "handbrake", Label: "Handbrake", Widget: WidgetBar, Range: DefaultRange(),
					Value: func(d HUDData) float32 { return float32(d.Focus.Input.Handbrake) }},
				{ID: "steering", Label: "Steering", Widget: WidgetCenteredBar, Range: CenteredRange(),
					Value: func(d HUDData) float32 { return float32(d.Focus.Input.Steering) }},
			},
		},
		{
			ID:    "nav",
			Title: "Navigation",
			Fields: []FieldDescriptor{
				{ID: "mode", Label: "Mode", Widget: WidgetText,
					Text: func(d HUDData) string { return d.Focus.Mode.String() }},
				{ID: "target", Label: "Target", Widget: WidgetText,
					Text: func(d HUDData) string {
						return fmt.Sprintf("%d / %d", d.Focus.WaypointIndex, len(d.Waypoints))
					}},
			},
		},
	}
}

// CarPanel shows the focused car's physics state.
type CarPanel struct {
	toggle
	renderer *Renderer
	sections []SectionDescriptor
	width    int32
}

// NewCarPanel creates a disabled car telemetry panel.
func NewCarPanel(width int32) *CarPanel {
	return &CarPanel{renderer: NewRenderer(), sections: carPanelSections(), width: width}
}

// Draw implements Widget.
func (p *CarPanel) Draw(data HUDData) {
	if !p.enabled || !data.HasFocus {
		return
	}
	r := p.renderer
	pad := r.Theme.Padding

	h := pad*2 + r.Theme.LineHeight + 4
	for _, sd := range p.sections {
		h += r.SectionHeight(sd, data)
	}
	x, y := anchorOrigin(AnchorBottomRight, data.ScreenWidth, data.ScreenHeight, p.width, h, 10)
	y -= 74 // above the speedometer
	r.DrawPanel(x, y, p.width, h)

	y += pad
	rl.DrawText(data.FocusName, x+pad, y, 16, rl.White)
	y += r.Theme.LineHeight + 4
	for _, sd := range p.sections {
		y = r.DrawSection(x+pad, y, sd, data, p.width-2*pad)
	}
}
