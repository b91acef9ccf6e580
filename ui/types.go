// Package ui provides the race HUD. Panels are either descriptor-driven
// (fields declared as data, drawn by Renderer) or small widgets that share
// the Widget interface.
package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/driftloop/systems"
	"github.com/pthm-cable/driftloop/telemetry"
	"github.com/pthm-cable/driftloop/track"
	"github.com/pthm-cable/driftloop/vehicle"
)

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text with format string
	WidgetBar                           // Progress bar over Range
	WidgetCenteredBar                   // Bar centred on zero
	WidgetColorSwatch                   // Color preview square
	WidgetSection                       // Section header
	WidgetSpacer                        // Vertical spacing
)

// FieldRange defines the value range for bar widgets.
type FieldRange struct {
	Min float32
	Max float32
}

// DefaultRange returns a [0, 1] range.
func DefaultRange() FieldRange {
	return FieldRange{Min: 0, Max: 1}
}

// CenteredRange returns a [-1, +1] range.
func CenteredRange() FieldRange {
	return FieldRange{Min: -1, Max: 1}
}

// FieldDescriptor declares one row of a descriptor-driven panel. Getters
// read from the HUDData being drawn.
type FieldDescriptor struct {
	ID      string
	Label   string
	Widget  WidgetType
	Format  string             // Printf format for text (e.g., "%.2f")
	Range   FieldRange         // Value range for bars
	Visible func(HUDData) bool // nil = always visible
	Value   func(HUDData) float32
	Text    func(HUDData) string   // Overrides Value for text rows
	Color   func(HUDData) rl.Color // Swatch color
}

// visible reports whether the row is drawn for d.
func (fd FieldDescriptor) visible(d HUDData) bool {
	return fd.Visible == nil || fd.Visible(d)
}

// text returns the row's text for d.
func (fd FieldDescriptor) text(d HUDData) string {
	switch {
	case fd.Text != nil:
		return fd.Text(d)
	case fd.Value != nil:
		return fmt.Sprintf(fd.Format, fd.Value(d))
	}
	return ""
}

// value returns the row's number for d, zero without a getter.
func (fd FieldDescriptor) value(d HUDData) float32 {
	if fd.Value == nil {
		return 0
	}
	return fd.Value(d)
}

// SectionDescriptor groups fields under a header.
type SectionDescriptor struct {
	ID      string
	Title   string
	Fields  []FieldDescriptor
	Visible func(HUDData) bool
}

// PanelAnchor specifies where a panel is anchored on screen.
type PanelAnchor int

const (
	AnchorTopLeft PanelAnchor = iota
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
)

// anchorOrigin returns the top-left corner of a w×h panel anchored inside
// the screen with the given margin.
func anchorOrigin(a PanelAnchor, screenW, screenH, w, h, margin int32) (int32, int32) {
	switch a {
	case AnchorTopRight:
		return screenW - w - margin, margin
	case AnchorBottomLeft:
		return margin, screenH - h - margin
	case AnchorBottomRight:
		return screenW - w - margin, screenH - h - margin
	}
	return margin, margin
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg         rl.Color
	PanelBorder     rl.Color
	SectionHeader   rl.Color
	LabelColor      rl.Color
	ValueColor      rl.Color
	PlayerColor     rl.Color
	BarBg           rl.Color
	BarFill         rl.Color
	BarFillNegative rl.Color
	BarFillPositive rl.Color
	Padding         int32
	LineHeight      int32
	LabelWidth      int32
	BarHeight       int32
	FontSize        int32
	HeaderFontSize  int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:         rl.Color{R: 20, G: 25, B: 30, A: 220},
		PanelBorder:     rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:   rl.Yellow,
		LabelColor:      rl.LightGray,
		ValueColor:      rl.RayWhite,
		PlayerColor:     rl.Gold,
		BarBg:           rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:         rl.Color{R: 100, G: 150, B: 200, A: 255},
		BarFillNegative: rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillPositive: rl.Color{R: 100, G: 200, B: 100, A: 255},
		Padding:         10,
		LineHeight:      16,
		LabelWidth:      70,
		BarHeight:       12,
		FontSize:        12,
		HeaderFontSize:  14,
	}
}

// CarMarker is one car as the minimap sees it.
type CarMarker struct {
	Position r2.Vec
	Color    rl.Color
	Player   bool
}

// HUDData is everything the widgets read in one frame.
type HUDData struct {
	Title        string
	ScreenWidth  int32
	ScreenHeight int32
	FPS          int32
	Paused       bool
	Tick         int64
	SimTime      float64

	HasFocus    bool          // Focus holds a car to show
	Focus       vehicle.State // Player car, or the selected car when spectating
	FocusName   string
	FocusNumber int // Racer number of the focused car, 0 if unknown
	MaxSpeed    float64
	Autopilot   bool

	Leaderboard []systems.Entry
	TotalCars   int

	Waypoints []track.Waypoint
	Extent    r2.Box
	Cars      []CarMarker

	TrackConfig track.Config

	Perf     telemetry.PerfStats
	Registry *systems.SystemRegistry
}

// Widget is a HUD element that can be toggled.
type Widget interface {
	Enabled() bool
	SetEnabled(bool)
	Draw(HUDData)
}

// toggle is embedded by widgets for the Enabled/SetEnabled half of Widget.
type toggle struct {
	enabled bool
}

func (t *toggle) Enabled() bool      { return t.enabled }
func (t *toggle) SetEnabled(on bool) { t.enabled = on }
