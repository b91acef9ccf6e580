package ui

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/samber/lo"

	"github.com/pthm-cable/driftloop/systems"
	"github.com/pthm-cable/driftloop/telemetry"
)

// HUD renders the title line and the race status of the focused car.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	status := fmt.Sprintf("Time: %s | Tick: %d", formatRaceTime(data.SimTime), data.Tick)
	if e, ok := focusEntry(data); ok {
		status = fmt.Sprintf("P%d/%d | Lap %d | %s", e.Position, data.TotalCars, e.Laps+1, status)
	}
	rl.DrawText(status, 10, 35, 16, rl.LightGray)

	switch {
	case data.Paused:
		rl.DrawText("PAUSED", 10, 55, 16, rl.Yellow)
	case data.Autopilot:
		rl.DrawText("AUTOPILOT", 10, 55, 16, rl.SkyBlue)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// focusEntry finds the leaderboard row of the focused car, falling back to
// the player.
func focusEntry(data HUDData) (systems.Entry, bool) {
	if data.HasFocus && data.FocusNumber > 0 {
		return lo.Find(data.Leaderboard, func(e systems.Entry) bool { return e.Number == data.FocusNumber })
	}
	return lo.Find(data.Leaderboard, func(e systems.Entry) bool { return e.Player })
}

// ---------- FPS ----------

// FPSCounter shows frames per second in the top-right corner.
type FPSCounter struct {
	toggle
}

// NewFPSCounter creates an enabled FPS counter.
func NewFPSCounter() *FPSCounter {
	return &FPSCounter{toggle{enabled: true}}
}

// Draw implements Widget.
func (f *FPSCounter) Draw(data HUDData) {
	if !f.enabled {
		return
	}
	text := fmt.Sprintf("%d FPS", data.FPS)
	w := rl.MeasureText(text, 16)
	c := rl.Green
	if data.FPS < 30 {
		c = rl.Orange
	}
	rl.DrawText(text, data.ScreenWidth-w-10, 10, 16, c)
}

// ---------- Speedometer ----------

// Speedometer shows the focused car's speed as a raygui progress bar.
type Speedometer struct {
	toggle
	renderer *Renderer
	width    int32
}

// NewSpeedometer creates an enabled speedometer of the given width.
func NewSpeedometer(width int32) *Speedometer {
	return &Speedometer{toggle: toggle{enabled: true}, renderer: NewRenderer(), width: width}
}

// Draw implements Widget.
func (s *Speedometer) Draw(data HUDData) {
	if !s.enabled || !data.HasFocus {
		return
	}
	pad := s.renderer.Theme.Padding
	h := int32(64)
	x, y := anchorOrigin(AnchorBottomRight, data.ScreenWidth, data.ScreenHeight, s.width, h, 10)
	s.renderer.DrawPanel(x, y, s.width, h)

	speed := data.Focus.Speed
	rl.DrawText(fmt.Sprintf("%.0f", speed), x+pad, y+pad, 28, rl.White)
	rl.DrawText("px/s", x+pad+rl.MeasureText(fmt.Sprintf("%.0f", speed), 28)+6, y+pad+12, 12, rl.LightGray)
	if data.Focus.DriftScore > 0 {
		drift := fmt.Sprintf("drift %.0f", data.Focus.DriftScore)
		rl.DrawText(drift, x+s.width-pad-rl.MeasureText(drift, 12), y+pad+12, 12, rl.Orange)
	}

	bar := rl.Rectangle{X: float32(x + pad), Y: float32(y + h - pad - 12), Width: float32(s.width - 2*pad), Height: 12}
	gui.ProgressBar(bar, "", "", float32(speed), 0, float32(max(data.MaxSpeed, 1)))
}

// ---------- Perf ----------

// PerfPanel renders per-phase step timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel, slowest phase first.
func (p *PerfPanel) Draw(data HUDData) {
	x, y := p.x, p.y
	stats := data.Perf

	rl.DrawText("Step Performance", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Avg: %s  (%.0f steps/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, row := range perfRows(stats, data.Registry) {
		if row.header {
			y += 2
			rl.DrawText(row.label, x, y, 12, p.renderer.Theme.SectionHeader)
			y += 14
			continue
		}
		color := rl.LightGray
		if row.pct > 50 {
			color = rl.Red
		} else if row.pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("  %-12s %8s %5.1f%%", row.label, row.avg.Round(time.Microsecond), row.pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// perfRow is a category header or one timed phase.
type perfRow struct {
	header bool
	label  string
	avg    time.Duration
	pct    float64
}

// perfRows groups measured phases under their registry categories, slowest
// first within each. Phases the registry does not know go under "other".
func perfRows(stats telemetry.PerfStats, reg *systems.SystemRegistry) []perfRow {
	phaseRows := func(ids []string, name func(string) string) []perfRow {
		ids = lo.Filter(ids, func(id string, _ int) bool { _, ok := stats.PhaseAvg[id]; return ok })
		slices.SortStableFunc(ids, func(a, b string) int {
			return cmp.Compare(stats.PhaseAvg[b], stats.PhaseAvg[a])
		})
		return lo.Map(ids, func(id string, _ int) perfRow {
			return perfRow{label: name(id), avg: stats.PhaseAvg[id], pct: stats.PhasePct[id]}
		})
	}

	measured := lo.Keys(stats.PhaseAvg)
	slices.Sort(measured)
	if reg == nil {
		return phaseRows(measured, func(id string) string { return id })
	}

	var rows []perfRow
	for _, category := range reg.Categories() {
		ids := lo.Map(reg.ByCategory(category), func(info systems.SystemInfo, _ int) string { return info.ID })
		if group := phaseRows(ids, reg.GetName); len(group) > 0 {
			rows = append(rows, perfRow{header: true, label: category})
			rows = append(rows, group...)
		}
	}
	if other := phaseRows(lo.Without(measured, reg.IDs()...), reg.GetName); len(other) > 0 {
		rows = append(rows, perfRow{header: true, label: "other"})
		rows = append(rows, other...)
	}
	return rows
}

// formatRaceTime renders seconds as m:ss.cc. Zero and negative times
// render as dashes.
func formatRaceTime(sec float64) string {
	if sec <= 0 {
		return "-:--.--"
	}
	cs := int(sec*100 + 0.5)
	return fmt.Sprintf("%d:%02d.%02d", cs/6000, (cs/100)%60, cs%100)
}
