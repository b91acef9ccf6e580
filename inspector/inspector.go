// Package inspector shows the components and physics state of a selected car.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/driftloop/components"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Inspector manages car selection and panel rendering.
type Inspector struct {
	selected    ecs.Entity
	hasSelected bool
	panelX      int32
	panelY      int32

	filter    ecs.Filter2[components.Racer, components.Vehicle]
	racerMap  *ecs.Map1[components.Racer]
	vehMap    *ecs.Map1[components.Vehicle]
	progMap   *ecs.Map1[components.Progress]
	standMap  *ecs.Map1[components.Standing]
	pickRange float64
	height    int32 // Panel height at the last draw
}

// NewInspector creates an inspector over the racers in w. pickRange is the
// world distance within which a click selects a car.
func NewInspector(w *ecs.World, screenWidth int32, pickRange float64) *Inspector {
	return &Inspector{
		panelX:    screenWidth - PanelWidth - 10,
		panelY:    10,
		filter:    *ecs.NewFilter2[components.Racer, components.Vehicle](w),
		racerMap:  ecs.NewMap1[components.Racer](w),
		vehMap:    ecs.NewMap1[components.Vehicle](w),
		progMap:   ecs.NewMap1[components.Progress](w),
		standMap:  ecs.NewMap1[components.Standing](w),
		pickRange: pickRange,
		height:    HeaderHeight,
	}
}

// SetScreenWidth re-anchors the panel after a window resize.
func (ins *Inspector) SetScreenWidth(w int32) {
	ins.panelX = w - PanelWidth - 10
}

// HandleClick processes a left click at screen position (sx, sy), which
// maps to world position p. It reports whether the click was consumed.
func (ins *Inspector) HandleClick(sx, sy int32, p r2.Vec) bool {
	if ins.hasSelected {
		closeX := ins.panelX + PanelWidth - 25
		closeY := ins.panelY + 5
		if sx >= closeX && sx <= closeX+20 && sy >= closeY && sy <= closeY+20 {
			ins.Deselect()
			return true
		}
		if sx >= ins.panelX && sx <= ins.panelX+PanelWidth && sy >= ins.panelY && sy <= ins.panelY+ins.height {
			return true
		}
	}

	var (
		entities  []ecs.Entity
		positions []r2.Vec
	)
	query := ins.filter.Query()
	for query.Next() {
		_, veh := query.Get()
		if veh.Car == nil {
			continue
		}
		entities = append(entities, query.Entity())
		positions = append(positions, veh.Car.Position())
	}
	if i := nearest(positions, p, ins.pickRange); i >= 0 {
		ins.Select(entities[i])
		return true
	}
	return false
}

// nearest returns the index of the point closest to p within radius, or -1.
func nearest(points []r2.Vec, p r2.Vec, radius float64) int {
	best, bestDist := -1, radius*radius
	for i, q := range points {
		d := r2.Sub(q, p)
		if dist := r2.Dot(d, d); dist <= bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// Select focuses the panel on e.
func (ins *Inspector) Select(e ecs.Entity) {
	ins.selected = e
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the currently selected entity.
func (ins *Inspector) Selected() (ecs.Entity, bool) {
	return ins.selected, ins.hasSelected
}

// Draw renders the inspector panel if a car is selected.
func (ins *Inspector) Draw(w *ecs.World) {
	if !ins.hasSelected {
		return
	}
	if !w.Alive(ins.selected) || !ins.vehMap.HasAll(ins.selected) {
		ins.Deselect()
		return
	}
	racer := ins.racerMap.Get(ins.selected)
	veh := ins.vehMap.Get(ins.selected)
	if veh.Car == nil {
		ins.Deselect()
		return
	}
	items := append(carItems(veh.Car.State(), veh.Car.Config()),
		componentItems("RACE", ins.standMap.Get(ins.selected), ins.progMap.Get(ins.selected))...)
	ins.height = HeaderHeight + 2*PanelPadding + itemsHeight(items)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, ins.height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(ins.height)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("#%d %s", racer.Number, racer.Name), ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	drawItems(ins.panelX+PanelPadding, ins.panelY+HeaderHeight+PanelPadding, PanelWidth-2*PanelPadding, items)
}

// DrawSelectionHighlight draws a ring around the selected car and a line to
// its target waypoint. Call it in world space.
func (ins *Inspector) DrawSelectionHighlight(tileSize float64) {
	if !ins.hasSelected || !ins.vehMap.HasAll(ins.selected) {
		return
	}
	veh := ins.vehMap.Get(ins.selected)
	if veh.Car == nil {
		return
	}
	pos := veh.Car.Position()
	target := veh.Car.TargetWaypoint().Position
	center := rl.Vector2{X: float32(pos.X), Y: float32(pos.Y)}
	rl.DrawCircleLines(int32(pos.X), int32(pos.Y), float32(tileSize*0.12), rl.Yellow)
	rl.DrawLineEx(center, rl.Vector2{X: float32(target.X), Y: float32(target.Y)}, 2, rl.Fade(rl.Yellow, 0.5))
}
