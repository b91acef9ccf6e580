package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"
)

// Minimap draws the racing line and every car scaled into a corner box.
type Minimap struct {
	toggle
	renderer *Renderer
	size     int32
}

// NewMinimap creates an enabled minimap with the given longest edge.
func NewMinimap(size int32) *Minimap {
	return &Minimap{toggle: toggle{enabled: true}, renderer: NewRenderer(), size: size}
}

// Draw implements Widget.
func (m *Minimap) Draw(data HUDData) {
	if !m.enabled || len(data.Waypoints) == 0 {
		return
	}
	ext := data.Extent.Size()
	if ext.X <= 0 || ext.Y <= 0 {
		return
	}
	w, h := m.size, m.size
	if ext.X > ext.Y {
		h = int32(float64(m.size) * ext.Y / ext.X)
	} else {
		w = int32(float64(m.size) * ext.X / ext.Y)
	}
	pad := m.renderer.Theme.Padding
	x, y := anchorOrigin(AnchorBottomLeft, data.ScreenWidth, data.ScreenHeight, w+2*pad, h+2*pad, 10)
	y -= 24 // above the controls legend
	m.renderer.DrawPanel(x, y, w+2*pad, h+2*pad)

	inner := r2.Box{
		Min: r2.Vec{X: float64(x + pad), Y: float64(y + pad)},
		Max: r2.Vec{X: float64(x + pad + w), Y: float64(y + pad + h)},
	}
	n := len(data.Waypoints)
	for i, wp := range data.Waypoints {
		a := minimapPoint(data.Extent, inner, wp.Position)
		b := minimapPoint(data.Extent, inner, data.Waypoints[(i+1)%n].Position)
		rl.DrawLineEx(a, b, 3, rl.Gray)
	}
	finish := minimapPoint(data.Extent, inner, data.Waypoints[0].Position)
	rl.DrawCircleV(finish, 3, rl.White)

	for _, c := range data.Cars {
		r := float32(3)
		if c.Player {
			r = 5
		}
		rl.DrawCircleV(minimapPoint(data.Extent, inner, c.Position), r, c.Color)
	}
}

// minimapPoint maps a world position inside world onto the screen box.
func minimapPoint(world, screen r2.Box, p r2.Vec) rl.Vector2 {
	ws, ss := world.Size(), screen.Size()
	fx := (p.X - world.Min.X) / ws.X
	fy := (p.Y - world.Min.Y) / ws.Y
	return rl.Vector2{
		X: float32(screen.Min.X + fx*ss.X),
		Y: float32(screen.Min.Y + fy*ss.Y),
	}
}
