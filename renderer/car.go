package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/driftloop/vehicle"
)

// Car body size as a fraction of the tile edge.
const (
	carLength = 0.16
	carWidth  = 0.09
)

// carBody returns the rectangle and rotation to pass to DrawRectanglePro
// with the origin at the rectangle's centre. The body's long side runs
// along the heading; raylib rotates clockwise like headings do.
func carBody(st vehicle.State, tileSize float64) (rl.Rectangle, rl.Vector2, float32) {
	w := float32(tileSize * carWidth)
	l := float32(tileSize * carLength)
	rec := rl.Rectangle{X: float32(st.Position.X), Y: float32(st.Position.Y), Width: w, Height: l}
	return rec, rl.Vector2{X: w / 2, Y: l / 2}, float32(st.Heading)
}

// noseOffset returns the vector from the car centre to its nose.
func noseOffset(heading, tileSize float64) r2.Vec {
	rad := heading * math.Pi / 180
	return r2.Scale(tileSize*carLength/2, r2.Vec{X: math.Sin(rad), Y: -math.Cos(rad)})
}

// DrawCar draws a car as a rotated rectangle with a nose marker.
func DrawCar(st vehicle.State, c color.RGBA, tileSize float64, selected bool) {
	rec, origin, rot := carBody(st, tileSize)
	if selected {
		pad := float32(tileSize * 0.02)
		halo := rl.Rectangle{X: rec.X, Y: rec.Y, Width: rec.Width + 2*pad, Height: rec.Height + 2*pad}
		rl.DrawRectanglePro(halo, rl.Vector2{X: origin.X + pad, Y: origin.Y + pad}, rot, rl.Yellow)
	}
	body := c
	if st.Collided {
		body = rl.White
	}
	rl.DrawRectanglePro(rec, origin, rot, body)

	nose := r2.Add(st.Position, noseOffset(st.Heading, tileSize))
	rl.DrawCircleV(toVec2(nose), float32(tileSize*carWidth*0.25), rl.Black)
}
