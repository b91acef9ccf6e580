package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/driftloop/camera"
	"github.com/pthm-cable/driftloop/track"
)

// Track colours for procedural tiles.
var (
	ShoulderColor = rl.Color{R: 74, G: 78, B: 84, A: 255}
	AsphaltColor  = rl.Color{R: 52, G: 55, B: 60, A: 255}
	LaneColor     = rl.Color{R: 220, G: 220, B: 220, A: 120}
	CheckerDark   = rl.Color{R: 20, G: 20, B: 20, A: 255}
	CheckerLight  = rl.Color{R: 240, G: 240, B: 240, A: 255}
)

const (
	laneHalfWidth = 0.3 // Of the tile edge
	checkerRows   = 8
)

// arc describes the road on a corner tile as a quarter ring around one of
// the tile's corners. Angles are raylib degrees (0 = +X, clockwise on screen).
type arc struct {
	pivot      r2.Vec // Tile-relative, in tile edges
	start, end float32
}

// cornerArc returns the ring for a corner kind. A top-left tile joins its
// east and south sides, so its road bends around the tile's bottom-right corner.
func cornerArc(kind track.TileKind) (arc, bool) {
	switch kind {
	case track.TileTopLeft:
		return arc{pivot: r2.Vec{X: 1, Y: 1}, start: 180, end: 270}, true
	case track.TileTopRight:
		return arc{pivot: r2.Vec{X: 0, Y: 1}, start: 270, end: 360}, true
	case track.TileBottomLeft:
		return arc{pivot: r2.Vec{X: 1, Y: 0}, start: 90, end: 180}, true
	case track.TileBottomRight:
		return arc{pivot: r2.Vec{X: 0, Y: 0}, start: 0, end: 90}, true
	}
	return arc{}, false
}

// TrackRenderer draws tiles in world space; call it between BeginMode2D
// and EndMode2D.
type TrackRenderer struct {
	textures *TileTextures // nil draws procedural tiles
}

// NewTrackRenderer creates a track renderer. textures may be nil.
func NewTrackRenderer(textures *TileTextures) *TrackRenderer {
	return &TrackRenderer{textures: textures}
}

// Draw renders every visible tile of tr.
func (r *TrackRenderer) Draw(tr *track.Track, cam *camera.Camera) {
	for _, t := range tr.Tiles() {
		if cam != nil && !cam.BoxVisible(t.Bounds()) {
			continue
		}
		if r.textures != nil {
			r.drawTextured(t)
			continue
		}
		drawProcedural(t)
	}
}

func (r *TrackRenderer) drawTextured(t track.Tile) {
	tex := r.textures.Texture(t.Kind)
	src := rl.Rectangle{Width: float32(tex.Width), Height: float32(tex.Height)}
	dst := rl.Rectangle{
		X:      float32(t.Position.X),
		Y:      float32(t.Position.Y),
		Width:  float32(t.Size),
		Height: float32(t.Size),
	}
	rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, float32(t.Rotation), rl.White)
}

func drawProcedural(t track.Tile) {
	x, y, s := float32(t.Position.X), float32(t.Position.Y), float32(t.Size)
	rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: s, Height: s}, ShoulderColor)

	if a, ok := cornerArc(t.Kind); ok {
		centre := rl.Vector2{X: x + float32(a.pivot.X)*s, Y: y + float32(a.pivot.Y)*s}
		inner := s * (0.5 - laneHalfWidth)
		outer := s * (0.5 + laneHalfWidth)
		rl.DrawRing(centre, inner, outer, a.start, a.end, 24, AsphaltColor)
		rl.DrawRingLines(centre, s*0.5, s*0.5, a.start, a.end, 24, LaneColor)
		return
	}

	half := s * laneHalfWidth
	switch t.Kind {
	case track.TileVertical:
		rl.DrawRectangleRec(rl.Rectangle{X: x + s/2 - half, Y: y, Width: 2 * half, Height: s}, AsphaltColor)
		rl.DrawLineEx(rl.Vector2{X: x + s/2, Y: y}, rl.Vector2{X: x + s/2, Y: y + s}, 2, LaneColor)
	case track.TileHorizontal, track.TileHorizontalFinish:
		rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y + s/2 - half, Width: s, Height: 2 * half}, AsphaltColor)
		rl.DrawLineEx(rl.Vector2{X: x, Y: y + s/2}, rl.Vector2{X: x + s, Y: y + s/2}, 2, LaneColor)
		if t.Kind == track.TileHorizontalFinish {
			drawChequer(x+s/2, y+s/2-half, 2*half)
		}
	}
}

// drawChequer draws a two-column chequered line of the given height with
// its left edge at x.
func drawChequer(x, top, height float32) {
	cell := height / checkerRows
	for row := 0; row < checkerRows; row++ {
		for col := 0; col < 2; col++ {
			c := CheckerLight
			if (row+col)%2 == 0 {
				c = CheckerDark
			}
			rl.DrawRectangleRec(rl.Rectangle{
				X:      x - cell + float32(col)*cell,
				Y:      top + float32(row)*cell,
				Width:  cell,
				Height: cell,
			}, c)
		}
	}
}

// DrawWaypoints draws the racing line, marking target with a ring.
// target < 0 marks nothing.
func DrawWaypoints(waypoints []track.Waypoint, target int, tileSize float64) {
	n := len(waypoints)
	if n == 0 {
		return
	}
	r := float32(tileSize * 0.04)
	for i, wp := range waypoints {
		next := waypoints[(i+1)%n]
		rl.DrawLineEx(toVec2(wp.Position), toVec2(next.Position), 2, rl.Fade(rl.SkyBlue, 0.5))

		c := rl.SkyBlue
		if wp.Type == track.WaypointCorner {
			c = rl.Orange
		}
		if i == 0 {
			c = rl.White
		}
		rl.DrawCircleV(toVec2(wp.Position), r, c)
		if i == target {
			rl.DrawRingLines(toVec2(wp.Position), r*2, r*2.4, 0, 360, 32, rl.Yellow)
		}
	}
}

// DrawBounds outlines every collision box.
func DrawBounds(boxes []r2.Box) {
	for _, b := range boxes {
		rl.DrawRectangleLinesEx(rl.Rectangle{
			X:      float32(b.Min.X),
			Y:      float32(b.Min.Y),
			Width:  float32(b.Max.X - b.Min.X),
			Height: float32(b.Max.Y - b.Min.Y),
		}, 2, rl.Fade(rl.Red, 0.6))
	}
}

// Camera2D converts the follow camera into a raylib camera.
func Camera2D(cam *camera.Camera) rl.Camera2D {
	return rl.Camera2D{
		Offset: rl.Vector2{X: cam.ViewportW / 2, Y: cam.ViewportH / 2},
		Target: rl.Vector2{X: cam.X, Y: cam.Y},
		Zoom:   cam.Zoom,
	}
}

func toVec2(p r2.Vec) rl.Vector2 {
	return rl.Vector2{X: float32(p.X), Y: float32(p.Y)}
}
