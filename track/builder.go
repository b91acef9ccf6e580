package track

import (
	"math/rand"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// Detour bubble heights in rows. A bubble also needs one continuity row after it.
var detourHeights = [...]int{3, 4}

// detourCurves lists the four curve pieces of a detour bubble in path order.
// The mapping depends on which edge the bubble sits on and on the traversal
// direction, so both cases are spelled out.
type detourCurves struct {
	enterNominal TileKind // on the edge column, turning outward
	enterOuter   TileKind // on the outer column, turning along the edge
	exitOuter    TileKind // on the outer column, turning back inward
	exitNominal  TileKind // on the edge column, resuming along the edge
}

var (
	// Right edge, walked top to bottom, bulging east.
	rightEdgeCurves = detourCurves{
		enterNominal: TileBottomLeft,
		enterOuter:   TileTopRight,
		exitOuter:    TileBottomRight,
		exitNominal:  TileTopLeft,
	}
	// Left edge, walked bottom to top, bulging west.
	leftEdgeCurves = detourCurves{
		enterNominal: TileTopRight,
		enterOuter:   TileBottomLeft,
		exitOuter:    TileTopLeft,
		exitNominal:  TileBottomRight,
	}
)

// layout is the output of a single build.
type layout struct {
	tiles       []Tile
	bounds      []r2.Box
	waypoints   []Waypoint // finish first
	finish      r2.Vec
	finishIndex int // build-order index of the finish tile
	detours     int
}

// builder lays tiles in loop order on a grid whose origin is the top-left corner tile.
type builder struct {
	rng   *rand.Rand
	cfg   Config
	size  float64
	scale float64

	tiles       []Tile
	waypoints   []Waypoint
	finishIndex int
	detours     int
}

// build generates a complete layout. cfg must already be validated.
func build(textures Textures, rng *rand.Rand, cfg Config) layout {
	size := float64(cfg.SizePx)
	nativeW, _ := textures.Size(TileTopLeft)

	capacity := cfg.PerimeterTiles()
	b := &builder{
		rng:       rng,
		cfg:       cfg,
		size:      size,
		scale:     size / float64(nativeW),
		tiles:     make([]Tile, 0, capacity),
		waypoints: make([]Waypoint, 0, capacity),
	}

	h, v := cfg.HorizontalCount, cfg.VerticalCount
	finishCol := 1 + (h-2)/2 // right of centre when h is even

	b.place(0, 0, TileTopLeft)
	for col := 1; col <= h-2; col++ {
		kind := TileHorizontal
		if col == finishCol {
			kind = TileHorizontalFinish
			b.finishIndex = len(b.tiles)
		}
		b.place(col, 0, kind)
	}
	b.place(h-1, 0, TileTopRight)
	b.buildEdge(h-1, h, 1, v-2, 1, rightEdgeCurves)
	b.place(h-1, v-1, TileBottomRight)
	for col := h - 2; col >= 1; col-- {
		b.place(col, v-1, TileHorizontal)
	}
	b.place(0, v-1, TileBottomLeft)
	b.buildEdge(0, -1, v-2, 1, -1, leftEdgeCurves)

	bounds := make([]r2.Box, len(b.tiles))
	for i, t := range b.tiles {
		bounds[i] = t.Bounds()
	}

	return layout{
		tiles:       slices.Clip(b.tiles),
		bounds:      bounds,
		waypoints:   rotateLeft(b.waypoints, b.finishIndex),
		finish:      b.tiles[b.finishIndex].Center(),
		finishIndex: b.finishIndex,
		detours:     b.detours,
	}
}

// place appends a tile at grid cell (col, row) and its waypoint.
func (b *builder) place(col, row int, kind TileKind) {
	t := Tile{
		Kind:     kind,
		Position: r2.Vec{X: float64(col) * b.size, Y: float64(row) * b.size},
		Scale:    b.scale,
		Size:     b.size,
	}
	b.tiles = append(b.tiles, t)

	wt := WaypointStraight
	if kind.IsCorner() {
		wt = WaypointCorner
	}
	b.waypoints = append(b.waypoints, Waypoint{Position: t.Center(), Type: wt})
}

// buildEdge lays the vertical edge in column col from row first to row last
// (inclusive), stepping by step (+1 downward, -1 upward). Detour bubbles bulge
// into column outer.
func (b *builder) buildEdge(col, outer, first, last, step int, curves detourCurves) {
	row := first
	for {
		remaining := (last-row)*step + 1
		if remaining <= 0 {
			return
		}

		height, ok := b.rollDetour(remaining)
		if !ok {
			b.place(col, row, TileVertical)
			row += step
			continue
		}

		end := row + (height-1)*step
		b.place(col, row, curves.enterNominal)
		b.place(outer, row, curves.enterOuter)
		for r := row + step; r != end; r += step {
			b.place(outer, r, TileVertical)
		}
		b.place(outer, end, curves.exitOuter)
		b.place(col, end, curves.exitNominal)
		b.detours++

		// Continuity tile so the next bubble never starts directly on an exit curve.
		row = end + step
		b.place(col, row, TileVertical)
		row += step
	}
}

// rollDetour decides whether a bubble starts at the current row. remaining is
// the number of edge rows left including the current one. Rows too close to
// the far corner do not consume a draw.
func (b *builder) rollDetour(remaining int) (int, bool) {
	var feasible [len(detourHeights)]int
	n := 0
	for _, h := range detourHeights {
		if h+1 <= remaining {
			feasible[n] = h
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	if b.rng.Float64() >= b.cfg.DetourProbability {
		return 0, false
	}
	if n == 1 {
		return feasible[0], true
	}
	return feasible[b.rng.Intn(n)], true
}

// rotateLeft returns a copy of s rotated so that s[k] comes first.
func rotateLeft[T any](s []T, k int) []T {
	out := make([]T, 0, len(s))
	out = append(out, s[k:]...)
	return append(out, s[:k]...)
}
