package track

import "gonum.org/v1/gonum/spatial/r2"

// TileKind selects one of the seven tile images.
// Corner kinds are named after the loop corner they form: a top-left tile
// connects its east and south sides, a bottom-right tile its west and north sides.
type TileKind uint8

const (
	TileTopLeft TileKind = iota
	TileTopRight
	TileBottomLeft
	TileBottomRight
	TileVertical
	TileHorizontal
	TileHorizontalFinish
	NumTileKinds
)

var tileKindNames = [NumTileKinds]string{
	"top_left", "top_right", "bottom_left", "bottom_right",
	"vertical", "horizontal", "horizontal_finish",
}

func (k TileKind) String() string {
	if k >= NumTileKinds {
		return "unknown"
	}
	return tileKindNames[k]
}

// IsCorner reports whether the tile is a curve piece.
func (k TileKind) IsCorner() bool {
	return k <= TileBottomRight
}

// Textures reports the native pixel size of each tile image.
// All images are assumed square and equal-sized; only one is ever queried.
// A zero size is a precondition violation.
type Textures interface {
	Size(kind TileKind) (width, height int)
}

// UniformTextures is a Textures where every tile image has the same edge length.
type UniformTextures int

// Size implements Textures.
func (u UniformTextures) Size(TileKind) (int, int) {
	return int(u), int(u)
}

// WaypointType classifies a waypoint for the driver.
type WaypointType uint8

const (
	WaypointStraight WaypointType = iota
	WaypointCorner
)

func (t WaypointType) String() string {
	if t == WaypointCorner {
		return "corner"
	}
	return "straight"
}

// Waypoint is a tile centre on the racing line.
type Waypoint struct {
	Position r2.Vec
	Type     WaypointType
}

// Tile is the transform of one placed tile. Rotation is always zero in this
// scheme: orientation is carried by Kind.
type Tile struct {
	Kind     TileKind
	Position r2.Vec // top-left corner in world pixels
	Rotation float64
	Scale    float64 // world size / native texture size
	Size     float64 // edge length in world pixels
}

// Center returns the tile centre in world pixels.
func (t Tile) Center() r2.Vec {
	return r2.Add(t.Position, r2.Vec{X: t.Size / 2, Y: t.Size / 2})
}

// Bounds returns the axis-aligned box covered by the tile.
func (t Tile) Bounds() r2.Box {
	return r2.Box{
		Min: t.Position,
		Max: r2.Add(t.Position, r2.Vec{X: t.Size, Y: t.Size}),
	}
}
