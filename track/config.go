// Package track generates closed-loop tile tracks and answers geometric queries
// against them (on-track tests, waypoints, finish line).
package track

import "math"

// Limits applied by Validate.
const (
	MinTileCount = 3
	MinSizePx    = 256

	probabilityEpsilon = 1e-6
)

// Config describes the shape of a generated track.
type Config struct {
	HorizontalCount   int     `yaml:"horizontal_count"`   // Tiles along the top and bottom edges (incl. corners)
	VerticalCount     int     `yaml:"vertical_count"`     // Tiles along the left and right edges (incl. corners)
	SizePx            int     `yaml:"size_px"`            // Tile edge length in world pixels
	DetourProbability float64 `yaml:"detour_probability"` // Chance of a detour bubble per eligible edge row
}

// DefaultConfig returns the compiled-in track configuration used by Reset.
func DefaultConfig() Config {
	return Config{
		HorizontalCount:   8,
		VerticalCount:     6,
		SizePx:            512,
		DetourProbability: 0.3,
	}
}

// Validate returns a copy of c with every field clamped into its legal range.
// Invalid values are corrected, never rejected, and Validate is idempotent.
func (c Config) Validate() Config {
	if c.HorizontalCount < MinTileCount {
		c.HorizontalCount = MinTileCount
	}
	if c.VerticalCount < MinTileCount {
		c.VerticalCount = MinTileCount
	}
	if c.SizePx < MinSizePx {
		c.SizePx = MinSizePx
	}
	// NaN compares false against everything, treat it as "never".
	if math.IsNaN(c.DetourProbability) || c.DetourProbability < 0 {
		c.DetourProbability = 0
	}
	if c.DetourProbability > 1 {
		c.DetourProbability = 1
	}
	return c
}

// Equal reports whether two configs describe the same track.
// The probability is compared with a small epsilon.
func (c Config) Equal(other Config) bool {
	return c.HorizontalCount == other.HorizontalCount &&
		c.VerticalCount == other.VerticalCount &&
		c.SizePx == other.SizePx &&
		math.Abs(c.DetourProbability-other.DetourProbability) <= probabilityEpsilon
}

// PerimeterTiles returns the tile count of a track built from c without detours.
func (c Config) PerimeterTiles() int {
	v := c.Validate()
	return 4 + 2*(v.HorizontalCount-2) + 2*(v.VerticalCount-2)
}
