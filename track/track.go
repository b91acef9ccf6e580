package track

import (
	"log/slog"
	"math/rand"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// Track is a generated closed loop of tiles.
//
// A Track is rebuilt in full whenever its configuration changes or Reset is
// called; there is no incremental update. Anything that caches waypoint indices
// (vehicles) must be reset after a rebuild. Generation changes on every build so
// dependents can detect this.
type Track struct {
	textures Textures
	rng      *rand.Rand
	logger   *slog.Logger

	cfg         Config
	tiles       []Tile
	bounds      []r2.Box // parallel to tiles
	waypoints   []Waypoint
	finish      r2.Vec
	finishIndex int
	detours     int
	generation  uint64
}

// Option configures a Track.
type Option func(t *Track)

// WithLogger sets the logger used for clamp warnings and rebuild messages.
func WithLogger(l *slog.Logger) Option {
	return func(t *Track) {
		t.logger = l
	}
}

// New builds a track. rng is borrowed and shared with other consumers; the
// order of draws on it is part of the reproducible sequence.
func New(textures Textures, rng *rand.Rand, cfg Config, opts ...Option) *Track {
	t := &Track{
		textures: textures,
		rng:      rng,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.cfg = t.validate(cfg)
	t.rebuild()
	return t
}

// Config returns the current validated configuration.
func (t *Track) Config() Config {
	return t.cfg
}

// SetConfig validates cfg and rebuilds the track if it differs from the
// current configuration. It reports whether a rebuild happened.
func (t *Track) SetConfig(cfg Config) bool {
	cfg = t.validate(cfg)
	if cfg.Equal(t.cfg) {
		return false
	}
	t.cfg = cfg
	t.rebuild()
	return true
}

// Reset restores the default configuration and always rebuilds, drawing a new layout.
func (t *Track) Reset() {
	t.cfg = t.validate(DefaultConfig())
	t.rebuild()
}

// Regenerate rebuilds with the current configuration, drawing a new layout.
func (t *Track) Regenerate() {
	t.rebuild()
}

func (t *Track) validate(cfg Config) Config {
	v := cfg.Validate()
	if v != cfg {
		t.logger.Warn("track config clamped",
			"horizontal_count", cfg.HorizontalCount,
			"vertical_count", cfg.VerticalCount,
			"size_px", cfg.SizePx,
			"detour_probability", cfg.DetourProbability,
			"clamped", v,
		)
	}
	return v
}

func (t *Track) rebuild() {
	l := build(t.textures, t.rng, t.cfg)
	t.tiles = l.tiles
	t.bounds = l.bounds
	t.waypoints = l.waypoints
	t.finish = l.finish
	t.finishIndex = l.finishIndex
	t.detours = l.detours
	t.generation++

	t.logger.Debug("track built",
		"tiles", len(t.tiles),
		"detours", t.detours,
		"generation", t.generation,
	)
}

// IsOnTrack reports whether p lies inside any tile. This is a linear scan;
// tile counts stay in the low hundreds.
func (t *Track) IsOnTrack(p r2.Vec) bool {
	for _, b := range t.bounds {
		if b.Contains(p) {
			return true
		}
	}
	return false
}

// Waypoints returns a copy of the racing line, starting at the finish tile.
func (t *Track) Waypoints() []Waypoint {
	return slices.Clone(t.waypoints)
}

// Waypoint returns waypoint i. i must be in [0, WaypointCount()).
func (t *Track) Waypoint(i int) Waypoint {
	return t.waypoints[i]
}

// WaypointCount returns the number of waypoints (equal to the tile count).
func (t *Track) WaypointCount() int {
	return len(t.waypoints)
}

// FinishPosition returns the finish-line tile centre, used as the spawn point.
func (t *Track) FinishPosition() r2.Vec {
	return t.finish
}

// Tiles returns a copy of the tile transforms in build order.
func (t *Track) Tiles() []Tile {
	return slices.Clone(t.tiles)
}

// Bounds returns a copy of the collision boxes, parallel to Tiles.
func (t *Track) Bounds() []r2.Box {
	return slices.Clone(t.bounds)
}

// TileSize returns the tile edge length in world pixels.
func (t *Track) TileSize() float64 {
	return float64(t.cfg.SizePx)
}

// Detours returns the number of detour bubbles in the current layout.
func (t *Track) Detours() int {
	return t.detours
}

// FinishTileIndex returns the build-order index of the finish tile.
func (t *Track) FinishTileIndex() int {
	return t.finishIndex
}

// Generation increments on every build.
func (t *Track) Generation() uint64 {
	return t.generation
}

// Extent returns the box enclosing every tile.
func (t *Track) Extent() r2.Box {
	var ext r2.Box
	for _, b := range t.bounds {
		ext = ext.Union(b)
	}
	return ext
}
