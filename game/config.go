package game

import "log/slog"

// Options holds configuration for game initialization.
type Options struct {
	Seed           int64
	LogStats       bool    // Log window and perf stats via slog
	StatsWindowSec float64 // 0 uses the config value
	OutputDir      string  // Empty disables CSV output
	Headless       bool    // No window, no raylib calls
	StepsPerUpdate int     // Fixed steps per UpdateHeadless call; speed multiplier when rendering
	TextureDir     string  // Tile images; empty draws procedural tiles
	Logger         *slog.Logger
}

// Steps-per-update bounds for the interactive speed control.
const (
	minStepsPerUpdate = 1
	maxStepsPerUpdate = 10
)
