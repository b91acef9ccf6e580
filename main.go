package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/driftloop/config"
	"github.com/pthm-cable/driftloop/game"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without a window, player car on autopilot")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	textureDir := flag.String("textures", "", "Directory of tile images named <kind>.png (empty = procedural tiles)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Race steps per update call (higher = faster headless runs)")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	opts := game.Options{
		Seed:           *seed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		TextureDir:     *textureDir,
		Logger:         logger,
	}

	run := runWindowed
	if *headless {
		run = runHeadless
	}
	if err := run(opts, int32(*maxTicks)); err != nil {
		slog.Error("race failed", "seed", *seed, "error", err)
		os.Exit(1)
	}
}

// runHeadless steps the race until maxTicks (forever when 0).
func runHeadless(opts game.Options, maxTicks int32) error {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	slog.Info("starting headless race",
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)
	for maxTicks <= 0 || g.Tick() < maxTicks {
		g.UpdateHeadless()
	}
	logResult(g)
	return nil
}

// runWindowed opens the window and runs until it closes or maxTicks passes.
func runWindowed(opts game.Options, maxTicks int32) error {
	screen := config.Cfg().Screen
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(screen.Width), int32(screen.Height), "driftloop")
	defer rl.CloseWindow()
	rl.SetExitKey(0)
	rl.SetTargetFPS(int32(screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	for !rl.WindowShouldClose() && (maxTicks <= 0 || g.Tick() < maxTicks) {
		g.Update()
		g.Draw()
	}
	logResult(g)
	return nil
}

func logResult(g *game.Game) {
	board := g.Session().Leaderboard()
	if len(board) == 0 {
		return
	}
	leader := board[0]
	slog.Info("race stopped",
		"tick", g.Tick(),
		"leader", leader.Name,
		"laps", leader.Laps,
		"best_lap", leader.BestLap,
	)
}
