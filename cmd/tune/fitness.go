package main

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/samber/lo"

	"github.com/pthm-cable/driftloop/config"
	"github.com/pthm-cable/driftloop/race"
	"github.com/pthm-cable/driftloop/systems"
	"github.com/pthm-cable/driftloop/telemetry"
	"github.com/pthm-cable/driftloop/vehicle"
)

// FitnessEvaluator runs headless races and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	bestFitness float64
	bestStats   []telemetry.WindowStats
	lastClean   float64 // clean score from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
		bestFitness: math.Inf(1),
	}
}

// BestStats returns the window stats of the best seed of the best evaluation.
func (fe *FitnessEvaluator) BestStats() []telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestStats
}

// LastClean returns the clean score from the most recent evaluation.
func (fe *FitnessEvaluator) LastClean() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastClean
}

// cleanWarmupWindows skips the grid start, where cars bump into each other.
const cleanWarmupWindows = 1

// runResult holds the results from a single race.
type runResult struct {
	progress    float64 // mean waypoints passed per car
	windowStats []telemetry.WindowStats
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	clean   float64
	stats   []telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r, err := fe.runRace(x, s)
			if err != nil {
				slog.Error("race failed", "seed", s, "error", err)
				results[idx] = seedResult{}
				return
			}
			results[idx] = seedResult{
				fitness: computeFitness(r),
				clean:   cleanScore(r.windowStats),
				stats:   r.windowStats,
			}
		}(i, seed)
	}
	wg.Wait()

	n := float64(len(fe.seeds))
	avgFitness := lo.SumBy(results, func(r seedResult) float64 { return r.fitness }) / n
	best := lo.MinBy(results, func(a, b seedResult) bool { return a.fitness < b.fitness })

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestStats = best.stats
	}
	fe.lastClean = lo.SumBy(results, func(r seedResult) float64 { return r.clean }) / n
	fe.mu.Unlock()

	return avgFitness
}

// runRace executes a single headless all-AI race for maxTicks.
func (fe *FitnessEvaluator) runRace(x []float64, seed int64) (*runResult, error) {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Race.Player = false
	cfg = cfg.Clone() // recompute derived values for the edited copy

	result := &runResult{}
	s, err := race.NewSession(race.Options{
		Seed:           seed,
		Config:         cfg,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		StatsWindowSec: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer s.Close()

	for s.Tick() < fe.maxTicks {
		s.StepFixed(vehicle.Input{})
	}

	board := s.Leaderboard()
	if len(board) > 0 {
		result.progress = float64(lo.SumBy(board, func(e systems.Entry) int { return e.WaypointsPassed })) / float64(len(board))
	}
	return result, nil
}

// cleanBonus is the share of progress added for a fully clean race.
const cleanBonus = 0.2

// computeFitness returns -(progress × (1 + cleanBonus × clean)); lower is better.
func computeFitness(r *runResult) float64 {
	return -(r.progress * (1 + cleanBonus*cleanScore(r.windowStats)))
}

// cleanScore is the fraction of windows, past warmup, without a collision.
func cleanScore(windows []telemetry.WindowStats) float64 {
	if len(windows) <= cleanWarmupWindows {
		return 0
	}
	valid := windows[cleanWarmupWindows:]
	clean := lo.CountBy(valid, func(w telemetry.WindowStats) bool { return w.Collisions == 0 })
	return float64(clean) / float64(len(valid))
}
