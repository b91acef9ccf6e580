// Command tune searches the AI driver constants with CMA-ES for cars that
// cover the most track without crashing.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/driftloop/config"
	"github.com/pthm-cable/driftloop/telemetry"
)

type options struct {
	configPath string
	maxTicks   int
	seeds      int
	maxEvals   int
	population int
	outputDir  string
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&o.maxTicks, "max-ticks", 7200, "Race length in ticks")
	flag.IntVar(&o.seeds, "seeds", 3, "Tracks raced per evaluation")
	flag.IntVar(&o.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&o.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&o.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err := run(o); err != nil {
		slog.Error("tuning failed", "error", err)
		os.Exit(1)
	}
}

func run(o options) error {
	if o.outputDir == "" {
		return errors.New("-output is required")
	}
	if err := os.MkdirAll(o.outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := config.Init(o.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, int32(o.maxTicks), seedList(o.seeds), baseCfg)

	tlog, err := newTuneLog(filepath.Join(o.outputDir, "tune_log.csv"), params)
	if err != nil {
		return err
	}
	defer tlog.Close()

	var (
		evals      int
		best       = 1e9
		bestParams []float64
		start      = time.Now()
	)
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			// The races clamp, so log and keep the clamped values.
			values := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(values)
			clean := evaluator.LastClean()
			evals++
			if fitness < best {
				best = fitness
				bestParams = values
			}
			tlog.Record(evals, fitness, clean, values)
			fmt.Println(progressLine(evals, o.maxEvals, fitness, clean, best, time.Since(start)))
			return fitness
		},
	}

	pop := lo.Ternary(o.population > 0, o.population, 4+3*params.Dim()/2)
	slog.Info("starting CMA-ES",
		"params", params.Dim(),
		"population", pop,
		"max_evals", o.maxEvals,
		"seeds", o.seeds,
		"max_ticks", o.maxTicks,
	)

	// Seeds already race in parallel, so evaluations run one at a time.
	settings := &optimize.Settings{FuncEvaluations: o.maxEvals, Concurrent: 0}
	result, err := optimize.Minimize(problem, params.Normalize(params.ExtractFromConfig(baseCfg)), settings,
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: pop})
	if err != nil {
		slog.Warn("optimizer stopped", "error", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		return errors.New("no evaluations completed")
	}

	slog.Info("tuning complete", "evals", evals, "best", best, "took", formatDuration(time.Since(start)))
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, bestParams[i])
	}
	return writeResults(o.outputDir, baseCfg, params, bestParams, evaluator.BestStats())
}

// seedList returns n fixed, well-spread track seeds.
func seedList(n int) []int64 {
	return lo.Times(n, func(i int) int64 { return int64(i*1000 + 42) })
}

// progressLine reports one evaluation, recovering waypoints from the fitness.
func progressLine(eval, maxEvals int, fitness, clean, best float64, elapsed time.Duration) string {
	waypoints := -fitness / (1 + cleanBonus*clean)
	remaining := elapsed / time.Duration(eval) * time.Duration(max(maxEvals-eval, 0))
	return fmt.Sprintf("eval %d/%d: waypoints=%.0f clean=%.2f best=%.1f | elapsed %s, eta %s",
		eval, maxEvals, waypoints, clean, best, formatDuration(elapsed), formatDuration(remaining))
}

// formatDuration formats d as 1h02m03s, or 2m03s under an hour.
func formatDuration(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	h, m, s := secs/3600, secs/60%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// tuneLog is the per-evaluation CSV. Its columns depend on the parameter set,
// so it is written row by row rather than from a struct.
type tuneLog struct {
	f *os.File
	w *csv.Writer
}

func newTuneLog(path string, params *ParamVector) (*tuneLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating tune log: %w", err)
	}
	l := &tuneLog{f: f, w: csv.NewWriter(f)}
	header := append([]string{"eval", "fitness", "clean"},
		lo.Map(params.Specs, func(s ParamSpec, _ int) string { return s.Name })...)
	if err := l.w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing tune log header: %w", err)
	}
	return l, nil
}

// Record appends and flushes one evaluation.
func (l *tuneLog) Record(eval int, fitness, clean float64, values []float64) {
	row := append([]string{
		strconv.Itoa(eval),
		strconv.FormatFloat(fitness, 'f', 6, 64),
		strconv.FormatFloat(clean, 'f', 4, 64),
	}, lo.Map(values, func(v float64, _ int) string { return strconv.FormatFloat(v, 'f', 6, 64) })...)
	if err := l.w.Write(row); err != nil {
		slog.Warn("tune log write failed", "eval", eval, "error", err)
	}
	l.w.Flush()
}

func (l *tuneLog) Close() error {
	l.w.Flush()
	return errors.Join(l.w.Error(), l.f.Close())
}

// writeResults saves the best config and the window stats of its best race.
func writeResults(dir string, base *config.Config, params *ParamVector, best []float64, stats []telemetry.WindowStats) error {
	cfg := base.Clone()
	params.ApplyToConfig(cfg, best)
	cfgPath := filepath.Join(dir, "best_config.yaml")
	if err := cfg.WriteYAML(cfgPath); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	slog.Info("best config saved", "path", cfgPath)

	if len(stats) == 0 {
		return nil
	}
	statsPath := filepath.Join(dir, "best_stats.csv")
	f, err := os.Create(statsPath)
	if err != nil {
		return fmt.Errorf("creating best stats: %w", err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&stats, f); err != nil {
		return fmt.Errorf("writing best stats: %w", err)
	}
	slog.Info("best race stats saved", "path", statsPath)
	return nil
}
