package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated race statistics for one time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	Cars int `csv:"cars"`

	// Events during the window
	Collisions      int     `csv:"collisions"`
	ImpactSpeedMean float64 `csv:"impact_speed_mean"`
	Laps            int     `csv:"laps"`
	LapTimeMean     float64 `csv:"lap_time_mean"`
	BestLap         float64 `csv:"best_lap"` // Fastest lap in the window, 0 if none
	WaypointsPassed int     `csv:"waypoints_passed"`

	// Speed distribution, sampled every tick across all cars
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// State at window end
	DriftTotal float64 `csv:"drift_total"`
	Leader     string  `csv:"leader"`
	LeaderLaps int     `csv:"leader_laps"`
}

// Percentile returns the p-th empirical quantile of a sorted slice.
// p is clamped to [0, 1]. Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	switch {
	case p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[len(sorted)-1]
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeSpeedStats returns the mean, population standard deviation and
// deciles of values. All zero for an empty slice.
func ComputeSpeedStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("cars", s.Cars),
		slog.Int("collisions", s.Collisions),
		slog.Float64("impact_speed_mean", s.ImpactSpeedMean),
		slog.Int("laps", s.Laps),
		slog.Float64("lap_time_mean", s.LapTimeMean),
		slog.Float64("best_lap", s.BestLap),
		slog.Int("waypoints_passed", s.WaypointsPassed),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("drift_total", s.DriftTotal),
		slog.String("leader", s.Leader),
		slog.Int("leader_laps", s.LeaderLaps),
	)
}

// LogStats logs the window at info level.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"cars", s.Cars,
		"collisions", s.Collisions,
		"laps", s.Laps,
		"best_lap", s.BestLap,
		"waypoints_passed", s.WaypointsPassed,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
		"drift_total", s.DriftTotal,
		"leader", s.Leader,
		"leader_laps", s.LeaderLaps,
	)
}
