package race

import (
	"github.com/samber/lo"

	"github.com/pthm-cable/driftloop/systems"
	"github.com/pthm-cable/driftloop/telemetry"
)

// recordTelemetry feeds this step's events to the window collector.
func (s *Session) recordTelemetry() {
	for _, car := range s.cars {
		st := car.State()
		s.collector.SampleSpeed(st.Speed)
		if st.Collided {
			s.collector.RecordCollision(st.ImpactSpeed)
		}
	}

	for _, ev := range s.laps {
		s.collector.RecordLap(ev.LapTime)
		if racer, _, ok := s.Racer(ev.Entity); ok {
			s.logger.Debug("lap",
				"name", racer.Name,
				"lap", ev.Lap,
				"time", ev.LapTime,
				"best", ev.Best,
			)
		}
	}

	passed := lo.SumBy(s.leaderboard, func(e systems.Entry) int { return e.WaypointsPassed })
	s.collector.RecordWaypoints(passed - s.passedTotal)
	s.passedTotal = passed
}

// flushTelemetry closes the stats window when it has elapsed.
func (s *Session) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	state := telemetry.RaceState{
		Cars:       len(s.cars),
		DriftTotal: lo.SumBy(s.leaderboard, func(e systems.Entry) float64 { return e.DriftScore }),
	}
	if len(s.leaderboard) > 0 {
		state.Leader = s.leaderboard[0].Name
		state.LeaderLaps = s.leaderboard[0].Laps
	}

	stats := s.collector.Flush(s.tick, state)
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.output == nil {
		return
	}
	if err := s.output.WriteTelemetry(stats); err != nil {
		s.logger.Error("failed to write telemetry", "error", err)
	}
	if err := s.output.WriteStandings(standingRecords(stats.WindowEndTick, s.leaderboard)); err != nil {
		s.logger.Error("failed to write standings", "error", err)
	}
	if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		s.logger.Error("failed to write perf", "error", err)
	}
}

func standingRecords(windowEnd int32, entries []systems.Entry) []telemetry.StandingRecord {
	return lo.Map(entries, func(e systems.Entry, _ int) telemetry.StandingRecord {
		return telemetry.StandingRecord{
			WindowEnd:       windowEnd,
			Position:        e.Position,
			Number:          e.Number,
			Name:            e.Name,
			Player:          e.Player,
			Laps:            e.Laps,
			WaypointsPassed: e.WaypointsPassed,
			BestLap:         e.BestLap,
			LastLap:         e.LastLap,
			DriftScore:      e.DriftScore,
		}
	})
}
