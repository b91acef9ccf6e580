package telemetry

// Collector accumulates race events within fixed time windows and produces
// WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	collisions      int
	impactSum       float64
	laps            int
	lapTimeSum      float64
	bestLap         float64
	waypointsPassed int
	speeds          []float64
}

// NewCollector creates a collector with windows of windowDurationSec
// simulated seconds at dt seconds per tick.
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticks := int32(windowDurationSec / float64(dt))
	if ticks < 1 {
		ticks = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticks,
		dt:                  dt,
	}
}

// RecordCollision records a wall hit at impactSpeed.
func (c *Collector) RecordCollision(impactSpeed float64) {
	c.collisions++
	c.impactSum += impactSpeed
}

// RecordLap records a completed lap.
func (c *Collector) RecordLap(lapTime float64) {
	c.laps++
	c.lapTimeSum += lapTime
	if c.bestLap == 0 || lapTime < c.bestLap {
		c.bestLap = lapTime
	}
}

// RecordWaypoints adds n waypoint advances.
func (c *Collector) RecordWaypoints(n int) {
	c.waypointsPassed += n
}

// SampleSpeed adds one speed sample to the window's distribution.
func (c *Collector) SampleSpeed(speed float64) {
	c.speeds = append(c.speeds, speed)
}

// ShouldFlush reports whether the window that started at the last flush has elapsed.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// RaceState is the end-of-window snapshot the caller supplies to Flush.
type RaceState struct {
	Cars       int
	DriftTotal float64
	Leader     string
	LeaderLaps int
}

// Flush produces the stats for the current window and starts a new one.
func (c *Collector) Flush(currentTick int32, state RaceState) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Cars:            state.Cars,
		Collisions:      c.collisions,
		Laps:            c.laps,
		BestLap:         c.bestLap,
		WaypointsPassed: c.waypointsPassed,

		DriftTotal: state.DriftTotal,
		Leader:     state.Leader,
		LeaderLaps: state.LeaderLaps,
	}
	if c.collisions > 0 {
		stats.ImpactSpeedMean = c.impactSum / float64(c.collisions)
	}
	if c.laps > 0 {
		stats.LapTimeMean = c.lapTimeSum / float64(c.laps)
	}
	stats.SpeedMean, stats.SpeedStd, stats.SpeedP10, stats.SpeedP50, stats.SpeedP90 = ComputeSpeedStats(c.speeds)

	c.windowStartTick = currentTick
	c.collisions = 0
	c.impactSum = 0
	c.laps = 0
	c.lapTimeSum = 0
	c.bestLap = 0
	c.waypointsPassed = 0
	c.speeds = c.speeds[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
