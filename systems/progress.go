package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/driftloop/components"
)

// LapEvent is emitted when a racer completes a lap.
type LapEvent struct {
	Entity  ecs.Entity
	Lap     int     // Lap number just completed, 1-based
	LapTime float64 // Seconds
	Best    bool    // New personal best
}

// ProgressSystem counts waypoint advances and laps.
type ProgressSystem struct {
	filter ecs.Filter2[components.Vehicle, components.Progress]
	events []LapEvent
}

// NewProgressSystem creates a new progress system.
func NewProgressSystem(w *ecs.World) *ProgressSystem {
	return &ProgressSystem{
		filter: *ecs.NewFilter2[components.Vehicle, components.Progress](w),
	}
}

// Update records what every car did during the last dt seconds. waypoints is
// the live track's waypoint count. The returned slice is reused by the next call.
func (s *ProgressSystem) Update(w *ecs.World, waypoints int, dt float64) []LapEvent {
	s.events = s.events[:0]
	if waypoints <= 0 {
		return s.events
	}

	query := s.filter.Query()
	for query.Next() {
		veh, prog := query.Get()
		if veh.Car == nil {
			continue
		}
		prog.LapTime += dt
		if veh.Car.Collided() {
			prog.Collisions++
		}

		idx := veh.Car.WaypointIndex()
		if idx == prog.LastIndex {
			continue
		}
		prog.WaypointsPassed += (idx - prog.LastIndex + waypoints) % waypoints
		crossedFinish := prog.LastIndex == 0
		prog.LastIndex = idx

		if !crossedFinish {
			continue
		}
		if !prog.Started {
			prog.Started = true
			prog.LapTime = 0
			continue
		}

		prog.Laps++
		prog.LastLap = prog.LapTime
		best := prog.BestLap == 0 || prog.LapTime < prog.BestLap
		if best {
			prog.BestLap = prog.LapTime
		}
		s.events = append(s.events, LapEvent{
			Entity:  query.Entity(),
			Lap:     prog.Laps,
			LapTime: prog.LapTime,
			Best:    best,
		})
		prog.LapTime = 0
	}
	return s.events
}

// ResetProgress clears every racer's progress, for a new race or a rebuilt track.
func (s *ProgressSystem) ResetProgress(w *ecs.World) {
	query := s.filter.Query()
	for query.Next() {
		_, prog := query.Get()
		*prog = components.Progress{}
	}
}
