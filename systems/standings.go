package systems

import (
	"cmp"
	"image/color"
	"slices"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/driftloop/components"
)

// Entry is one row of the leaderboard.
type Entry struct {
	Entity          ecs.Entity
	Position        int
	Name            string
	Number          int
	Color           color.RGBA
	Player          bool
	Laps            int
	WaypointsPassed int
	ToNext          float64 // Distance to the car's target waypoint
	BestLap         float64
	LastLap         float64
	DriftScore      float64
	Speed           float64
}

// StandingsSystem orders racers by laps, then waypoints passed, then
// distance to their next waypoint, and writes each racer's position.
type StandingsSystem struct {
	filter      ecs.Filter4[components.Racer, components.Vehicle, components.Progress, components.Standing]
	standingMap *ecs.Map1[components.Standing]
	entries     []Entry
}

// NewStandingsSystem creates a new standings system.
func NewStandingsSystem(w *ecs.World) *StandingsSystem {
	return &StandingsSystem{
		filter:      *ecs.NewFilter4[components.Racer, components.Vehicle, components.Progress, components.Standing](w),
		standingMap: ecs.NewMap1[components.Standing](w),
	}
}

// Update recomputes the leaderboard. The returned slice is ordered leader
// first and is reused by the next call.
func (s *StandingsSystem) Update(w *ecs.World) []Entry {
	s.entries = s.entries[:0]

	query := s.filter.Query()
	for query.Next() {
		racer, veh, prog, _ := query.Get()
		if veh.Car == nil {
			continue
		}
		st := veh.Car.State()
		s.entries = append(s.entries, Entry{
			Entity:          query.Entity(),
			Name:            racer.Name,
			Number:          racer.Number,
			Color:           racer.Color,
			Player:          racer.Player,
			Laps:            prog.Laps,
			WaypointsPassed: prog.WaypointsPassed,
			ToNext:          r2.Norm(r2.Sub(veh.Car.TargetWaypoint().Position, st.Position)),
			BestLap:         prog.BestLap,
			LastLap:         prog.LastLap,
			DriftScore:      st.DriftScore,
			Speed:           st.Speed,
		})
	}

	slices.SortStableFunc(s.entries, compareEntries)

	for i := range s.entries {
		s.entries[i].Position = i + 1
		s.standingMap.Get(s.entries[i].Entity).Position = i + 1
	}
	return s.entries
}

// compareEntries orders the leader first.
func compareEntries(a, b Entry) int {
	if c := cmp.Compare(b.Laps, a.Laps); c != 0 {
		return c
	}
	if c := cmp.Compare(b.WaypointsPassed, a.WaypointsPassed); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ToNext, b.ToNext); c != 0 {
		return c
	}
	return cmp.Compare(a.Number, b.Number)
}
