// Package components defines ECS components for the race session.
package components

import (
	"image/color"

	"github.com/pthm-cable/driftloop/vehicle"
)

// Racer identifies a car on the grid.
type Racer struct {
	Name   string     `inspect:"label"`
	Number int        `inspect:"label"`
	Color  color.RGBA `inspect:"skip"`
	Player bool       `inspect:"bool"`
}

// Vehicle wraps the simulated car. The car itself is owned by the session;
// the component only points at it.
type Vehicle struct {
	Car *vehicle.Car `inspect:"skip"`
}

// Progress tracks a racer's laps. The car crosses the finish line when its
// target waypoint moves from the finish (index 0) to the one after it. Cars
// start on the grid behind the line, so the first crossing starts lap one
// and every later crossing completes a lap.
type Progress struct {
	Started         bool    `inspect:"bool"`
	Laps            int     `inspect:"label"`
	WaypointsPassed int     `inspect:"label"` // Total advances since the start
	LastIndex       int     `inspect:"skip"`  // Waypoint index seen on the previous tick
	LapTime         float64 `inspect:"label,fmt:%.2fs"`
	BestLap         float64 `inspect:"label,fmt:%.2fs"` // Zero until a lap is completed
	LastLap         float64 `inspect:"label,fmt:%.2fs"`
	Collisions      int     `inspect:"label"`
}

// Standing is the racer's current race position, 1-based.
type Standing struct {
	Position int `inspect:"label"`
}
