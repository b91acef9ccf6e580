// Package systems contains ECS systems for the race session.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/driftloop/components"
	"github.com/pthm-cable/driftloop/vehicle"
)

// DrivingSystem hands the player's input to the player car and steps every car.
type DrivingSystem struct {
	filter ecs.Filter2[components.Racer, components.Vehicle]
}

// NewDrivingSystem creates a new driving system.
func NewDrivingSystem(w *ecs.World) *DrivingSystem {
	return &DrivingSystem{
		filter: *ecs.NewFilter2[components.Racer, components.Vehicle](w),
	}
}

// Update applies input and advances every car by dt. Input is ignored by
// cars in AI mode, including a player car the user handed over to the AI.
func (s *DrivingSystem) Update(w *ecs.World, input vehicle.Input, dt float64) {
	query := s.filter.Query()
	for query.Next() {
		racer, veh := query.Get()
		if veh.Car == nil {
			continue
		}
		if racer.Player {
			veh.Car.SetInput(input)
		}
		veh.Car.Update(dt)
	}
}
