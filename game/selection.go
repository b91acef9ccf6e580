package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/driftloop/vehicle"
)

// focusCar picks the car the camera and HUD follow: the inspector's
// selection, then the player, then the race leader.
func (g *Game) focusCar() (ecs.Entity, *vehicle.Car, bool) {
	if g.inspector != nil {
		if e, ok := g.inspector.Selected(); ok {
			if car, ok := g.carOf(e); ok {
				return e, car, true
			}
		}
	}
	if p := g.session.Player(); p != nil {
		for i, car := range g.session.Cars() {
			if car == p {
				return g.session.Entities()[i], car, true
			}
		}
	}
	if board := g.session.Leaderboard(); len(board) > 0 {
		if car, ok := g.carOf(board[0].Entity); ok {
			return board[0].Entity, car, true
		}
	}
	return ecs.Entity{}, nil, false
}

func (g *Game) carOf(e ecs.Entity) (*vehicle.Car, bool) {
	if !g.session.World().Alive(e) || !g.vehMap.HasAll(e) {
		return nil, false
	}
	veh := g.vehMap.Get(e)
	return veh.Car, veh.Car != nil
}

// focusPosition is where the camera should look.
func (g *Game) focusPosition() r2.Vec {
	if _, car, ok := g.focusCar(); ok {
		return car.Position()
	}
	return g.session.Track().FinishPosition()
}

// mouseWorld returns the mouse position in world coordinates.
func (g *Game) mouseWorld() r2.Vec {
	m := rl.GetMousePosition()
	wx, wy := g.camera.ScreenToWorld(m.X, m.Y)
	return r2.Vec{X: float64(wx), Y: float64(wy)}
}
