package race

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// gridSlot returns the start position of the i-th car. Cars line up two
// abreast behind the finish, against the direction of travel (east along
// the top edge). A slot that would fall off the track collapses onto the
// finish line.
func (s *Session) gridSlot(i int) r2.Vec {
	tile := s.track.TileSize()
	row := i / 2
	side := 1.0
	if i%2 == 0 {
		side = -1
	}
	p := r2.Add(s.track.FinishPosition(), r2.Vec{
		X: -float64(row+1) * s.cfg.Race.GridSpacing * tile,
		Y: side * s.cfg.Race.GridOffset * tile,
	})
	if !s.track.IsOnTrack(p) {
		s.logger.Warn("grid slot off track, starting on the line", "slot", i)
		return s.track.FinishPosition()
	}
	return p
}
