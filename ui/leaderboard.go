package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Leaderboard lists the race order in the top-right corner.
type Leaderboard struct {
	toggle
	renderer *Renderer
	width    int32
	maxRows  int
}

// NewLeaderboard creates an enabled leaderboard.
func NewLeaderboard(width int32, maxRows int) *Leaderboard {
	return &Leaderboard{toggle: toggle{enabled: true}, renderer: NewRenderer(), width: width, maxRows: maxRows}
}

// Draw implements Widget.
func (l *Leaderboard) Draw(data HUDData) {
	if !l.enabled || len(data.Leaderboard) == 0 {
		return
	}
	r := l.renderer
	pad, lh := r.Theme.Padding, r.Theme.LineHeight

	rows := min(len(data.Leaderboard), l.maxRows)
	h := pad*2 + lh + 4 + int32(rows)*lh
	x, y := anchorOrigin(AnchorTopRight, data.ScreenWidth, data.ScreenHeight, l.width, h, 10)
	y += 24 // below the FPS counter
	r.DrawPanel(x, y, l.width, h)

	y += pad
	rl.DrawText("Pos  Driver          Lap   Best", x+pad, y, r.Theme.FontSize, r.Theme.SectionHeader)
	y += lh + 4

	for _, e := range data.Leaderboard[:rows] {
		color := r.Theme.LabelColor
		if e.Player {
			color = r.Theme.PlayerColor
		}
		rl.DrawRectangle(x+pad, y+2, 4, 10, rl.Color{R: e.Color.R, G: e.Color.G, B: e.Color.B, A: 255})
		rl.DrawText(leaderboardRow(e.Position, e.Name, e.Laps, e.BestLap), x+pad+8, y, r.Theme.FontSize, color)
		y += lh
	}
}

// leaderboardRow formats one leaderboard line.
func leaderboardRow(pos int, name string, laps int, best float64) string {
	if len(name) > 14 {
		name = name[:14]
	}
	return fmt.Sprintf("%2d  %-14s %3d %8s", pos, name, laps, formatRaceTime(best))
}
