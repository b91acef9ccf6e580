package systems

import (
	"github.com/samber/lo"

	"github.com/pthm-cable/driftloop/telemetry"
)

// SystemInfo names one timed step phase.
type SystemInfo struct {
	ID          string // telemetry phase name
	Name        string
	Description string
	Category    string // "sim", "race" or "internal"
}

// stepSystems is the phase table in step order.
var stepSystems = []SystemInfo{
	{ID: telemetry.PhaseDriving, Name: "Driving", Description: "AI decisions and car physics", Category: "sim"},
	{ID: telemetry.PhaseProgress, Name: "Progress", Description: "Waypoint and lap counting", Category: "race"},
	{ID: telemetry.PhaseStandings, Name: "Standings", Description: "Race order", Category: "race"},
	{ID: telemetry.PhaseTelemetry, Name: "Telemetry", Description: "Window stats collection", Category: "internal"},
}

// SystemRegistry maps perf phase IDs to display metadata.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry returns the registry for the race step phases.
func NewSystemRegistry() *SystemRegistry {
	r := &SystemRegistry{}
	for _, info := range stepSystems {
		r.Register(info)
	}
	return r
}

// Register adds info, replacing any entry with the same ID.
func (r *SystemRegistry) Register(info SystemInfo) {
	if _, ok := r.byID[info.ID]; ok {
		r.systems = lo.Reject(r.systems, func(s SystemInfo, _ int) bool { return s.ID == info.ID })
	}
	r.systems = append(r.systems, info)
	r.byID = lo.KeyBy(r.systems, func(s SystemInfo) string { return s.ID })
}

// GetName returns the display name for id, or id itself when unknown.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	return lo.Filter(r.systems, func(s SystemInfo, _ int) bool { return s.Category == category })
}

// Categories lists categories in first-seen order.
func (r *SystemRegistry) Categories() []string {
	return lo.Uniq(lo.Map(r.systems, func(s SystemInfo, _ int) string { return s.Category }))
}

func (r *SystemRegistry) IDs() []string {
	return lo.Map(r.systems, func(s SystemInfo, _ int) string { return s.ID })
}
