package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/samber/lo"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayWaypoints   OverlayID = "waypoints"
	OverlayTargets     OverlayID = "targets"
	OverlayBounds      OverlayID = "bounds"
	OverlayLeaderboard OverlayID = "leaderboard"
	OverlayMinimap     OverlayID = "minimap"
	OverlayCarPanel    OverlayID = "car_panel"
	OverlayTrackPanel  OverlayID = "track_panel"
	OverlayPerf        OverlayID = "perf"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID
	Name        string
	Description string
	Key         int32  // Keyboard key to toggle (0 = no key)
	KeyLabel    string // Key label for display (e.g., "F2")
	Category    string // Grouping (e.g., "hud", "debug")
	Default     bool   // Enabled at startup
	Exclusive   []OverlayID
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// defaultOverlays are registered by NewOverlayRegistry, HUD first.
var defaultOverlays = []OverlayDescriptor{
	{ID: OverlayLeaderboard, Name: "Leaderboard", Description: "Race order with lap times", Key: rl.KeyL, KeyLabel: "L", Category: "hud", Default: true},
	{ID: OverlayMinimap, Name: "Minimap", Description: "Racing line and car positions", Key: rl.KeyM, KeyLabel: "M", Category: "hud", Default: true},
	{ID: OverlayCarPanel, Name: "Car Telemetry", Description: "Speed, inputs and drift of the focused car", Key: rl.KeyI, KeyLabel: "I", Category: "hud"},
	{ID: OverlayTrackPanel, Name: "Track Builder", Description: "Edit the track grid and regenerate", Key: rl.KeyG, KeyLabel: "G", Category: "hud"},
	{ID: OverlayWaypoints, Name: "Racing Line", Description: "Waypoints and the focused car's target", Key: rl.KeyF2, KeyLabel: "F2", Category: "debug"},
	{ID: OverlayTargets, Name: "AI Targets", Description: "Line from every car to its target waypoint", Key: rl.KeyF3, KeyLabel: "F3", Category: "debug"},
	{ID: OverlayBounds, Name: "Collision Boxes", Description: "Drivable boxes of every tile", Key: rl.KeyF4, KeyLabel: "F4", Category: "debug"},
	{ID: OverlayPerf, Name: "Performance", Description: "Per-phase tick timing", Key: rl.KeyF5, KeyLabel: "F5", Category: "debug"},
}

// NewOverlayRegistry returns a registry holding defaultOverlays.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor, len(defaultOverlays)),
		enabled: make(map[OverlayID]bool, len(defaultOverlays)),
	}
	for _, d := range defaultOverlays {
		r.Register(d)
	}
	return r
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle flips id and returns its new state. Unknown IDs stay off.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	on := !r.enabled[id]
	r.SetEnabled(id, on)
	return on
}

// SetEnabled sets id's state. Enabling it turns off its Exclusive overlays.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

func (r *OverlayRegistry) Get(id OverlayID) (OverlayDescriptor, bool) {
	desc, ok := r.byID[id]
	return desc, ok
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	return lo.Filter(r.descriptors, func(d OverlayDescriptor, _ int) bool {
		return d.Category == category
	})
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	return lo.Uniq(lo.Map(r.descriptors, func(d OverlayDescriptor, _ int) string {
		return d.Category
	}))
}

// HandleKeyPress toggles the overlay bound to key. handled is false when no
// overlay uses the key.
func (r *OverlayRegistry) HandleKeyPress(key int32) (id OverlayID, on, handled bool) {
	desc, ok := lo.Find(r.descriptors, func(d OverlayDescriptor) bool {
		return d.Key != 0 && d.Key == key
	})
	if !ok {
		return "", false, false
	}
	return desc.ID, r.Toggle(desc.ID), true
}

// EnabledOverlays returns the enabled overlay IDs in registration order.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	return lo.FilterMap(r.descriptors, func(d OverlayDescriptor, _ int) (OverlayID, bool) {
		return d.ID, r.enabled[d.ID]
	})
}
