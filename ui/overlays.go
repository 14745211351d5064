package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayLeaderboard OverlayID = "leaderboard"
	OverlayHighlights  OverlayID = "highlights"
	OverlayMinimap     OverlayID = "minimap"
	OverlayTrails      OverlayID = "trails"
	OverlayInspector   OverlayID = "inspector"
	OverlayPerf        OverlayID = "perf"
	OverlayHistory     OverlayID = "history"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID
	Name      string
	Key       int32  // Keyboard key to toggle (0 = no key)
	KeyLabel  string // Key label for display
	Category  string
	Exclusive []OverlayID // Other overlays to disable when this is enabled
	Default   bool
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the standard overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID: OverlayLeaderboard, Name: "Leaderboard",
		Key: rl.KeyL, KeyLabel: "L", Category: "race", Default: true,
	})
	r.Register(OverlayDescriptor{
		ID: OverlayHighlights, Name: "Highlights",
		Key: rl.KeyH, KeyLabel: "H", Category: "race", Default: true,
	})
	r.Register(OverlayDescriptor{
		ID: OverlayMinimap, Name: "Minimap",
		Key: rl.KeyM, KeyLabel: "M", Category: "race", Default: true,
	})
	r.Register(OverlayDescriptor{
		ID: OverlayTrails, Name: "Boost Trails",
		Key: rl.KeyT, KeyLabel: "T", Category: "visual", Default: true,
	})
	r.Register(OverlayDescriptor{
		ID: OverlayInspector, Name: "Duck Inspector",
		Key: rl.KeyI, KeyLabel: "I", Category: "visual",
		Exclusive: []OverlayID{OverlayHistory},
	})
	r.Register(OverlayDescriptor{
		ID: OverlayHistory, Name: "Race History",
		Key: rl.KeyY, KeyLabel: "Y", Category: "visual",
		Exclusive: []OverlayID{OverlayInspector},
	})
	r.Register(OverlayDescriptor{
		ID: OverlayPerf, Name: "Performance",
		Key: rl.KeyF3, KeyLabel: "F3", Category: "debug",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
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

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleInput toggles overlays whose key was pressed this frame.
func (r *OverlayRegistry) HandleInput() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}

// Legend returns the key bindings as a single line.
func (r *OverlayRegistry) Legend() string {
	s := ""
	for i, desc := range r.descriptors {
		if i > 0 {
			s += "  "
		}
		s += "[" + desc.KeyLabel + "] " + desc.Name
	}
	return s
}
