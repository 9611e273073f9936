// Package event provides the synchronous publish/subscribe bus that carries
// scene lifecycle, region and state-change notifications between subsystems.
package event

// Type identifies an event.
type Type int

const (
	SceneLoaded Type = iota
	SceneUnloading
	InventoryChanged
	ZombieListChanged
	CodexChanged
	EntityEnteredRegion
	EntityExitedRegion
	PauseChanged
	DialogueStarted
	DigResolved
	AssemblyResolved
)

// String returns a human-readable event name.
func (t Type) String() string {
	switch t {
	case SceneLoaded:
		return "scene_loaded"
	case SceneUnloading:
		return "scene_unloading"
	case InventoryChanged:
		return "inventory_changed"
	case ZombieListChanged:
		return "zombie_list_changed"
	case CodexChanged:
		return "codex_changed"
	case EntityEnteredRegion:
		return "entity_entered_region"
	case EntityExitedRegion:
		return "entity_exited_region"
	case PauseChanged:
		return "pause_changed"
	case DialogueStarted:
		return "dialogue_started"
	case DigResolved:
		return "dig_resolved"
	case AssemblyResolved:
		return "assembly_resolved"
	default:
		return "unknown"
	}
}

// Event is a published notification. Payload holds one of the payload
// structs below, or nil for events that carry nothing.
type Event struct {
	Type    Type
	Payload any
}

// ScenePayload accompanies SceneLoaded and SceneUnloading.
type ScenePayload struct {
	Name string `json:"name"`
}

// RegionPayload accompanies EntityEnteredRegion and EntityExitedRegion.
type RegionPayload struct {
	EntityID string `json:"entityId"`
	RegionID string `json:"regionId"`
}

// PausePayload accompanies PauseChanged.
type PausePayload struct {
	Paused bool `json:"paused"`
}

// DialoguePayload accompanies DialogueStarted.
type DialoguePayload struct {
	TriggerID    string   `json:"triggerId"`
	Conversation string   `json:"conversation"`
	Lines        []string `json:"lines"`
}

// DigPayload accompanies DigResolved.
type DigPayload struct {
	SpotID string `json:"spotId"`
	Result string `json:"result"`
	Item   string `json:"item,omitempty"`
}

// AssemblyPayload accompanies AssemblyResolved.
type AssemblyPayload struct {
	Status string `json:"status"`
	Zombie string `json:"zombie,omitempty"`
}

// All returns every event type, in declaration order.
func All() []Type {
	types := make([]Type, 0, int(AssemblyResolved)+1)
	for t := SceneLoaded; t <= AssemblyResolved; t++ {
		types = append(types, t)
	}
	return types
}
