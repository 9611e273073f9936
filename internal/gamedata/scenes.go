package gamedata

// =============================================================================
// SCENE LAYOUT
// =============================================================================
//
// A scene is authored as a fixed layout. Every state-bearing object in it
// (dig spots, dialogue triggers) carries a persistent id that never changes
// between visits. Scene snapshots are keyed by those ids, so renaming one in
// scenes.json orphans any snapshot taken before the rename.
//
// Coordinates are world units. The terminal renderer maps one unit to one
// cell; the follow engine works in the same units.
//
// {
//   "name": "graveyard",
//   "lootProfile": "graveyard",
//   "spawn": {"x": 3, "y": 8},
//   "spots": [{"id": "graveyard.spot.01", "x": 8, "y": 3}],
//   "triggers": [{"id": "graveyard.keeper", "conversation": "keeper_intro", ...}],
//   "exits": [{"id": "graveyard.gate", "target": "temple_garden", "region": {...}}]
// }
//
// A spot with "scripted" content is never touched by loot distribution.

// Point is a position in world units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned area in world units.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width" jsonschema:"minimum=0"`
	Height float64 `json:"height" jsonschema:"minimum=0"`
}

// SpotDef is an authored dig spot.
type SpotDef struct {
	ID       string   `json:"id" jsonschema:"required,minLength=1"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Scripted []string `json:"scripted,omitempty" jsonschema:"description=Hand-placed item names; excludes the spot from loot distribution"`
}

// TriggerDef is an authored dialogue trigger.
type TriggerDef struct {
	ID           string  `json:"id" jsonschema:"required,minLength=1"`
	Conversation string  `json:"conversation" jsonschema:"required,minLength=1"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Condition    string  `json:"condition,omitempty" jsonschema:"description=Lua expression; the trigger fires only when it is true"`
	Action       string  `json:"action,omitempty" jsonschema:"description=Lua chunk run after the conversation plays"`
	Once         bool    `json:"once,omitempty"`
}

// ExitDef moves the player to another scene when entered.
type ExitDef struct {
	ID     string `json:"id" jsonschema:"required,minLength=1"`
	Target string `json:"target" jsonschema:"required,minLength=1"`
	Region Rect   `json:"region"`
}

// RegionDef is a named area that publishes enter and exit events.
type RegionDef struct {
	ID     string  `json:"id" jsonschema:"required,minLength=1"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PlatformDef places an assembly platform in the scene.
type PlatformDef struct {
	ID string  `json:"id" jsonschema:"required,minLength=1"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// SceneDef is an authored scene layout.
type SceneDef struct {
	Name        string       `json:"name" jsonschema:"required,minLength=1"`
	Title       string       `json:"title,omitempty"`
	Width       int          `json:"width" jsonschema:"minimum=1"`
	Height      int          `json:"height" jsonschema:"minimum=1"`
	LootProfile string       `json:"lootProfile,omitempty"`
	Spawn       Point        `json:"spawn"`
	Spots       []SpotDef    `json:"spots,omitempty"`
	Triggers    []TriggerDef `json:"triggers,omitempty"`
	Exits       []ExitDef    `json:"exits,omitempty"`
	Regions     []RegionDef  `json:"regions,omitempty"`
	Platform    *PlatformDef `json:"platform,omitempty"`
}

// ScenesFile represents the structure of scenes.json.
type ScenesFile struct {
	StartScene string     `json:"startScene" jsonschema:"required,minLength=1"`
	Scenes     []SceneDef `json:"scenes"`
}

// Conversation is a scripted exchange played by a dialogue trigger.
type Conversation struct {
	ID    string   `json:"id" jsonschema:"required,minLength=1"`
	Lines []string `json:"lines"`
}

// ConversationsFile represents the structure of conversations.json.
type ConversationsFile struct {
	Conversations []Conversation `json:"conversations"`
}
