package gamedata

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/zompanion/data"
)

// ZombieType separates ordinary companions from story-special ones.
type ZombieType string

const (
	ZombieNormal  ZombieType = "normal"
	ZombieSpecial ZombieType = "special"
)

// ZombieCategory groups zombies in the codex.
type ZombieCategory string

const (
	CategoryUnknown ZombieCategory = "unknown"
	CategoryMonk    ZombieCategory = "monk"
	CategoryOfficer ZombieCategory = "officer"
	CategoryWorker  ZombieCategory = "worker"
)

// BuffType is the passive bonus a zombie grants once, when it first spawns.
type BuffType string

const (
	BuffNone             BuffType = "none"
	BuffBackpackCapacity BuffType = "backpack_capacity"
	BuffDiggingLootBonus BuffType = "digging_loot_bonus"
)

// Default follow tuning for definitions that leave it unset.
const (
	DefaultFollowMoveSpeed = 2.8
	DefaultFollowDistance  = 0.75
	minFollowTuning        = 0.1
)

// Buff is a buff type and its magnitude.
type Buff struct {
	Type  BuffType `json:"type" jsonschema:"enum=none,enum=backpack_capacity,enum=digging_loot_bonus"`
	Value float64  `json:"value"`
}

// ZombieDef defines a zombie type loaded from JSON.
type ZombieDef struct {
	ID               string         `json:"id" jsonschema:"required,minLength=1"`
	DisplayName      string         `json:"displayName"`
	Type             ZombieType     `json:"type" jsonschema:"enum=normal,enum=special"`
	Category         ZombieCategory `json:"category" jsonschema:"enum=unknown,enum=monk,enum=officer,enum=worker"`
	Prefab           string         `json:"prefab,omitempty"`
	CodexIcon        string         `json:"codexIcon,omitempty"`
	CodexNumber      string         `json:"codexNumber,omitempty"`
	FollowMoveSpeed  float64        `json:"followMoveSpeed,omitempty" jsonschema:"minimum=0.1"`
	FollowDistance   float64        `json:"followDistance,omitempty" jsonschema:"minimum=0.1"`
	Buff             Buff           `json:"buff"`
	StoryID          string         `json:"storyId,omitempty"`
	ShortDescription string         `json:"shortDescription,omitempty"`
	Glyph            string         `json:"glyph,omitempty" jsonschema:"maxLength=1"`
	Color            string         `json:"color,omitempty" jsonschema:"pattern=^#?[0-9A-Fa-f]{6}$"`
}

// MoveSpeed returns the follow speed, falling back to the default.
func (z *ZombieDef) MoveSpeed() float64 {
	if z.FollowMoveSpeed < minFollowTuning {
		return DefaultFollowMoveSpeed
	}
	return z.FollowMoveSpeed
}

// Distance returns the follow distance, falling back to the default.
func (z *ZombieDef) Distance() float64 {
	if z.FollowDistance < minFollowTuning {
		return DefaultFollowDistance
	}
	return z.FollowDistance
}

// GlyphRune returns the glyph as a rune for rendering.
func (z *ZombieDef) GlyphRune() rune {
	if len(z.Glyph) == 0 {
		return 'Z'
	}
	return rune(z.Glyph[0])
}

// TCellColor returns the color as a tcell.Color.
func (z *ZombieDef) TCellColor() tcell.Color {
	return ColorOr(z.Color, tcell.ColorGreen)
}

// ZombiesFile represents the structure of zombies.json.
type ZombiesFile struct {
	Zombies []ZombieDef `json:"zombies"`
}

// LoadZombies loads zombie definitions from the embedded zombies.json file.
func LoadZombies() ([]ZombieDef, error) {
	file, err := Load[ZombiesFile](data.ZombiesFile)
	if err != nil {
		return nil, err
	}
	return file.Zombies, nil
}
