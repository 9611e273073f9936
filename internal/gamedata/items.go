package gamedata

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/zompanion/data"
)

// ItemType categorises an item. Body part types decide which assembly
// platform slot an item fits.
type ItemType string

const (
	ItemGeneral         ItemType = "general"
	ItemHead            ItemType = "head"
	ItemTorso           ItemType = "torso"
	ItemArm             ItemType = "arm"
	ItemLeg             ItemType = "leg"
	ItemStoryProp       ItemType = "story_prop"
	ItemInteractiveProp ItemType = "interactive_prop"
)

// String returns the type name.
func (t ItemType) String() string {
	if t == "" {
		return string(ItemGeneral)
	}
	return string(t)
}

// IsBodyPart reports whether the type fits an assembly platform slot.
// Heads are reserved and do not.
func (t ItemType) IsBodyPart() bool {
	return t == ItemTorso || t == ItemArm || t == ItemLeg
}

// ItemDef defines an item loaded from JSON. ItemDefs are shared by pointer
// and compared by identity; the name is the stable key used in saves.
type ItemDef struct {
	Name         string   `json:"name" jsonschema:"required,minLength=1,description=Unique item name used as the save key"`
	Description  string   `json:"description,omitempty"`
	Icon         string   `json:"icon,omitempty"`
	Type         ItemType `json:"type" jsonschema:"enum=general,enum=head,enum=torso,enum=arm,enum=leg,enum=story_prop,enum=interactive_prop"`
	Stackable    bool     `json:"stackable,omitempty"`
	MaxStackSize int      `json:"maxStackSize,omitempty" jsonschema:"minimum=0"`
	WorldPrefab  string   `json:"worldPrefab,omitempty"`
	Glyph        string   `json:"glyph,omitempty" jsonschema:"maxLength=1"`
	Color        string   `json:"color,omitempty" jsonschema:"pattern=^#?[0-9A-Fa-f]{6}$"`
}

// StackLimit is the most units of this item a single slot can hold.
func (i *ItemDef) StackLimit() int {
	if !i.Stackable || i.MaxStackSize < 1 {
		return 1
	}
	return i.MaxStackSize
}

// GlyphRune returns the glyph as a rune for rendering.
func (i *ItemDef) GlyphRune() rune {
	if len(i.Glyph) == 0 {
		return '?'
	}
	return rune(i.Glyph[0])
}

// TCellColor returns the color as a tcell.Color.
func (i *ItemDef) TCellColor() tcell.Color {
	return ColorOr(i.Color, tcell.ColorWhite)
}

// ItemsFile represents the structure of items.json.
type ItemsFile struct {
	Items []ItemDef `json:"items"`
}

// LoadItems loads item definitions from the embedded items.json file.
func LoadItems() ([]ItemDef, error) {
	file, err := Load[ItemsFile](data.ItemsFile)
	if err != nil {
		return nil, err
	}
	return file.Items, nil
}
