package gamedata

import "fmt"

// LootEntryDef is one guaranteed drop in a loot profile.
type LootEntryDef struct {
	Item    string `json:"item" jsonschema:"required,minLength=1"`
	Count   int    `json:"count,omitempty" jsonschema:"minimum=1"`
	KeyItem bool   `json:"keyItem,omitempty"`
}

// LootProfileDef is the authored loot configuration for a scene.
type LootProfileDef struct {
	ID              string         `json:"id" jsonschema:"required,minLength=1"`
	Guaranteed      []LootEntryDef `json:"guaranteed,omitempty"`
	FillerPool      []string       `json:"fillerPool,omitempty"`
	Fallback        string         `json:"fallback,omitempty"`
	BonusDrawChance float64        `json:"bonusDrawChance,omitempty" jsonschema:"minimum=0,maximum=1"`
	DeveloperNotes  string         `json:"developerNotes,omitempty"`
}

// LootProfilesFile represents the structure of loot_profiles.json.
type LootProfilesFile struct {
	Profiles []LootProfileDef `json:"profiles"`
}

// LootEntry is a resolved guaranteed drop.
type LootEntry struct {
	Item    *ItemDef
	Count   int
	KeyItem bool
}

// LootProfile is a resolved loot profile.
type LootProfile struct {
	ID              string
	Guaranteed      []LootEntry
	FillerPool      []*ItemDef
	Fallback        *ItemDef
	BonusDrawChance float64
}

// ResolveLootProfile resolves item names in def. Counts below one are raised
// to one.
func ResolveLootProfile(def LootProfileDef, items *ItemRegistry) (*LootProfile, error) {
	profile := &LootProfile{
		ID:              def.ID,
		BonusDrawChance: def.BonusDrawChance,
	}
	for _, entry := range def.Guaranteed {
		item := items.Get(entry.Item)
		if item == nil {
			return nil, fmt.Errorf("loot profile %s: unknown item %q", def.ID, entry.Item)
		}
		count := entry.Count
		if count < 1 {
			count = 1
		}
		profile.Guaranteed = append(profile.Guaranteed, LootEntry{Item: item, Count: count, KeyItem: entry.KeyItem})
	}
	for _, name := range def.FillerPool {
		item := items.Get(name)
		if item == nil {
			return nil, fmt.Errorf("loot profile %s: unknown filler item %q", def.ID, name)
		}
		profile.FillerPool = append(profile.FillerPool, item)
	}
	if def.Fallback != "" {
		profile.Fallback = items.Get(def.Fallback)
		if profile.Fallback == nil {
			return nil, fmt.Errorf("loot profile %s: unknown fallback item %q", def.ID, def.Fallback)
		}
	}
	return profile, nil
}
