// Package data holds the authored game catalog: items, zombies, recipes,
// loot profiles, scenes and conversations.
package data

import "embed"

// Catalog file names inside the embedded filesystem.
const (
	ItemsFile         = "items.json"
	ZombiesFile       = "zombies.json"
	RecipesFile       = "recipes.json"
	LootProfilesFile  = "loot_profiles.json"
	ScenesFile        = "scenes.json"
	ConversationsFile = "conversations.json"
)

//go:embed *.json
var dataFS embed.FS

// FS returns the embedded filesystem containing game data.
func FS() embed.FS {
	return dataFS
}
