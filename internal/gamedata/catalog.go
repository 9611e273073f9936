package gamedata

import (
	"fmt"
	"io/fs"

	"github.com/samdwyer/zompanion/data"
)

// Catalog bundles every registry built from the data files.
type Catalog struct {
	Items         *ItemRegistry
	Zombies       *ZombieRegistry
	Recipes       *RecipeBook
	Scenes        *SceneRegistry
	Conversations map[string]Conversation
}

// LoadCatalog loads the embedded catalog.
func LoadCatalog() (*Catalog, error) {
	return LoadCatalogFrom(dataFS)
}

// MustLoadCatalog loads the embedded catalog, panicking on error.
func MustLoadCatalog() *Catalog {
	catalog, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return catalog
}

// LoadCatalogFrom reads and cross-checks every catalog file in fsys.
// References between files are resolved here so the runtime never meets a
// dangling name in static data.
func LoadCatalogFrom(fsys fs.FS) (*Catalog, error) {
	itemsFile, err := LoadFrom[ItemsFile](fsys, data.ItemsFile)
	if err != nil {
		return nil, err
	}
	if len(itemsFile.Items) == 0 {
		return nil, fmt.Errorf("%s: %w", data.ItemsFile, errEmptyCatalog)
	}
	items := NewItemRegistry(itemsFile.Items)

	zombiesFile, err := LoadFrom[ZombiesFile](fsys, data.ZombiesFile)
	if err != nil {
		return nil, err
	}
	if len(zombiesFile.Zombies) == 0 {
		return nil, fmt.Errorf("%s: %w", data.ZombiesFile, errEmptyCatalog)
	}
	seen := make(map[string]bool, len(zombiesFile.Zombies))
	for _, z := range zombiesFile.Zombies {
		if z.ID == "" {
			return nil, fmt.Errorf("%s: zombie without id", data.ZombiesFile)
		}
		if seen[z.ID] {
			return nil, fmt.Errorf("%s: zombie %q defined twice", data.ZombiesFile, z.ID)
		}
		seen[z.ID] = true
	}
	zombies := NewZombieRegistry(zombiesFile.Zombies)

	recipesFile, err := LoadFrom[RecipesFile](fsys, data.RecipesFile)
	if err != nil {
		return nil, err
	}
	recipes, err := ResolveRecipes(recipesFile.Recipes, items, zombies)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", data.RecipesFile, err)
	}

	lootFile, err := LoadFrom[LootProfilesFile](fsys, data.LootProfilesFile)
	if err != nil {
		return nil, err
	}
	profiles := make(map[string]*LootProfile, len(lootFile.Profiles))
	for _, def := range lootFile.Profiles {
		profile, err := ResolveLootProfile(def, items)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", data.LootProfilesFile, err)
		}
		profiles[def.ID] = profile
	}

	scenesFile, err := LoadFrom[ScenesFile](fsys, data.ScenesFile)
	if err != nil {
		return nil, err
	}
	scenes, err := newSceneRegistry(scenesFile, profiles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", data.ScenesFile, err)
	}

	conversationsFile, err := LoadFrom[ConversationsFile](fsys, data.ConversationsFile)
	if err != nil {
		return nil, err
	}
	conversations := make(map[string]Conversation, len(conversationsFile.Conversations))
	for _, c := range conversationsFile.Conversations {
		conversations[c.ID] = c
	}
	for _, name := range scenes.Names() {
		for _, trigger := range scenes.Get(name).Triggers {
			if _, ok := conversations[trigger.Conversation]; !ok {
				return nil, fmt.Errorf("%s: trigger %s references unknown conversation %q",
					data.ScenesFile, trigger.ID, trigger.Conversation)
			}
		}
		for _, spot := range scenes.Get(name).Spots {
			for _, item := range spot.Scripted {
				if items.Get(item) == nil {
					return nil, fmt.Errorf("%s: spot %s scripts unknown item %q", data.ScenesFile, spot.ID, item)
				}
			}
		}
	}

	return &Catalog{
		Items:         items,
		Zombies:       zombies,
		Recipes:       recipes,
		Scenes:        scenes,
		Conversations: conversations,
	}, nil
}
