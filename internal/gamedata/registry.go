package gamedata

import (
	"errors"
	"fmt"
)

// ItemRegistry holds loaded item definitions keyed by name. It is built once
// and read-only afterwards.
type ItemRegistry struct {
	items      map[string]*ItemDef
	all        []*ItemDef
	duplicates []string
}

// NewItemRegistry creates a registry from loaded item definitions.
// When two definitions share a name the later one wins and the name is
// reported by Duplicates. Nameless definitions are dropped.
func NewItemRegistry(items []ItemDef) *ItemRegistry {
	registry := &ItemRegistry{
		items: make(map[string]*ItemDef, len(items)),
	}
	for i := range items {
		item := &items[i]
		if item.Name == "" {
			continue
		}
		if _, ok := registry.items[item.Name]; ok {
			registry.duplicates = append(registry.duplicates, item.Name)
			for j, existing := range registry.all {
				if existing.Name == item.Name {
					registry.all[j] = item
				}
			}
		} else {
			registry.all = append(registry.all, item)
		}
		registry.items[item.Name] = item
	}
	return registry
}

// Get returns the item with the given name, or nil if not found.
func (r *ItemRegistry) Get(name string) *ItemDef {
	if name == "" {
		return nil
	}
	return r.items[name]
}

// Duplicates returns the names defined more than once.
func (r *ItemRegistry) Duplicates() []string {
	return r.duplicates
}

// All returns all item definitions in file order.
func (r *ItemRegistry) All() []*ItemDef {
	return r.all
}

// Count returns the number of distinct items.
func (r *ItemRegistry) Count() int {
	return len(r.all)
}

// =============================================================================
// ZombieRegistry
// =============================================================================

// ZombieRegistry holds loaded zombie definitions keyed by id.
type ZombieRegistry struct {
	zombies map[string]*ZombieDef
	all     []ZombieDef
}

// NewZombieRegistry creates a registry from loaded zombie definitions.
func NewZombieRegistry(zombies []ZombieDef) *ZombieRegistry {
	registry := &ZombieRegistry{
		zombies: make(map[string]*ZombieDef, len(zombies)),
		all:     zombies,
	}
	for i := range zombies {
		registry.zombies[zombies[i].ID] = &zombies[i]
	}
	return registry
}

// GetByID returns the zombie definition with the given ID, or nil if not found.
func (r *ZombieRegistry) GetByID(id string) *ZombieDef {
	if id == "" {
		return nil
	}
	return r.zombies[id]
}

// All returns all zombie definitions.
func (r *ZombieRegistry) All() []ZombieDef {
	return r.all
}

// Count returns the number of zombie types in the registry.
func (r *ZombieRegistry) Count() int {
	return len(r.all)
}

// =============================================================================
// SceneRegistry
// =============================================================================

// SceneRegistry holds scene layouts and the loot profile each one uses.
type SceneRegistry struct {
	start    string
	scenes   map[string]*SceneDef
	order    []string
	profiles map[string]*LootProfile
}

func newSceneRegistry(file ScenesFile, profiles map[string]*LootProfile) (*SceneRegistry, error) {
	registry := &SceneRegistry{
		start:    file.StartScene,
		scenes:   make(map[string]*SceneDef, len(file.Scenes)),
		profiles: profiles,
	}
	for i := range file.Scenes {
		scene := &file.Scenes[i]
		if scene.Name == "" {
			return nil, fmt.Errorf("scene %d has no name", i)
		}
		if _, ok := registry.scenes[scene.Name]; ok {
			return nil, fmt.Errorf("scene %q defined twice", scene.Name)
		}
		if scene.LootProfile != "" && profiles[scene.LootProfile] == nil {
			return nil, fmt.Errorf("scene %q: unknown loot profile %q", scene.Name, scene.LootProfile)
		}
		if err := checkEntityIDs(scene); err != nil {
			return nil, err
		}
		registry.scenes[scene.Name] = scene
		registry.order = append(registry.order, scene.Name)
	}
	if registry.scenes[registry.start] == nil {
		return nil, fmt.Errorf("start scene %q not defined", registry.start)
	}
	for _, scene := range registry.scenes {
		for _, exit := range scene.Exits {
			if registry.scenes[exit.Target] == nil {
				return nil, fmt.Errorf("scene %q: exit %s targets unknown scene %q", scene.Name, exit.ID, exit.Target)
			}
		}
	}
	return registry, nil
}

// checkEntityIDs rejects a scene whose spots, triggers and platform do not
// have distinct ids. Snapshots match entities by id alone.
func checkEntityIDs(scene *SceneDef) error {
	seen := make(map[string]bool)
	claim := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("scene %q: %s without id", scene.Name, kind)
		}
		if seen[id] {
			return fmt.Errorf("scene %q: entity id %q used twice", scene.Name, id)
		}
		seen[id] = true
		return nil
	}

	for _, spot := range scene.Spots {
		if err := claim("spot", spot.ID); err != nil {
			return err
		}
	}
	for _, trigger := range scene.Triggers {
		if err := claim("trigger", trigger.ID); err != nil {
			return err
		}
	}
	if scene.Platform != nil {
		if err := claim("platform", scene.Platform.ID); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the scene with the given name, or nil if not found.
func (r *SceneRegistry) Get(name string) *SceneDef {
	return r.scenes[name]
}

// StartScene returns the name of the scene a new game begins in.
func (r *SceneRegistry) StartScene() string {
	return r.start
}

// Names returns scene names in file order.
func (r *SceneRegistry) Names() []string {
	return r.order
}

// LootProfile returns the resolved loot profile for a scene, or nil.
func (r *SceneRegistry) LootProfile(scene string) *LootProfile {
	def := r.scenes[scene]
	if def == nil || def.LootProfile == "" {
		return nil
	}
	return r.profiles[def.LootProfile]
}

// errEmptyCatalog is returned when a catalog file holds no entries.
var errEmptyCatalog = errors.New("catalog file has no entries")
