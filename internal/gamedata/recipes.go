package gamedata

import (
	"fmt"

	"github.com/samdwyer/zompanion/data"
)

// RecipeDef is an authored recipe referencing items by name and the
// resulting zombie by id.
type RecipeDef struct {
	Torso  string `json:"torso" jsonschema:"required,minLength=1"`
	Arm    string `json:"arm" jsonschema:"required,minLength=1"`
	Leg    string `json:"leg" jsonschema:"required,minLength=1"`
	Result string `json:"result" jsonschema:"required,minLength=1,description=Zombie definition id"`
}

// RecipesFile represents the structure of recipes.json.
type RecipesFile struct {
	Recipes []RecipeDef `json:"recipes"`
}

// Recipe is a resolved recipe. Parts are compared by identity against the
// definitions held by an ItemRegistry.
type Recipe struct {
	Torso  *ItemDef
	Arm    *ItemDef
	Leg    *ItemDef
	Result *ZombieDef
}

// Matches reports whether the three parts are exactly this recipe's parts.
func (r Recipe) Matches(torso, arm, leg *ItemDef) bool {
	return r.Torso == torso && r.Arm == arm && r.Leg == leg
}

// RecipeBook is the ordered recipe table.
type RecipeBook struct {
	recipes []Recipe
}

// NewRecipeBook builds a book from already resolved recipes, keeping order.
func NewRecipeBook(recipes []Recipe) *RecipeBook {
	return &RecipeBook{recipes: recipes}
}

// ResolveRecipes turns authored recipes into a RecipeBook. Any reference that
// does not resolve, or a part placed in the wrong slot, fails the load.
func ResolveRecipes(defs []RecipeDef, items *ItemRegistry, zombies *ZombieRegistry) (*RecipeBook, error) {
	recipes := make([]Recipe, 0, len(defs))
	for i, def := range defs {
		torso, err := resolvePart(items, def.Torso, ItemTorso)
		if err != nil {
			return nil, fmt.Errorf("recipe %d: %w", i, err)
		}
		arm, err := resolvePart(items, def.Arm, ItemArm)
		if err != nil {
			return nil, fmt.Errorf("recipe %d: %w", i, err)
		}
		leg, err := resolvePart(items, def.Leg, ItemLeg)
		if err != nil {
			return nil, fmt.Errorf("recipe %d: %w", i, err)
		}
		result := zombies.GetByID(def.Result)
		if result == nil {
			return nil, fmt.Errorf("recipe %d: unknown zombie %q", i, def.Result)
		}
		recipes = append(recipes, Recipe{Torso: torso, Arm: arm, Leg: leg, Result: result})
	}
	return NewRecipeBook(recipes), nil
}

func resolvePart(items *ItemRegistry, name string, want ItemType) (*ItemDef, error) {
	item := items.Get(name)
	if item == nil {
		return nil, fmt.Errorf("unknown item %q", name)
	}
	if item.Type != want {
		return nil, fmt.Errorf("item %q is %s, want %s", name, item.Type, want)
	}
	return item, nil
}

// Find returns the first recipe whose parts match, scanning in table order.
// Overlapping recipes are not rejected; the earlier one shadows the later.
func (b *RecipeBook) Find(torso, arm, leg *ItemDef) (Recipe, bool) {
	for _, r := range b.recipes {
		if r.Matches(torso, arm, leg) {
			return r, true
		}
	}
	return Recipe{}, false
}

// All returns the recipes in table order.
func (b *RecipeBook) All() []Recipe {
	return b.recipes
}

// Count returns the number of recipes.
func (b *RecipeBook) Count() int {
	return len(b.recipes)
}

// LoadRecipes loads authored recipes from the embedded recipes.json file.
func LoadRecipes() ([]RecipeDef, error) {
	file, err := Load[RecipesFile](data.RecipesFile)
	if err != nil {
		return nil, err
	}
	return file.Recipes, nil
}
