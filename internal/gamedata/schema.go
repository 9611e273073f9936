package gamedata

import (
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/samdwyer/zompanion/data"
)

var schemaTitles = map[string]string{
	data.ItemsFile:         "Zompanion Items",
	data.ZombiesFile:       "Zompanion Zombies",
	data.RecipesFile:       "Zompanion Recipes",
	data.LootProfilesFile:  "Zompanion Loot Profiles",
	data.ScenesFile:        "Zompanion Scenes",
	data.ConversationsFile: "Zompanion Conversations",
}

// Schemas reflects a JSON schema for each catalog file, keyed by file name.
func Schemas() map[string]*jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	types := map[string]reflect.Type{
		data.ItemsFile:         reflect.TypeOf(ItemsFile{}),
		data.ZombiesFile:       reflect.TypeOf(ZombiesFile{}),
		data.RecipesFile:       reflect.TypeOf(RecipesFile{}),
		data.LootProfilesFile:  reflect.TypeOf(LootProfilesFile{}),
		data.ScenesFile:        reflect.TypeOf(ScenesFile{}),
		data.ConversationsFile: reflect.TypeOf(ConversationsFile{}),
	}

	schemas := make(map[string]*jsonschema.Schema, len(types))
	for file, t := range types {
		schema := reflector.ReflectFromType(t)
		schema.Title = schemaTitles[file]
		schema.Description = "Validates designer-authored entries in data/" + file
		schemas[file] = schema
	}
	return schemas
}
