// Command zompanion-schema writes a JSON schema for every catalog file so
// editors can validate data/*.json while designers work on it.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samdwyer/zompanion/internal/gamedata"
)

func main() {
	out := flag.String("out", "schemas", "directory to write schema files into")
	flag.Parse()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatalf("create output directory: %v", err)
	}

	schemas := gamedata.Schemas()
	files := make([]string, 0, len(schemas))
	for file := range schemas {
		files = append(files, file)
	}
	sort.Strings(files)

	for _, file := range files {
		b, err := json.MarshalIndent(schemas[file], "", "  ")
		if err != nil {
			log.Fatalf("encode schema for %s: %v", file, err)
		}
		name := strings.TrimSuffix(file, filepath.Ext(file)) + ".schema.json"
		path := filepath.Join(*out, name)
		if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
			log.Fatalf("write %s: %v", path, err)
		}
		log.Printf("wrote %s", path)
	}
}
