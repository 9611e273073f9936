// Package gamedata loads the embedded catalog and builds the read-only
// lookup tables the rest of the game resolves names against.
package gamedata

import (
	"io/fs"

	"github.com/samdwyer/zompanion/data"
)

// dataFS is the source every Load call reads from. Tests may swap it.
var dataFS fs.FS = data.FS()
