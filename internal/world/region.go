// Package world builds the runtime model of an authored scene and tracks
// which regions each entity stands in.
package world

import (
	"github.com/samdwyer/zompanion/internal/follow"
	"github.com/samdwyer/zompanion/internal/gamedata"
)

// Region is an axis-aligned rectangle in world units.
type Region struct {
	ID            string
	X, Y          float64 // Top-left corner
	Width, Height float64
}

// RegionFromRect creates a region covering an authored rectangle.
func RegionFromRect(id string, r gamedata.Rect) Region {
	return Region{ID: id, X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Center returns the center of the region.
func (r Region) Center() follow.Vec2 {
	return follow.Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains returns true if the point is inside the region. The right and
// bottom edges are exclusive.
func (r Region) Contains(p follow.Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Intersects returns true if this region overlaps with another region.
func (r Region) Intersects(other Region) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}
