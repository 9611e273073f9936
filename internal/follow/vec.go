package follow

import "math"

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v*s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// LenSq returns the squared length.
func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

// Len returns the length.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the distance between v and o.
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

// MoveTowards steps from v toward target by at most maxStep and never
// overshoots.
func (v Vec2) MoveTowards(target Vec2, maxStep float64) Vec2 {
	delta := target.Sub(v)
	dist := delta.Len()
	if dist <= maxStep || dist == 0 {
		return target
	}
	return v.Add(delta.Scale(maxStep / dist))
}

// Direction is a cardinal facing.
type Direction int

const (
	// FacingDown is toward +Y, the default after a placement.
	FacingDown Direction = iota
	// FacingUp is toward -Y.
	FacingUp
	// FacingLeft is toward -X.
	FacingLeft
	// FacingRight is toward +X.
	FacingRight
)

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case FacingDown:
		return "down"
	case FacingUp:
		return "up"
	case FacingLeft:
		return "left"
	case FacingRight:
		return "right"
	default:
		return "unknown"
	}
}

// Cardinal snaps a movement delta to the dominant axis. Ties go vertical.
func Cardinal(delta Vec2) Direction {
	if math.Abs(delta.X) > math.Abs(delta.Y) {
		if delta.X < 0 {
			return FacingLeft
		}
		return FacingRight
	}
	if delta.Y < 0 {
		return FacingUp
	}
	return FacingDown
}
