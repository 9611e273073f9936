package entity

import (
	"testing"

	"github.com/samdwyer/zompanion/internal/follow"
)

func TestPlayerMove(t *testing.T) {
	p := NewPlayer(follow.Vec2{X: 1, Y: 1})

	if !p.Move(follow.Vec2{X: 1}, nil) {
		t.Fatal("unblocked move failed")
	}
	if p.Position() != (follow.Vec2{X: 2, Y: 1}) || p.Facing != follow.FacingRight {
		t.Errorf("after move: pos=%v facing=%v", p.Position(), p.Facing)
	}

	wall := func(pos follow.Vec2, radius float64) bool { return pos.Y-radius < 0.5 }
	if p.Move(follow.Vec2{Y: -1}, wall) {
		t.Error("moved into a wall")
	}
	if p.Position() != (follow.Vec2{X: 2, Y: 1}) || p.Facing != follow.FacingUp {
		t.Errorf("after blocked move: pos=%v facing=%v", p.Position(), p.Facing)
	}

	if p.Move(follow.Vec2{}, nil) {
		t.Error("zero move reported movement")
	}
}

func TestPlayerPlace(t *testing.T) {
	p := NewPlayer(follow.Vec2{})
	p.Facing = follow.FacingLeft
	p.Place(follow.Vec2{X: 3, Y: 8})
	if p.Position() != (follow.Vec2{X: 3, Y: 8}) || p.Facing != follow.FacingDown {
		t.Errorf("Place: pos=%v facing=%v", p.Position(), p.Facing)
	}
}
