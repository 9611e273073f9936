// Package entity provides the player character that leads the zombie chain.
package entity

import (
	"github.com/samdwyer/zompanion/internal/follow"
)

// PlayerID is the entity id the player uses in region events.
const PlayerID = "player"

// PlayerRadius is the player's collision radius in world units.
const PlayerRadius = 0.3

// Player is the leader body the follow engine's trail is recorded from.
type Player struct {
	Body   *follow.Body
	Symbol rune // Display symbol ('@')
	Facing follow.Direction
}

// NewPlayer creates a player at the given position.
func NewPlayer(pos follow.Vec2) *Player {
	return &Player{
		Body:   &follow.Body{Position: pos},
		Symbol: '@',
	}
}

// Move steps the player by delta unless the destination is blocked. Facing
// turns toward delta either way. It returns whether the player moved.
func (p *Player) Move(delta follow.Vec2, blocked func(pos follow.Vec2, radius float64) bool) bool {
	if delta.LenSq() == 0 {
		return false
	}
	p.Facing = follow.Cardinal(delta)

	next := p.Body.Position.Add(delta)
	if blocked != nil && blocked(next, PlayerRadius) {
		return false
	}
	p.Body.Position = next
	return true
}

// Place teleports the player, e.g. to a scene's spawn point.
func (p *Player) Place(pos follow.Vec2) {
	p.Body.Position = pos
	p.Facing = follow.FacingDown
}

// Position returns the current position.
func (p *Player) Position() follow.Vec2 {
	return p.Body.Position
}
