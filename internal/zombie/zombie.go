// Package zombie tracks spawned companions, their follow and work states,
// the codex of unlocked types, and the one-time buffs they grant.
package zombie

import (
	"github.com/samdwyer/zompanion/internal/follow"
	"github.com/samdwyer/zompanion/internal/gamedata"
)

// State is a companion's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateFollowing
	StateWorking
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFollowing:
		return "following"
	case StateWorking:
		return "working"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Instance is a spawned companion. Instances are never destroyed within a
// session and survive scene changes.
type Instance struct {
	ID            int           `json:"id"`
	DefinitionID  string        `json:"definitionId"`
	DisplayName   string        `json:"displayName"`
	State         State         `json:"state"`
	FollowOrder   int           `json:"followOrder"`
	BuffApplied   bool          `json:"buffApplied"`
	AppliedBuff   gamedata.Buff `json:"appliedBuff"`
	UnlockStoryID string        `json:"unlockStoryId,omitempty"`

	Definition *gamedata.ZombieDef `json:"-"`
	Follower   *follow.Follower    `json:"-"`
}

// Position returns the companion's world position.
func (z *Instance) Position() follow.Vec2 {
	return z.Follower.Body.Position
}
