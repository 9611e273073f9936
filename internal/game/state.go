// Package game wires the state layer together and runs the terminal loop.
package game

// State represents the current game state.
type State int

const (
	// StateExplore is the default mode where the player walks the scene.
	StateExplore State = iota
	// StateDialogue shows a conversation; the world is paused.
	StateDialogue
	// StateLoading covers a scene transition.
	StateLoading
	// StatePaused is the pause menu.
	StatePaused
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateExplore:
		return "explore"
	case StateDialogue:
		return "dialogue"
	case StateLoading:
		return "loading"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}
