package world

import (
	"math"

	"github.com/samdwyer/zompanion/internal/assembly"
	"github.com/samdwyer/zompanion/internal/dialogue"
	"github.com/samdwyer/zompanion/internal/event"
	"github.com/samdwyer/zompanion/internal/follow"
	"github.com/samdwyer/zompanion/internal/loot"
	"github.com/samdwyer/zompanion/internal/scenestate"
)

// obstacleRadius is the footprint of an NPC or platform.
const obstacleRadius = 0.5

// DigSpot is a dig spot placed in the scene.
type DigSpot struct {
	*loot.Spot
	Pos follow.Vec2
}

// TriggerPoint is a dialogue trigger placed in the scene.
type TriggerPoint struct {
	*dialogue.Trigger
	Pos follow.Vec2
}

// PlatformPoint is an assembly platform placed in the scene.
type PlatformPoint struct {
	*assembly.Platform
	Pos follow.Vec2
}

// Exit moves the player to Target when entered.
type Exit struct {
	ID     string
	Target string
	Region Region
}

// InteractKind is the type of thing the player can interact with.
type InteractKind int

const (
	InteractNone InteractKind = iota
	InteractSpot
	InteractTrigger
	InteractPlatform
)

// String returns a human-readable kind name.
func (k InteractKind) String() string {
	switch k {
	case InteractSpot:
		return "spot"
	case InteractTrigger:
		return "trigger"
	case InteractPlatform:
		return "platform"
	default:
		return "none"
	}
}

// Interactable identifies the closest interactive object to a position.
type Interactable struct {
	Kind     InteractKind
	ID       string
	Pos      follow.Vec2
	Distance float64
}

// Scene is the runtime model of one loaded scene layout.
type Scene struct {
	Name          string
	Title         string
	Width, Height int
	Spawn         follow.Vec2

	Spots    []*DigSpot
	Triggers []*TriggerPoint
	Platform *PlatformPoint
	Exits    []Exit
	Regions  []Region

	entities  []*scenestate.Entity
	occupants map[string]map[string]bool
}

// Entities returns every state-bearing object in the scene, keyed by its
// persistent id.
func (s *Scene) Entities() []*scenestate.Entity {
	return s.entities
}

// LootSpots returns the dig spots as loot spots, in authored order.
func (s *Scene) LootSpots() []*loot.Spot {
	spots := make([]*loot.Spot, len(s.Spots))
	for i, d := range s.Spots {
		spots[i] = d.Spot
	}
	return spots
}

// Spot returns the dig spot with the given id, or nil.
func (s *Scene) Spot(id string) *DigSpot {
	for _, d := range s.Spots {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// Trigger returns the dialogue trigger with the given id, or nil.
func (s *Scene) Trigger(id string) *TriggerPoint {
	for _, t := range s.Triggers {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// InBounds reports whether pos lies inside the scene.
func (s *Scene) InBounds(pos follow.Vec2) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < float64(s.Width) && pos.Y < float64(s.Height)
}

// Blocked reports whether a circle of radius at pos leaves the scene or
// overlaps an NPC or the platform. Dig spots are walkable.
func (s *Scene) Blocked(pos follow.Vec2, radius float64) bool {
	if pos.X-radius < 0 || pos.Y-radius < 0 ||
		pos.X+radius > float64(s.Width) || pos.Y+radius > float64(s.Height) {
		return true
	}
	limit := radius + obstacleRadius
	for _, t := range s.Triggers {
		if t.Active && pos.Dist(t.Pos) < limit {
			return true
		}
	}
	if s.Platform != nil && pos.Dist(s.Platform.Pos) < limit {
		return true
	}
	return false
}

// Nearest returns the closest interactive object within reach of pos.
// Dug spots and unavailable triggers are skipped.
func (s *Scene) Nearest(pos follow.Vec2, reach float64) (Interactable, bool) {
	best := Interactable{Distance: math.Inf(1)}
	consider := func(kind InteractKind, id string, at follow.Vec2) {
		if d := pos.Dist(at); d <= reach && d < best.Distance {
			best = Interactable{Kind: kind, ID: id, Pos: at, Distance: d}
		}
	}

	for _, d := range s.Spots {
		if !d.Dug() {
			consider(InteractSpot, d.ID, d.Pos)
		}
	}
	for _, t := range s.Triggers {
		if t.Available() {
			consider(InteractTrigger, t.ID, t.Pos)
		}
	}
	if s.Platform != nil {
		consider(InteractPlatform, s.Platform.ID, s.Platform.Pos)
	}
	return best, best.Kind != InteractNone
}

// ExitAt returns the exit whose region contains pos.
func (s *Scene) ExitAt(pos follow.Vec2) (Exit, bool) {
	for _, e := range s.Exits {
		if e.Region.Contains(pos) {
			return e, true
		}
	}
	return Exit{}, false
}

// UpdateOccupant records entityID at pos and publishes an exit event for
// every region it left, then an enter event for every region it entered.
func (s *Scene) UpdateOccupant(bus *event.Bus, entityID string, pos follow.Vec2) {
	if s.occupants == nil {
		s.occupants = make(map[string]map[string]bool)
	}
	inside := s.occupants[entityID]
	if inside == nil {
		inside = make(map[string]bool)
		s.occupants[entityID] = inside
	}

	var entered []string
	for _, r := range s.Regions {
		now := r.Contains(pos)
		switch {
		case now && !inside[r.ID]:
			inside[r.ID] = true
			entered = append(entered, r.ID)
		case !now && inside[r.ID]:
			delete(inside, r.ID)
			bus.Emit(event.EntityExitedRegion, event.RegionPayload{EntityID: entityID, RegionID: r.ID})
		}
	}
	for _, id := range entered {
		bus.Emit(event.EntityEnteredRegion, event.RegionPayload{EntityID: entityID, RegionID: id})
	}
}

// Occupies reports whether entityID was last seen inside regionID.
func (s *Scene) Occupies(entityID, regionID string) bool {
	return s.occupants[entityID][regionID]
}

// ForgetOccupants drops region membership, e.g. when the scene unloads.
func (s *Scene) ForgetOccupants() {
	s.occupants = nil
}
