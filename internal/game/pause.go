package game

import (
	"sort"

	"github.com/samdwyer/zompanion/internal/event"
)

// Pause is a set of owners that want the world stopped. The world runs only
// while the set is empty, so overlapping pauses (menu over dialogue) release
// independently.
type Pause struct {
	owners map[string]bool
	bus    *event.Bus
}

// NewPause creates an empty pause set publishing PauseChanged on bus.
func NewPause(bus *event.Bus) *Pause {
	return &Pause{owners: make(map[string]bool), bus: bus}
}

// RequestPause adds owner. Requesting twice is a no-op.
func (p *Pause) RequestPause(owner string) {
	if p.owners[owner] {
		return
	}
	was := p.Paused()
	p.owners[owner] = true
	p.changed(was)
}

// ReleasePause removes owner.
func (p *Pause) ReleasePause(owner string) {
	if !p.owners[owner] {
		return
	}
	was := p.Paused()
	delete(p.owners, owner)
	p.changed(was)
}

// ClearAll removes every owner.
func (p *Pause) ClearAll() {
	was := p.Paused()
	clear(p.owners)
	p.changed(was)
}

func (p *Pause) changed(was bool) {
	if now := p.Paused(); now != was && p.bus != nil {
		p.bus.Emit(event.PauseChanged, event.PausePayload{Paused: now})
	}
}

// Paused reports whether any owner holds a pause.
func (p *Pause) Paused() bool {
	return len(p.owners) > 0
}

// Owners returns the current owners, sorted.
func (p *Pause) Owners() []string {
	out := make([]string, 0, len(p.owners))
	for o := range p.owners {
		out = append(out, o)
	}
	sort.Strings(out)
	return out
}

// TimeScale is 0 while paused and 1 otherwise.
func (p *Pause) TimeScale() float64 {
	if p.Paused() {
		return 0
	}
	return 1
}
