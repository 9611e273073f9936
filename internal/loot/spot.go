// Package loot fills a scene's dig spots from its loot profile and hands
// buried items to the player one dig at a time.
package loot

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/samdwyer/zompanion/internal/gamedata"
	"github.com/samdwyer/zompanion/internal/logger"
)

// Kind is the saveable kind of a dig spot.
const Kind = "dig_spot"

// Outcome is what a single dig produced.
type Outcome int

const (
	// Found moved one item into the inventory.
	Found Outcome = iota
	// Empty means the spot had nothing buried; it is now dug.
	Empty
	// InventoryFull left the item buried for a later dig.
	InventoryFull
	// AlreadyDug means the spot was finished before this dig.
	AlreadyDug
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Empty:
		return "empty"
	case InventoryFull:
		return "inventory_full"
	case AlreadyDug:
		return "already_dug"
	default:
		return "unknown"
	}
}

// DigResult describes one dig.
type DigResult struct {
	Outcome   Outcome
	Item      *gamedata.ItemDef
	Remaining int
	// Exhausted is set when this dig took the last item and the spot is now dug.
	Exhausted bool
}

// Receiver takes dug items. *inventory.Inventory satisfies it.
type Receiver interface {
	AddItem(item *gamedata.ItemDef, amount int) bool
}

// Spot is a dig spot. Scripted spots hold authored items and are skipped by
// Distribute.
type Spot struct {
	ID       string
	Scripted bool

	items   []*gamedata.ItemDef
	dug     bool
	catalog *gamedata.ItemRegistry
	log     logrus.FieldLogger
}

// NewSpot creates an empty spot. catalog resolves item names on restore.
func NewSpot(id string, scripted bool, catalog *gamedata.ItemRegistry, log logrus.FieldLogger) *Spot {
	return &Spot{
		ID:       id,
		Scripted: scripted,
		catalog:  catalog,
		log:      logger.OrDiscard(log),
	}
}

// SetContent replaces the buried items and marks the spot undug. Nil
// entries are dropped.
func (s *Spot) SetContent(items []*gamedata.ItemDef) {
	s.items = make([]*gamedata.ItemDef, 0, len(items))
	for _, item := range items {
		if item != nil {
			s.items = append(s.items, item)
		}
	}
	s.dug = false
}

// AddContent buries one more item. Nil is ignored.
func (s *Spot) AddContent(item *gamedata.ItemDef) {
	if item == nil {
		return
	}
	s.items = append(s.items, item)
}

// Items returns a copy of the buried items in dig order.
func (s *Spot) Items() []*gamedata.ItemDef {
	out := make([]*gamedata.ItemDef, len(s.items))
	copy(out, s.items)
	return out
}

// Dug reports whether the spot is finished.
func (s *Spot) Dug() bool {
	return s.dug
}

// Interact digs once: the first buried item goes to inv. A spot with
// nothing left is marked dug. If inv has no room the item stays buried.
func (s *Spot) Interact(inv Receiver) DigResult {
	if s.dug {
		return DigResult{Outcome: AlreadyDug}
	}
	if len(s.items) == 0 {
		s.dug = true
		return DigResult{Outcome: Empty, Exhausted: true}
	}

	item := s.items[0]
	if !inv.AddItem(item, 1) {
		return DigResult{Outcome: InventoryFull, Item: item, Remaining: len(s.items)}
	}

	s.items = s.items[1:]
	res := DigResult{Outcome: Found, Item: item, Remaining: len(s.items)}
	if len(s.items) == 0 {
		s.dug = true
		res.Exhausted = true
	}
	return res
}

type spotState struct {
	Items []string `json:"items"`
	Dug   bool     `json:"dug"`
}

// Kind implements scenestate.Saveable.
func (s *Spot) Kind() string {
	return Kind
}

// CaptureState records buried item names in order and whether the spot is dug.
func (s *Spot) CaptureState() (string, error) {
	st := spotState{Items: make([]string, 0, len(s.items)), Dug: s.dug}
	for _, item := range s.items {
		st.Items = append(st.Items, item.Name)
	}
	b, err := json.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("marshal spot state: %w", err)
	}
	return string(b), nil
}

// RestoreState reinstates buried items. Names missing from the catalog are
// skipped with a warning.
func (s *Spot) RestoreState(state string) error {
	var st spotState
	if err := json.Unmarshal([]byte(state), &st); err != nil {
		return fmt.Errorf("unmarshal spot state: %w", err)
	}

	items := make([]*gamedata.ItemDef, 0, len(st.Items))
	for _, name := range st.Items {
		var item *gamedata.ItemDef
		if s.catalog != nil {
			item = s.catalog.Get(name)
		}
		if item == nil {
			s.log.WithFields(logrus.Fields{"item": name, "entity_id": s.ID}).Warn("unknown item in saved spot state, skipped")
			continue
		}
		items = append(items, item)
	}
	s.items = items
	s.dug = st.Dug
	return nil
}
