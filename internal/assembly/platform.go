// Package assembly implements the assembly platform: three body part slots
// matched against the recipe table to raise a new companion.
package assembly

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/zompanion/internal/gamedata"
	"github.com/samdwyer/zompanion/internal/inventory"
	"github.com/samdwyer/zompanion/internal/logger"
	"github.com/samdwyer/zompanion/internal/telemetry"
	"github.com/samdwyer/zompanion/internal/zombie"
)

// Kind is the saveable kind of a platform's part slots.
const Kind = "assembly_platform"

// Status is the outcome of an assembly attempt.
type Status int

const (
	// Incomplete means at least one part slot was empty. Nothing changed.
	Incomplete Status = iota
	// NoMatch means no recipe uses these parts. The parts stay in place.
	NoMatch
	// Assembled means a companion was raised and the parts were consumed.
	Assembled
	// SpawnFailed means a recipe matched but the spawner refused. The parts
	// stay in place.
	SpawnFailed
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case Incomplete:
		return "incomplete"
	case NoMatch:
		return "no_match"
	case Assembled:
		return "assembled"
	case SpawnFailed:
		return "spawn_failed"
	default:
		return "unknown"
	}
}

// Result describes an assembly attempt.
type Result struct {
	Status Status
	Recipe gamedata.Recipe
	Zombie *zombie.Instance
}

// Matched reports whether a recipe matched and spawned.
func (r Result) Matched() bool {
	return r.Status == Assembled
}

// Spawner raises a companion.
type Spawner interface {
	SpawnZombie(ctx context.Context, def *gamedata.ZombieDef, autoFollow, ignoreCodexUnlock bool) *zombie.Instance
}

// Codex records unlocked zombie types.
type Codex interface {
	UnlockZombie(definitionID string) bool
}

// Parts are the three slots of a platform.
type Parts struct {
	Torso *gamedata.ItemDef
	Arm   *gamedata.ItemDef
	Leg   *gamedata.ItemDef
}

// Complete reports whether every slot is filled.
func (p Parts) Complete() bool {
	return p.Torso != nil && p.Arm != nil && p.Leg != nil
}

// Platform is a scene's assembly station.
type Platform struct {
	ID string

	recipes *gamedata.RecipeBook
	items   *gamedata.ItemRegistry
	spawner Spawner
	codex   Codex
	log     logrus.FieldLogger
	parts   Parts
}

// NewPlatform creates an empty platform. items resolves part names when
// restoring state and may be nil if the platform is never restored.
func NewPlatform(id string, recipes *gamedata.RecipeBook, items *gamedata.ItemRegistry, spawner Spawner, codex Codex, log logrus.FieldLogger) *Platform {
	return &Platform{
		ID:      id,
		recipes: recipes,
		items:   items,
		spawner: spawner,
		codex:   codex,
		log:     logger.OrDiscard(log),
	}
}

// Parts returns the current part slots.
func (p *Platform) Parts() Parts {
	return p.parts
}

func (p *Platform) slot(t gamedata.ItemType) **gamedata.ItemDef {
	switch t {
	case gamedata.ItemTorso:
		return &p.parts.Torso
	case gamedata.ItemArm:
		return &p.parts.Arm
	case gamedata.ItemLeg:
		return &p.parts.Leg
	default:
		return nil
	}
}

// InsertPart places item in the slot for its type, replacing whatever was
// there. Items that are not torso, arm or leg are rejected.
func (p *Platform) InsertPart(item *gamedata.ItemDef) bool {
	if item == nil {
		return false
	}
	slot := p.slot(item.Type)
	if slot == nil {
		return false
	}
	*slot = item
	return true
}

// InsertFromInventory moves one unit from inventory slot index onto the
// platform. A part already occupying the target slot goes back into the
// inventory, into the vacated slot when it emptied. If the displaced part
// cannot be stored the move is undone and false is returned.
func (p *Platform) InsertFromInventory(inv *inventory.Inventory, index int) bool {
	item := inv.Slot(index).Item
	if item == nil {
		return false
	}
	slot := p.slot(item.Type)
	if slot == nil {
		return false
	}

	taken := inv.TakeOneAt(index)
	previous := *slot
	*slot = taken
	if previous == nil {
		return true
	}

	var stored bool
	if inv.Slot(index).IsEmpty() {
		stored = inv.SetItemAt(index, previous)
	} else {
		stored = inv.AddItem(previous, 1)
	}
	if stored {
		return true
	}

	*slot = previous
	inv.AddItem(taken, 1)
	p.log.WithField("item", previous.Name).Info("no room to swap part back into inventory")
	return false
}

// ClearPlatform empties every slot. The parts are discarded.
func (p *Platform) ClearPlatform() {
	p.parts = Parts{}
}

// ReturnParts moves every inserted part back into inv and clears the slots
// that fit. Parts that did not fit stay on the platform.
func (p *Platform) ReturnParts(inv *inventory.Inventory) {
	for _, slot := range []**gamedata.ItemDef{&p.parts.Torso, &p.parts.Arm, &p.parts.Leg} {
		if *slot == nil {
			continue
		}
		if inv.AddItem(*slot, 1) {
			*slot = nil
		}
	}
}

// Assemble matches the inserted parts against the recipe table. The first
// matching recipe wins. On a match the result spawns beside the player, its
// codex entry unlocks and the parts are consumed.
func (p *Platform) Assemble(ctx context.Context) Result {
	tracer := telemetry.Tracer("assembly")
	ctx, span := tracer.Start(ctx, "assembly.assemble")
	defer span.End()

	span.SetAttributes(attribute.String("assembly.platform", p.ID))

	if !p.parts.Complete() {
		span.SetAttributes(attribute.String("assembly.status", Incomplete.String()))
		return Result{Status: Incomplete}
	}

	recipe, ok := p.recipes.Find(p.parts.Torso, p.parts.Arm, p.parts.Leg)
	if !ok {
		span.SetAttributes(attribute.String("assembly.status", NoMatch.String()))
		p.log.WithFields(logrus.Fields{
			"torso": p.parts.Torso.Name,
			"arm":   p.parts.Arm.Name,
			"leg":   p.parts.Leg.Name,
		}).Info("no recipe matches parts")
		return Result{Status: NoMatch}
	}

	z := p.spawner.SpawnZombie(ctx, recipe.Result, false, true)
	if z == nil {
		span.SetAttributes(attribute.String("assembly.status", SpawnFailed.String()))
		p.log.WithField("zombie", recipe.Result.ID).Warn("recipe matched but spawn failed")
		return Result{Status: SpawnFailed, Recipe: recipe}
	}

	p.codex.UnlockZombie(recipe.Result.ID)
	p.ClearPlatform()

	span.SetAttributes(
		attribute.String("assembly.status", Assembled.String()),
		attribute.String("assembly.zombie", recipe.Result.ID),
	)
	return Result{Status: Assembled, Recipe: recipe, Zombie: z}
}

type platformState struct {
	Torso string `json:"torso,omitempty"`
	Arm   string `json:"arm,omitempty"`
	Leg   string `json:"leg,omitempty"`
}

// Kind implements scenestate.Saveable.
func (p *Platform) Kind() string {
	return Kind
}

// CaptureState records the inserted parts by name.
func (p *Platform) CaptureState() (string, error) {
	st := platformState{
		Torso: nameOf(p.parts.Torso),
		Arm:   nameOf(p.parts.Arm),
		Leg:   nameOf(p.parts.Leg),
	}
	b, err := json.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("marshal platform state: %w", err)
	}
	return string(b), nil
}

// RestoreState reinstates inserted parts. Unknown names leave their slot
// empty.
func (p *Platform) RestoreState(state string) error {
	var st platformState
	if err := json.Unmarshal([]byte(state), &st); err != nil {
		return fmt.Errorf("unmarshal platform state: %w", err)
	}
	p.parts = Parts{
		Torso: p.lookup(st.Torso),
		Arm:   p.lookup(st.Arm),
		Leg:   p.lookup(st.Leg),
	}
	return nil
}

func (p *Platform) lookup(name string) *gamedata.ItemDef {
	if name == "" || p.items == nil {
		return nil
	}
	item := p.items.Get(name)
	if item == nil {
		p.log.WithFields(logrus.Fields{"item": name, "entity_id": p.ID}).Warn("unknown part in saved platform state")
	}
	return item
}

func nameOf(item *gamedata.ItemDef) string {
	if item == nil {
		return ""
	}
	return item.Name
}
