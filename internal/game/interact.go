package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/samdwyer/zompanion/internal/assembly"
	"github.com/samdwyer/zompanion/internal/event"
	"github.com/samdwyer/zompanion/internal/gamedata"
	"github.com/samdwyer/zompanion/internal/loot"
	"github.com/samdwyer/zompanion/internal/world"
	"github.com/samdwyer/zompanion/internal/zombie"
)

// Reach is how close the player must stand to interact with something.
const Reach = 1.25

const dialoguePauseOwner = "dialogue"

var (
	// ErrNoScene is returned by interactions before any scene is loaded.
	ErrNoScene = errors.New("no scene loaded")
	// ErrNotFound is returned for an unknown spot, trigger or companion.
	ErrNotFound = errors.New("not found")
	// ErrNoPlatform is returned when the scene has no assembly platform.
	ErrNoPlatform = errors.New("scene has no assembly platform")
)

// DigOutcome is a dig result plus the bonus find, if any.
type DigOutcome struct {
	loot.DigResult
	Bonus *gamedata.ItemDef
}

// Interact acts on whatever is closest to the player.
func (c *Context) Interact(ctx context.Context) error {
	if c.scene == nil {
		return ErrNoScene
	}
	target, ok := c.scene.Nearest(c.player.Position(), Reach)
	if !ok {
		c.say("Nothing here.")
		return nil
	}

	switch target.Kind {
	case world.InteractSpot:
		_, err := c.Dig(ctx, target.ID)
		return err
	case world.InteractTrigger:
		_, err := c.Talk(target.ID)
		return err
	case world.InteractPlatform:
		if c.scene.Platform.Parts().Complete() {
			_, err := c.Assemble(ctx)
			return err
		}
		c.say("Platform: %s. Press 1-9 to place a part.", describeParts(c.scene.Platform.Parts()))
	}
	return nil
}

// Dig digs the spot once. When a randomized spot gives up its last item the
// scene's loot profile may grant a bonus find, boosted by digging companions.
func (c *Context) Dig(ctx context.Context, spotID string) (DigOutcome, error) {
	if c.scene == nil {
		return DigOutcome{}, ErrNoScene
	}
	spot := c.scene.Spot(spotID)
	if spot == nil {
		return DigOutcome{}, fmt.Errorf("spot %s: %w", spotID, ErrNotFound)
	}

	out := DigOutcome{DigResult: spot.Interact(c.inventory)}
	if out.Outcome == loot.Found && out.Exhausted && !spot.Scripted {
		profile := c.catalog.Scenes.LootProfile(c.scene.Name)
		if profile != nil {
			chance := c.zombies.Modifiers().ApplyDiggingBonus(profile.BonusDrawChance)
			if bonus := loot.BonusDraw(profile, chance, c.rng); bonus != nil && c.inventory.AddItem(bonus, 1) {
				out.Bonus = bonus
			}
		}
	}

	switch out.Outcome {
	case loot.Found:
		if out.Bonus != nil {
			c.say("Found %s, and %s!", out.Item.Name, out.Bonus.Name)
		} else {
			c.say("Found %s.", out.Item.Name)
		}
	case loot.Empty:
		c.say("Nothing but dirt.")
	case loot.InventoryFull:
		c.say("Your bag is full. The %s stays buried.", out.Item.Name)
	case loot.AlreadyDug:
		c.say("Already dug.")
	}

	payload := event.DigPayload{SpotID: spotID, Result: out.Outcome.String()}
	if out.Item != nil {
		payload.Item = out.Item.Name
	}
	c.bus.Emit(event.DigResolved, payload)
	return out, nil
}

// Talk plays the trigger's conversation if its condition holds. The world
// pauses until the conversation is advanced past its last line.
func (c *Context) Talk(triggerID string) ([]string, error) {
	if c.scene == nil {
		return nil, ErrNoScene
	}
	tp := c.scene.Trigger(triggerID)
	if tp == nil {
		return nil, fmt.Errorf("trigger %s: %w", triggerID, ErrNotFound)
	}

	lines, err := tp.Interact(c.bridge)
	if err != nil {
		c.log.WithField("entity_id", triggerID).WithError(err).Warn("dialogue script failed")
		return nil, err
	}
	if len(lines) == 0 {
		c.say("They have nothing to say.")
		return nil, nil
	}

	c.dialogue = lines
	c.dialogueIndex = 0
	c.state = StateDialogue
	c.pause.RequestPause(dialoguePauseOwner)
	c.bus.Emit(event.DialogueStarted, event.DialoguePayload{
		TriggerID:    triggerID,
		Conversation: tp.Conversation.ID,
		Lines:        lines,
	})
	return lines, nil
}

// DialogueLine returns the line being shown, or "" outside a conversation.
func (c *Context) DialogueLine() string {
	if c.state != StateDialogue || c.dialogueIndex >= len(c.dialogue) {
		return ""
	}
	return c.dialogue[c.dialogueIndex]
}

// AdvanceDialogue moves to the next line and reports whether the
// conversation is still running.
func (c *Context) AdvanceDialogue() bool {
	if c.state != StateDialogue {
		return false
	}
	c.dialogueIndex++
	if c.dialogueIndex < len(c.dialogue) {
		return true
	}
	c.dialogue = nil
	c.dialogueIndex = 0
	c.state = StateExplore
	c.pause.ReleasePause(dialoguePauseOwner)
	return false
}

// InsertPart moves one unit from an inventory slot onto the platform.
func (c *Context) InsertPart(slot int) (bool, error) {
	if c.scene == nil {
		return false, ErrNoScene
	}
	if c.scene.Platform == nil {
		return false, ErrNoPlatform
	}
	item := c.inventory.Slot(slot).Item
	if !c.scene.Platform.InsertFromInventory(c.inventory, slot) {
		if item == nil {
			c.say("That slot is empty.")
		} else {
			c.say("%s does not fit on the platform.", item.Name)
		}
		return false, nil
	}
	c.say("Platform: %s.", describeParts(c.scene.Platform.Parts()))
	return true, nil
}

// Assemble tries to raise a companion from the parts on the platform.
func (c *Context) Assemble(ctx context.Context) (assembly.Result, error) {
	if c.scene == nil {
		return assembly.Result{}, ErrNoScene
	}
	if c.scene.Platform == nil {
		return assembly.Result{}, ErrNoPlatform
	}

	res := c.scene.Platform.Assemble(ctx)
	payload := event.AssemblyPayload{Status: res.Status.String()}
	switch res.Status {
	case assembly.Assembled:
		payload.Zombie = res.Zombie.DefinitionID
		c.say("%s rises from the platform!", res.Zombie.DisplayName)
	case assembly.Incomplete:
		c.say("The platform needs a torso, an arm and a leg.")
	case assembly.NoMatch:
		c.say("Those parts do not fit together.")
	case assembly.SpawnFailed:
		c.say("The body will not rise.")
	}
	c.bus.Emit(event.AssemblyResolved, payload)
	return res, nil
}

// NearestZombie returns the companion closest to the player within reach.
func (c *Context) NearestZombie() (*zombie.Instance, bool) {
	var best *zombie.Instance
	bestDist := Reach
	for _, z := range c.zombies.Zombies() {
		if d := z.Position().Dist(c.player.Position()); d <= bestDist {
			best, bestDist = z, d
		}
	}
	return best, best != nil
}

// ToggleFollow flips a companion between following and idle.
func (c *Context) ToggleFollow(id int) (bool, error) {
	z, ok := c.zombies.Get(id)
	if !ok {
		return false, fmt.Errorf("zombie %d: %w", id, ErrNotFound)
	}
	want := z.State != zombie.StateFollowing
	if !c.zombies.SetFollowState(id, want) {
		c.say("No room in the line; %d companions already follow you.", c.zombies.FollowingCount())
		return false, nil
	}
	if want {
		c.say("%s follows you.", z.DisplayName)
	} else {
		c.say("%s waits here.", z.DisplayName)
	}
	return true, nil
}

// ToggleWork flips a companion between working and idle.
func (c *Context) ToggleWork(id int) (bool, error) {
	z, ok := c.zombies.Get(id)
	if !ok {
		return false, fmt.Errorf("zombie %d: %w", id, ErrNotFound)
	}
	want := z.State != zombie.StateWorking
	if !c.zombies.SetWorkState(id, want) {
		return false, nil
	}
	if want {
		c.say("%s gets to work.", z.DisplayName)
	} else {
		c.say("%s stops working.", z.DisplayName)
	}
	return true, nil
}

// UseExit starts the transition to the exit's target scene.
func (c *Context) UseExit(ctx context.Context, exit world.Exit) error {
	return c.transitions.Request(ctx, exit.Target)
}

func describeParts(p assembly.Parts) string {
	name := func(item *gamedata.ItemDef) string {
		if item == nil {
			return "-"
		}
		return item.Name
	}
	return fmt.Sprintf("torso %s, arm %s, leg %s", name(p.Torso), name(p.Arm), name(p.Leg))
}
