// Package dialogue runs the Lua conditions and actions attached to dialogue
// triggers, and tracks which one-shot triggers have already fired.
package dialogue

import (
	"fmt"
	"strings"

	"github.com/Shopify/go-lua"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/zompanion/internal/gamedata"
	"github.com/samdwyer/zompanion/internal/logger"
)

// Inventory is the part of the player inventory scripts can see.
type Inventory interface {
	CountByName(name string) int
	AddItem(item *gamedata.ItemDef, amount int) bool
}

// Story tracks unlocked story entries.
type Story interface {
	IsStoryUnlocked(storyID string) bool
	UnlockStory(storyID string) bool
}

// Bridge owns a Lua state exposing game queries to dialogue scripts:
//
//	HasItem(name [, amount=1])   -> bool
//	GiveItem(name [, amount=1])  -> bool
//	IsStoryUnlocked(id)          -> bool
//	UnlockStory(id)              -> bool
//
// Call it only from the simulation thread.
type Bridge struct {
	l     *lua.State
	inv   Inventory
	items *gamedata.ItemRegistry
	story Story
	log   logrus.FieldLogger
}

// NewBridge creates a Lua state and registers the game functions.
func NewBridge(inv Inventory, items *gamedata.ItemRegistry, story Story, log logrus.FieldLogger) *Bridge {
	b := &Bridge{
		l:     lua.NewState(),
		inv:   inv,
		items: items,
		story: story,
		log:   logger.OrDiscard(log),
	}
	lua.OpenLibraries(b.l)

	b.l.Register("HasItem", b.hasItem)
	b.l.Register("GiveItem", b.giveItem)
	b.l.Register("IsStoryUnlocked", b.isStoryUnlocked)
	b.l.Register("UnlockStory", b.unlockStory)
	return b
}

func amountArg(l *lua.State, index int) int {
	return int(lua.OptNumber(l, index, 1))
}

func (b *Bridge) hasItem(l *lua.State) int {
	name := lua.CheckString(l, 1)
	amount := amountArg(l, 2)
	l.PushBoolean(b.inv.CountByName(name) >= amount)
	return 1
}

func (b *Bridge) giveItem(l *lua.State) int {
	name := lua.CheckString(l, 1)
	amount := amountArg(l, 2)

	item := b.items.Get(name)
	if item == nil {
		b.log.WithField("item", name).Warn("GiveItem: unknown item")
		l.PushBoolean(false)
		return 1
	}
	ok := b.inv.AddItem(item, amount)
	if !ok {
		b.log.WithFields(logrus.Fields{"item": name, "amount": amount}).Info("GiveItem: inventory full")
	}
	l.PushBoolean(ok)
	return 1
}

func (b *Bridge) isStoryUnlocked(l *lua.State) int {
	l.PushBoolean(b.story.IsStoryUnlocked(lua.CheckString(l, 1)))
	return 1
}

func (b *Bridge) unlockStory(l *lua.State) int {
	l.PushBoolean(b.story.UnlockStory(lua.CheckString(l, 1)))
	return 1
}

// Eval evaluates a Lua expression for truthiness. An empty condition is true.
func (b *Bridge) Eval(condition string) (bool, error) {
	if strings.TrimSpace(condition) == "" {
		return true, nil
	}
	defer b.l.SetTop(0)

	if err := lua.DoString(b.l, "return "+condition); err != nil {
		return false, fmt.Errorf("eval %q: %w", condition, err)
	}
	if b.l.Top() == 0 {
		return false, nil
	}
	return b.l.ToBoolean(-1), nil
}

// Run executes a Lua chunk for its side effects. An empty script does nothing.
func (b *Bridge) Run(script string) error {
	if strings.TrimSpace(script) == "" {
		return nil
	}
	defer b.l.SetTop(0)

	if err := lua.DoString(b.l, script); err != nil {
		return fmt.Errorf("run script: %w", err)
	}
	return nil
}
