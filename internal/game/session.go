package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/samdwyer/zompanion/internal/savegame"
	"github.com/samdwyer/zompanion/internal/transition"
)

// ErrNoSaveStore is returned by save operations when the session has none.
var ErrNoSaveStore = errors.New("no save store configured")

// StartScene is the scene a new game begins in.
func (c *Context) StartScene() string {
	if c.cfg.StartScene != "" {
		return c.cfg.StartScene
	}
	return c.catalog.Scenes.StartScene()
}

// NewGame wipes every per-session record (scene snapshots, inventory,
// companions, codex, modifiers, pauses) and transitions to the start scene.
func (c *Context) NewGame(ctx context.Context) error {
	if c.transitions.Busy() {
		return fmt.Errorf("new game: %w", transition.ErrInProgress)
	}
	c.snapshots.ClearAllStates()
	c.inventory.Reset()
	c.zombies.Reset()
	c.pause.ClearAll()
	c.dialogue = nil
	c.state = StateExplore

	// Nothing from the old session may be captured on the way out.
	c.scene = nil

	c.log.WithField("scene", c.StartScene()).Info("new game")
	return c.transitions.Request(ctx, c.StartScene())
}

// SaveGame writes the current scene to disk.
func (c *Context) SaveGame(ctx context.Context) error {
	if c.saves == nil {
		return ErrNoSaveStore
	}
	if c.scene == nil {
		return fmt.Errorf("save game: %w", ErrNoScene)
	}
	if err := c.saves.Save(ctx, savegame.New(c.scene.Name, time.Now())); err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	c.say("Game saved.")
	return nil
}

// HasSave reports whether a save exists.
func (c *Context) HasSave(ctx context.Context) (bool, error) {
	if c.saves == nil {
		return false, nil
	}
	return c.saves.Exists(ctx)
}

// Continue loads the save and transitions to its scene.
func (c *Context) Continue(ctx context.Context) error {
	if c.saves == nil {
		return ErrNoSaveStore
	}
	data, err := c.saves.Load(ctx)
	if err != nil {
		return fmt.Errorf("continue: %w", err)
	}
	if c.catalog.Scenes.Get(data.SceneName) == nil {
		return fmt.Errorf("continue: save names unknown scene %q: %w", data.SceneName, savegame.ErrInvalidSave)
	}
	c.log.WithFields(logrus.Fields{"scene": data.SceneName, "saved_at": data.Time()}).Info("continuing")
	return c.transitions.Request(ctx, data.SceneName)
}
