package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/zompanion/internal/config"
	"github.com/samdwyer/zompanion/internal/dialogue"
	"github.com/samdwyer/zompanion/internal/entity"
	"github.com/samdwyer/zompanion/internal/event"
	"github.com/samdwyer/zompanion/internal/follow"
	"github.com/samdwyer/zompanion/internal/gamedata"
	"github.com/samdwyer/zompanion/internal/inventory"
	"github.com/samdwyer/zompanion/internal/logger"
	"github.com/samdwyer/zompanion/internal/loot"
	"github.com/samdwyer/zompanion/internal/savegame"
	"github.com/samdwyer/zompanion/internal/scenestate"
	"github.com/samdwyer/zompanion/internal/telemetry"
	"github.com/samdwyer/zompanion/internal/transition"
	"github.com/samdwyer/zompanion/internal/world"
	"github.com/samdwyer/zompanion/internal/zombie"
)

// Options configures a Context.
type Options struct {
	Config  config.Config
	Catalog *gamedata.Catalog
	// Saves may be nil when the session never saves.
	Saves savegame.Store
	Rand  *rand.Rand
	Log   logrus.FieldLogger
}

// Context owns every long-lived subsystem of a session. It is built once at
// boot and survives scene changes; only the current scene is replaced.
// Everything here runs on the simulation thread.
type Context struct {
	cfg     config.Config
	catalog *gamedata.Catalog
	log     logrus.FieldLogger
	rng     *rand.Rand

	// ctx is the session context handed to scene lifecycle hooks, which the
	// transition manager calls without one.
	ctx context.Context

	bus         *event.Bus
	inventory   *inventory.Inventory
	engine      *follow.Engine
	zombies     *zombie.Manager
	snapshots   *scenestate.Store
	transitions *transition.Manager
	saves       savegame.Store
	bridge      *dialogue.Bridge
	pause       *Pause
	loader      *world.Loader
	player      *entity.Player

	scene   *world.Scene
	pending *world.Operation
	state   State
	message string

	dialogue      []string
	dialogueIndex int
}

// NewContext wires a session together. No scene is loaded yet; call NewGame,
// Continue or LoadScene.
func NewContext(ctx context.Context, opts Options) (*Context, error) {
	if opts.Catalog == nil {
		return nil, errors.New("game context needs a catalog")
	}
	rng := opts.Rand
	if rng == nil {
		seed, err := opts.Config.ResolveSeed()
		if err != nil {
			return nil, err
		}
		rng = rand.New(rand.NewSource(seed))
	}
	log := logger.OrDiscard(opts.Log)

	c := &Context{
		cfg:     opts.Config,
		catalog: opts.Catalog,
		log:     log,
		rng:     rng,
		ctx:     ctx,
		bus:     event.NewBus(),
		saves:   opts.Saves,
		player:  entity.NewPlayer(follow.Vec2{}),
	}

	c.inventory = inventory.New(opts.Config.BaseCapacity)
	c.inventory.OnChanged(func() { c.bus.Emit(event.InventoryChanged, nil) })

	c.engine = follow.NewEngine(opts.Config.FollowEngine(), rng)
	c.zombies = zombie.NewManager(opts.Config.Zombies(), zombie.Deps{
		Definitions: opts.Catalog.Zombies,
		Inventory:   c.inventory,
		Engine:      c.engine,
		Bus:         c.bus,
		Log:         log.WithField("component", "zombie"),
	})
	c.zombies.SetPlayer(c.player.Body)

	c.snapshots = scenestate.NewStore(log.WithField("component", "scenestate"))
	c.bridge = dialogue.NewBridge(c.inventory, opts.Catalog.Items, c.zombies, log.WithField("component", "dialogue"))
	c.pause = NewPause(c.bus)
	c.loader = world.NewLoader(opts.Catalog, c.zombies, c.zombies.Codex(), log.WithField("component", "world"))
	c.transitions = transition.NewManager(opts.Config.Transitions(), sceneLoader{c}, transition.Hooks{
		BeforeUnload: c.beforeUnload,
		AfterLoad:    c.afterLoad,
	}, log.WithField("component", "transition"))

	return c, nil
}

// sceneLoader remembers the operation it starts so the AfterLoad hook can
// collect the built scene.
type sceneLoader struct{ c *Context }

func (l sceneLoader) Load(name string) (transition.Operation, error) {
	op, err := l.c.loader.Start(name)
	if err != nil {
		return nil, err
	}
	l.c.pending = op
	return op, nil
}

// Bus returns the session event bus.
func (c *Context) Bus() *event.Bus { return c.bus }

// Inventory returns the player inventory.
func (c *Context) Inventory() *inventory.Inventory { return c.inventory }

// Zombies returns the companion manager.
func (c *Context) Zombies() *zombie.Manager { return c.zombies }

// Engine returns the follow engine.
func (c *Context) Engine() *follow.Engine { return c.engine }

// Snapshots returns the scene snapshot store.
func (c *Context) Snapshots() *scenestate.Store { return c.snapshots }

// Transitions returns the scene transition manager.
func (c *Context) Transitions() *transition.Manager { return c.transitions }

// Pause returns the pause set.
func (c *Context) Pause() *Pause { return c.pause }

// Player returns the player.
func (c *Context) Player() *entity.Player { return c.player }

// Scene returns the active scene, or nil before the first load.
func (c *Context) Scene() *world.Scene { return c.scene }

// Catalog returns the static game data.
func (c *Context) Catalog() *gamedata.Catalog { return c.catalog }

// State returns the current front-end state.
func (c *Context) State() State {
	if c.transitions.Busy() {
		return StateLoading
	}
	return c.state
}

// Message returns the last status message.
func (c *Context) Message() string { return c.message }

func (c *Context) say(format string, args ...any) {
	c.message = fmt.Sprintf(format, args...)
}

// Close releases the save store.
func (c *Context) Close() error {
	if c.saves == nil {
		return nil
	}
	return c.saves.Close()
}

// LoadScene swaps scenes immediately, without a transition. The current
// scene, if any, is captured first.
func (c *Context) LoadScene(ctx context.Context, name string) error {
	if c.transitions.Busy() {
		return transition.ErrInProgress
	}
	s, err := c.loader.Build(name)
	if err != nil {
		return err
	}
	if c.scene != nil {
		c.beforeUnload(c.scene.Name, name)
	}
	c.transitions.SetCurrent(name)
	c.enterScene(ctx, s)
	return nil
}

func (c *Context) beforeUnload(from, to string) {
	c.bus.Emit(event.SceneUnloading, event.ScenePayload{Name: from})
	if c.scene == nil {
		return
	}
	n := c.snapshots.Capture(c.ctx, from, c.scene.Entities())
	c.scene.ForgetOccupants()
	c.log.WithFields(logrus.Fields{"scene": from, "next": to, "records": n}).Debug("scene captured")
}

func (c *Context) afterLoad(name string) {
	op := c.pending
	c.pending = nil
	if op == nil {
		c.log.WithField("scene", name).Error("scene activated without a pending load")
		return
	}
	s, err := op.Scene()
	if err != nil || s == nil {
		c.log.WithField("scene", name).WithError(err).Error("activated scene unavailable")
		return
	}
	c.enterScene(c.ctx, s)
}

// enterScene binds a freshly built scene: restore its snapshot or roll new
// loot, put the player at the spawn and gather the companions around them.
func (c *Context) enterScene(ctx context.Context, s *world.Scene) {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.enter_scene")
	defer span.End()

	c.scene = s
	span.SetAttributes(attribute.String("scene.name", s.Name))

	if c.snapshots.HasSceneState(s.Name) {
		n := c.snapshots.Restore(ctx, s.Name, s.Entities())
		span.SetAttributes(attribute.Int("scene.restored", n))
	} else if profile := c.catalog.Scenes.LootProfile(s.Name); profile != nil {
		n := loot.Distribute(ctx, profile, s.LootSpots(), c.rng)
		span.SetAttributes(attribute.Int("scene.dealt", n))
	}

	c.player.Place(s.Spawn)
	c.zombies.SetBlocked(s.Blocked)
	c.zombies.SetPlayer(c.player.Body)
	c.zombies.Regroup()
	c.state = StateExplore
	c.say("%s", s.Title)

	s.UpdateOccupant(c.bus, entity.PlayerID, c.player.Position())
	c.bus.Emit(event.SceneLoaded, event.ScenePayload{Name: s.Name})
	c.log.WithField("scene", s.Name).Info("scene loaded")
}

// Tick advances the session by dt seconds of real time. Transitions run on
// unscaled time; the world is frozen while paused or loading.
func (c *Context) Tick(dt float64) {
	c.transitions.Tick(dt)
	if c.scene == nil || c.transitions.Busy() {
		return
	}
	scaled := dt * c.pause.TimeScale()
	if scaled <= 0 {
		return
	}
	c.engine.Tick(scaled)
	for _, z := range c.zombies.Zombies() {
		c.scene.UpdateOccupant(c.bus, zombieEntityID(z), z.Position())
	}
}

func zombieEntityID(z *zombie.Instance) string {
	return fmt.Sprintf("zombie-%d", z.ID)
}

// MovePlayer steps the player by delta. Entering an exit starts a transition.
func (c *Context) MovePlayer(delta follow.Vec2) bool {
	if c.scene == nil || c.transitions.Busy() || c.pause.Paused() {
		return false
	}
	if !c.player.Move(delta, c.scene.Blocked) {
		return false
	}
	c.scene.UpdateOccupant(c.bus, entity.PlayerID, c.player.Position())
	if exit, ok := c.scene.ExitAt(c.player.Position()); ok {
		if err := c.UseExit(c.ctx, exit); err != nil {
			c.log.WithField("exit", exit.ID).WithError(err).Warn("exit failed")
		}
	}
	return true
}

// awaitPending blocks until a started background load finishes building.
func (c *Context) awaitPending() {
	if c.pending != nil {
		c.pending.Wait()
	}
}
