package zombie

import (
	"context"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/zompanion/internal/event"
	"github.com/samdwyer/zompanion/internal/follow"
	"github.com/samdwyer/zompanion/internal/gamedata"
	"github.com/samdwyer/zompanion/internal/logger"
	"github.com/samdwyer/zompanion/internal/telemetry"
)

// CapacityExpander is the part of the inventory a backpack buff touches.
type CapacityExpander interface {
	ExpandCapacity(amount int)
}

// Config tunes the manager.
type Config struct {
	MaxFollowCount     int
	RequireCodexUnlock bool
	Placement          PlacementConfig
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		MaxFollowCount:     2,
		RequireCodexUnlock: true,
		Placement:          DefaultPlacementConfig(),
	}
}

// Manager owns every spawned companion for the whole session. It feeds the
// follow engine with the current follow queue.
type Manager struct {
	cfg       Config
	defs      *gamedata.ZombieRegistry
	inventory CapacityExpander
	modifiers *Modifiers
	codex     *Codex
	engine    *follow.Engine
	bus       *event.Bus
	log       logrus.FieldLogger

	zombies []*Instance
	nextID  int
	player  *follow.Body
	blocked func(pos follow.Vec2, radius float64) bool
}

// Deps bundles the collaborators a Manager needs. Inventory, Bus and Log may
// be nil.
type Deps struct {
	Definitions *gamedata.ZombieRegistry
	Inventory   CapacityExpander
	Modifiers   *Modifiers
	Codex       *Codex
	Engine      *follow.Engine
	Bus         *event.Bus
	Log         logrus.FieldLogger
}

// NewManager creates a manager.
func NewManager(cfg Config, deps Deps) *Manager {
	if cfg.MaxFollowCount < 1 {
		cfg.MaxFollowCount = 1
	}
	m := &Manager{
		cfg:       cfg,
		defs:      deps.Definitions,
		inventory: deps.Inventory,
		modifiers: deps.Modifiers,
		codex:     deps.Codex,
		engine:    deps.Engine,
		bus:       deps.Bus,
		log:       logger.OrDiscard(deps.Log),
		nextID:    1,
	}
	if m.modifiers == nil {
		m.modifiers = NewModifiers()
	}
	if m.codex == nil {
		m.codex = NewCodex()
	}
	if m.defs == nil {
		m.defs = gamedata.NewZombieRegistry(nil)
	}
	m.codex.OnChanged(func() { m.emit(event.CodexChanged) })
	return m
}

func (m *Manager) emit(t event.Type) {
	if m.bus != nil {
		m.bus.Emit(t, nil)
	}
}

// Codex returns the codex.
func (m *Manager) Codex() *Codex {
	return m.codex
}

// Modifiers returns the session modifiers.
func (m *Manager) Modifiers() *Modifiers {
	return m.modifiers
}

// SetBlocked installs a predicate reporting whether a spawn position is
// obstructed. A nil predicate treats every position as free.
func (m *Manager) SetBlocked(blocked func(pos follow.Vec2, radius float64) bool) {
	m.blocked = blocked
}

// SetPlayer binds the player body as follow leader and spawn center.
func (m *Manager) SetPlayer(player *follow.Body) {
	m.player = player
	if m.engine != nil && player != nil {
		m.engine.SetLeader(player)
	}
}

// Zombies returns every spawned companion in spawn order.
func (m *Manager) Zombies() []*Instance {
	return m.zombies
}

// Get returns the companion with the given instance id.
func (m *Manager) Get(id int) (*Instance, bool) {
	for _, z := range m.zombies {
		if z.ID == id {
			return z, true
		}
	}
	return nil, false
}

// Definition returns the zombie definition with the given id, or nil.
func (m *Manager) Definition(id string) *gamedata.ZombieDef {
	return m.defs.GetByID(id)
}

// CanSpawn reports whether definitionID exists and is allowed to spawn.
func (m *Manager) CanSpawn(definitionID string) bool {
	def := m.Definition(definitionID)
	if def == nil {
		return false
	}
	return !m.cfg.RequireCodexUnlock || m.codex.IsZombieUnlocked(def.ID)
}

// SpawnZombie creates a companion from def near the player. It returns nil
// when def is invalid or, unless ignoreCodexUnlock is set, when the codex
// entry has not been unlocked yet.
func (m *Manager) SpawnZombie(ctx context.Context, def *gamedata.ZombieDef, autoFollow, ignoreCodexUnlock bool) *Instance {
	tracer := telemetry.Tracer("zombie")
	_, span := tracer.Start(ctx, "zombie.spawn")
	defer span.End()

	if def == nil || def.ID == "" {
		span.SetAttributes(attribute.String("zombie.result", "invalid"))
		return nil
	}
	span.SetAttributes(attribute.String("zombie.definition", def.ID))

	if m.cfg.RequireCodexUnlock && !ignoreCodexUnlock && !m.codex.IsZombieUnlocked(def.ID) {
		m.log.WithField("zombie", def.ID).Warn("spawn blocked: codex entry not unlocked")
		span.SetAttributes(attribute.String("zombie.result", "blocked"))
		return nil
	}

	z := &Instance{
		ID:            m.nextID,
		DefinitionID:  def.ID,
		DisplayName:   def.DisplayName,
		State:         StateIdle,
		FollowOrder:   -1,
		UnlockStoryID: def.StoryID,
		Definition:    def,
	}
	m.nextID++

	pos := m.resolveSpawnPosition(len(m.zombies))
	z.Follower = &follow.Follower{
		Body:     &follow.Body{Position: pos},
		Speed:    def.MoveSpeed(),
		Distance: def.Distance(),
	}
	m.zombies = append(m.zombies, z)

	m.applySpawnBuff(z, def)

	if autoFollow {
		m.SetFollowState(z.ID, true)
	}

	span.SetAttributes(
		attribute.Int("zombie.instance_id", z.ID),
		attribute.Int("zombie.count", len(m.zombies)),
		attribute.String("zombie.result", "spawned"),
	)
	m.log.WithFields(logrus.Fields{
		"zombie":      def.ID,
		"instance_id": z.ID,
	}).Info("zombie spawned")

	m.emit(event.ZombieListChanged)
	return z
}

// SpawnByDefinitionID looks up the definition and spawns it.
func (m *Manager) SpawnByDefinitionID(ctx context.Context, definitionID string, autoFollow, ignoreCodexUnlock bool) *Instance {
	return m.SpawnZombie(ctx, m.Definition(definitionID), autoFollow, ignoreCodexUnlock)
}

func (m *Manager) applySpawnBuff(z *Instance, def *gamedata.ZombieDef) {
	if z.BuffApplied {
		return
	}
	z.AppliedBuff = def.Buff

	switch def.Buff.Type {
	case gamedata.BuffBackpackCapacity:
		if m.inventory != nil && def.Buff.Value > 0 {
			if expand := int(math.Round(def.Buff.Value)); expand > 0 {
				m.inventory.ExpandCapacity(expand)
			}
		}
	case gamedata.BuffDiggingLootBonus:
		if def.Buff.Value > 0 {
			m.modifiers.AddDiggingLootBonus(def.Buff.Value)
		}
	}

	z.BuffApplied = true
}

// SetFollowState starts or stops a companion following the player. Starting
// fails when MaxFollowCount companions already follow. Requests that match
// the current state succeed without change.
func (m *Manager) SetFollowState(id int, following bool) bool {
	z, ok := m.Get(id)
	if !ok {
		return false
	}

	if following {
		if z.State == StateFollowing {
			return true
		}
		if m.FollowingCount() >= m.cfg.MaxFollowCount {
			return false
		}
		z.State = StateFollowing
	} else {
		if z.State != StateFollowing {
			return true
		}
		z.State = StateIdle
		z.FollowOrder = -1
	}

	m.RebuildFollowQueue()
	m.emit(event.ZombieListChanged)
	return true
}

// SetWorkState puts a companion to work, or back to idle. Either way it
// leaves the follow queue.
func (m *Manager) SetWorkState(id int, working bool) bool {
	z, ok := m.Get(id)
	if !ok {
		return false
	}

	if working {
		z.State = StateWorking
	} else {
		z.State = StateIdle
	}
	z.FollowOrder = -1

	m.RebuildFollowQueue()
	m.emit(event.ZombieListChanged)
	return true
}

// FollowingCount returns how many companions are following.
func (m *Manager) FollowingCount() int {
	count := 0
	for _, z := range m.zombies {
		if z.State == StateFollowing {
			count++
		}
	}
	return count
}

// FollowQueue returns following companions ordered by follow order, then
// instance id. Companions without an order yet sort last.
func (m *Manager) FollowQueue() []*Instance {
	var queue []*Instance
	for _, z := range m.zombies {
		if z.State == StateFollowing {
			queue = append(queue, z)
		}
	}
	sort.SliceStable(queue, func(i, j int) bool {
		oi, oj := rank(queue[i].FollowOrder), rank(queue[j].FollowOrder)
		if oi != oj {
			return oi < oj
		}
		return queue[i].ID < queue[j].ID
	})
	if len(queue) > m.cfg.MaxFollowCount {
		queue = queue[:m.cfg.MaxFollowCount]
	}
	return queue
}

func rank(order int) int {
	if order < 0 {
		return math.MaxInt
	}
	return order
}

// RebuildFollowQueue renumbers follow orders and pushes the queue into the
// follow engine behind the player.
func (m *Manager) RebuildFollowQueue() {
	queue := m.FollowQueue()
	followers := make([]*follow.Follower, 0, len(queue))
	for i, z := range queue {
		z.FollowOrder = i
		followers = append(followers, z.Follower)
	}

	if m.engine == nil {
		return
	}
	m.engine.SetFollowers(followers)
	if m.player != nil {
		m.engine.SetLeader(m.player)
	}
}

// UnlockZombieCodex unlocks a codex entry. It returns true if it was new.
func (m *Manager) UnlockZombieCodex(definitionID string) bool {
	return m.codex.UnlockZombie(definitionID)
}

// UnlockStory unlocks a story entry. It returns true if it was new.
func (m *Manager) UnlockStory(storyID string) bool {
	return m.codex.UnlockStory(storyID)
}

// IsZombieCodexUnlocked reports whether a codex entry is unlocked.
func (m *Manager) IsZombieCodexUnlocked(definitionID string) bool {
	return m.codex.IsZombieUnlocked(definitionID)
}

// IsStoryUnlocked reports whether a story entry is unlocked.
func (m *Manager) IsStoryUnlocked(storyID string) bool {
	return m.codex.IsStoryUnlocked(storyID)
}

// Regroup moves every companion to a fresh spawn position around the player.
// Used after the player is placed in a newly loaded scene.
func (m *Manager) Regroup() {
	for i, z := range m.zombies {
		z.Follower.Body.Position = m.resolveSpawnPosition(i)
	}
	if m.engine != nil {
		m.engine.ResetTrails()
	}
}

// Reset removes every companion and clears the codex and modifiers.
func (m *Manager) Reset() {
	m.zombies = nil
	m.nextID = 1
	m.modifiers.Clear()
	m.codex.Reset()
	m.RebuildFollowQueue()
	m.emit(event.ZombieListChanged)
}
