package zombie

import (
	"context"
	"math"
	"testing"

	"github.com/samdwyer/zompanion/internal/event"
	"github.com/samdwyer/zompanion/internal/follow"
	"github.com/samdwyer/zompanion/internal/gamedata"
)

type fakeBackpack struct {
	expanded []int
}

func (f *fakeBackpack) ExpandCapacity(amount int) {
	f.expanded = append(f.expanded, amount)
}

func testDefs() *gamedata.ZombieRegistry {
	return gamedata.NewZombieRegistry([]gamedata.ZombieDef{
		{ID: "zombie_monk", DisplayName: "Monk", Buff: gamedata.Buff{Type: gamedata.BuffDiggingLootBonus, Value: 0.25}},
		{ID: "zombie_officer", DisplayName: "Officer", StoryID: "story_officer"},
		{ID: "zombie_worker", DisplayName: "Worker", Buff: gamedata.Buff{Type: gamedata.BuffBackpackCapacity, Value: 2.6}},
	})
}

type testRig struct {
	m        *Manager
	engine   *follow.Engine
	bus      *event.Bus
	backpack *fakeBackpack
	player   *follow.Body
	events   map[event.Type]int
}

func newRig(t *testing.T) *testRig {
	t.Helper()
	r := &testRig{
		engine:   follow.NewEngine(follow.DefaultConfig(), nil),
		bus:      event.NewBus(),
		backpack: &fakeBackpack{},
		player:   &follow.Body{},
		events:   make(map[event.Type]int),
	}
	r.bus.SubscribeAll(func(e event.Event) { r.events[e.Type]++ }, event.ZombieListChanged, event.CodexChanged)
	r.m = NewManager(DefaultConfig(), Deps{
		Definitions: testDefs(),
		Inventory:   r.backpack,
		Engine:      r.engine,
		Bus:         r.bus,
	})
	r.m.SetPlayer(r.player)
	return r
}

func (r *testRig) unlockAll() {
	for _, def := range r.m.defs.All() {
		r.m.UnlockZombieCodex(def.ID)
	}
}

func TestSpawnBlockedUntilCodexUnlocked(t *testing.T) {
	r := newRig(t)
	ctx := context.Background()

	if z := r.m.SpawnByDefinitionID(ctx, "zombie_officer", false, false); z != nil {
		t.Fatalf("spawn with locked codex returned %+v, want nil", z)
	}
	if r.m.CanSpawn("zombie_officer") {
		t.Error("CanSpawn true while codex locked")
	}
	if r.events[event.ZombieListChanged] != 0 {
		t.Errorf("blocked spawn emitted %d list events", r.events[event.ZombieListChanged])
	}

	if !r.m.UnlockZombieCodex("zombie_officer") {
		t.Fatal("first unlock should report new")
	}
	if r.m.UnlockZombieCodex("zombie_officer") {
		t.Error("second unlock should report not new")
	}
	if r.events[event.CodexChanged] != 1 {
		t.Errorf("CodexChanged = %d, want 1", r.events[event.CodexChanged])
	}

	z := r.m.SpawnByDefinitionID(ctx, "zombie_officer", false, false)
	if z == nil {
		t.Fatal("spawn after unlock returned nil")
	}
	if z.ID != 1 || z.State != StateIdle || z.FollowOrder != -1 {
		t.Errorf("spawned %+v, want id 1 idle with no follow order", z)
	}
	if z.UnlockStoryID != "story_officer" {
		t.Errorf("UnlockStoryID = %q, want story_officer", z.UnlockStoryID)
	}
	if r.events[event.ZombieListChanged] != 1 {
		t.Errorf("ZombieListChanged = %d, want 1", r.events[event.ZombieListChanged])
	}
}

func TestSpawnIgnoreCodexUnlock(t *testing.T) {
	r := newRig(t)
	z := r.m.SpawnByDefinitionID(context.Background(), "zombie_monk", false, true)
	if z == nil {
		t.Fatal("spawn ignoring codex returned nil")
	}
	if r.m.IsZombieCodexUnlocked("zombie_monk") {
		t.Error("spawning must not unlock the codex by itself")
	}
}

func TestSpawnInvalidDefinition(t *testing.T) {
	r := newRig(t)
	ctx := context.Background()
	if z := r.m.SpawnZombie(ctx, nil, true, true); z != nil {
		t.Error("nil definition spawned")
	}
	if z := r.m.SpawnZombie(ctx, &gamedata.ZombieDef{}, true, true); z != nil {
		t.Error("definition without id spawned")
	}
	if z := r.m.SpawnByDefinitionID(ctx, "zombie_missing", true, true); z != nil {
		t.Error("unknown definition spawned")
	}
}

func TestSpawnBuffsApplyOnce(t *testing.T) {
	r := newRig(t)
	r.unlockAll()
	ctx := context.Background()

	worker := r.m.SpawnByDefinitionID(ctx, "zombie_worker", false, false)
	if len(r.backpack.expanded) != 1 || r.backpack.expanded[0] != 3 {
		t.Fatalf("backpack expansions = %v, want [3]", r.backpack.expanded)
	}
	if !worker.BuffApplied || worker.AppliedBuff.Type != gamedata.BuffBackpackCapacity {
		t.Errorf("worker buff state = %v %+v", worker.BuffApplied, worker.AppliedBuff)
	}

	r.m.SpawnByDefinitionID(ctx, "zombie_monk", false, false)
	r.m.SpawnByDefinitionID(ctx, "zombie_monk", false, false)
	if got := r.m.Modifiers().DiggingLootBonus(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("digging bonus = %v, want 0.5", got)
	}

	// Re-running the buff on an instance that already has it changes nothing.
	r.m.applySpawnBuff(worker, worker.Definition)
	if len(r.backpack.expanded) != 1 {
		t.Errorf("buff re-applied: %v", r.backpack.expanded)
	}
}

func TestFollowCapacity(t *testing.T) {
	r := newRig(t)
	r.unlockAll()
	ctx := context.Background()

	a := r.m.SpawnByDefinitionID(ctx, "zombie_monk", true, false)
	b := r.m.SpawnByDefinitionID(ctx, "zombie_officer", true, false)
	c := r.m.SpawnByDefinitionID(ctx, "zombie_worker", true, false)

	if a.State != StateFollowing || b.State != StateFollowing {
		t.Fatalf("first two states = %v, %v, want following", a.State, b.State)
	}
	if c.State != StateIdle {
		t.Errorf("third state = %v, want idle (queue full)", c.State)
	}
	if r.m.FollowingCount() != 2 {
		t.Errorf("FollowingCount = %d, want 2", r.m.FollowingCount())
	}
	if r.m.SetFollowState(c.ID, true) {
		t.Error("SetFollowState past capacity should fail")
	}
	if !r.m.SetFollowState(a.ID, true) {
		t.Error("SetFollowState on an already following zombie should succeed")
	}

	if !r.m.SetFollowState(a.ID, false) {
		t.Fatal("unfollow failed")
	}
	if a.State != StateIdle || a.FollowOrder != -1 {
		t.Errorf("unfollowed zombie = %v order %d, want idle -1", a.State, a.FollowOrder)
	}
	if b.FollowOrder != 0 {
		t.Errorf("remaining follower order = %d, want 0", b.FollowOrder)
	}

	if !r.m.SetFollowState(c.ID, true) {
		t.Fatal("follow after a slot freed up failed")
	}
	queue := r.m.FollowQueue()
	if len(queue) != 2 || queue[0] != b || queue[1] != c {
		t.Fatalf("queue = %v, want [officer worker]", ids(queue))
	}
	if c.FollowOrder != 1 {
		t.Errorf("newcomer order = %d, want 1", c.FollowOrder)
	}

	followers := r.engine.Followers()
	if len(followers) != 2 || followers[0] != b.Follower || followers[1] != c.Follower {
		t.Error("engine chain does not match the follow queue")
	}
	if r.engine.Leader() != r.player {
		t.Error("engine leader is not the player")
	}
}

func TestUnfollowIdleIsNoop(t *testing.T) {
	r := newRig(t)
	r.unlockAll()
	z := r.m.SpawnByDefinitionID(context.Background(), "zombie_monk", false, false)
	before := r.events[event.ZombieListChanged]

	if !r.m.SetFollowState(z.ID, false) {
		t.Error("unfollowing an idle zombie should report success")
	}
	if r.events[event.ZombieListChanged] != before {
		t.Error("no-op unfollow emitted an event")
	}
	if r.m.SetFollowState(99, true) {
		t.Error("unknown id should fail")
	}
}

func TestSetWorkState(t *testing.T) {
	r := newRig(t)
	r.unlockAll()
	z := r.m.SpawnByDefinitionID(context.Background(), "zombie_monk", true, false)

	if !r.m.SetWorkState(z.ID, true) {
		t.Fatal("SetWorkState failed")
	}
	if z.State != StateWorking || z.FollowOrder != -1 {
		t.Errorf("state = %v order %d, want working -1", z.State, z.FollowOrder)
	}
	if len(r.engine.Followers()) != 0 {
		t.Error("working zombie is still in the follow chain")
	}

	r.m.SetWorkState(z.ID, false)
	if z.State != StateIdle {
		t.Errorf("state = %v, want idle", z.State)
	}
	if r.m.SetWorkState(42, true) {
		t.Error("unknown id should fail")
	}
}

func TestSpawnPlacementAlternatesSides(t *testing.T) {
	r := newRig(t)
	r.unlockAll()
	ctx := context.Background()

	want := []follow.Vec2{{X: -1.15}, {X: 1.15}, {X: -1.8}}
	for i, id := range []string{"zombie_monk", "zombie_officer", "zombie_worker"} {
		z := r.m.SpawnByDefinitionID(ctx, id, false, false)
		if got := z.Position(); got.Dist(want[i]) > 1e-9 {
			t.Errorf("zombie %d at %v, want %v", i, got, want[i])
		}
	}
}

func TestSpawnPlacementAvoidsBlocked(t *testing.T) {
	r := newRig(t)
	r.unlockAll()
	blocked := func(p follow.Vec2, radius float64) bool { return p.X < 0 }
	r.m.SetBlocked(blocked)

	z := r.m.SpawnByDefinitionID(context.Background(), "zombie_monk", false, false)
	pos := z.Position()
	if blocked(pos, 0) {
		t.Errorf("spawned on a blocked position %v", pos)
	}
	if pos.Dist(r.player.Position) < DefaultPlacementConfig().MinPlayerDistance {
		t.Errorf("spawned too close to the player at %v", pos)
	}
}

func TestSpawnPlacementFallsBackToPreferred(t *testing.T) {
	r := newRig(t)
	r.unlockAll()
	r.m.SetBlocked(func(follow.Vec2, float64) bool { return true })

	z := r.m.SpawnByDefinitionID(context.Background(), "zombie_monk", false, false)
	if got := z.Position(); got.Dist(follow.Vec2{X: -1.15}) > 1e-9 {
		t.Errorf("fully blocked spawn at %v, want preferred point", got)
	}
}

func TestRegroupMovesToPlayer(t *testing.T) {
	r := newRig(t)
	r.unlockAll()
	ctx := context.Background()
	a := r.m.SpawnByDefinitionID(ctx, "zombie_monk", true, false)
	b := r.m.SpawnByDefinitionID(ctx, "zombie_officer", true, false)

	r.player.Position = follow.Vec2{X: 10, Y: 10}
	r.m.Regroup()

	if got := a.Position(); got.Dist(follow.Vec2{X: 8.85, Y: 10}) > 1e-9 {
		t.Errorf("first zombie at %v, want (8.85, 10)", got)
	}
	if got := b.Position(); got.Dist(follow.Vec2{X: 11.15, Y: 10}) > 1e-9 {
		t.Errorf("second zombie at %v, want (11.15, 10)", got)
	}
	if trail := r.engine.Trail(r.player); len(trail) != 1 || trail[0] != r.player.Position {
		t.Errorf("leader trail after regroup = %v", trail)
	}
}

func TestReset(t *testing.T) {
	r := newRig(t)
	r.unlockAll()
	r.m.UnlockStory("story_officer")
	r.m.SpawnByDefinitionID(context.Background(), "zombie_monk", true, false)

	r.m.Reset()

	if len(r.m.Zombies()) != 0 {
		t.Errorf("zombies after reset = %d", len(r.m.Zombies()))
	}
	if r.m.IsZombieCodexUnlocked("zombie_monk") || r.m.IsStoryUnlocked("story_officer") {
		t.Error("codex survived reset")
	}
	if r.m.Modifiers().DiggingLootBonus() != 0 {
		t.Error("modifiers survived reset")
	}
	if len(r.engine.Followers()) != 0 {
		t.Error("follow chain survived reset")
	}

	r.unlockAll()
	z := r.m.SpawnByDefinitionID(context.Background(), "zombie_monk", false, false)
	if z.ID != 1 {
		t.Errorf("first id after reset = %d, want 1", z.ID)
	}
}

func ids(zs []*Instance) []int {
	out := make([]int, len(zs))
	for i, z := range zs {
		out[i] = z.ID
	}
	return out
}
