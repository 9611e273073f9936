package dialogue

import (
	"testing"

	"github.com/samdwyer/zompanion/internal/gamedata"
	"github.com/samdwyer/zompanion/internal/inventory"
	"github.com/samdwyer/zompanion/internal/zombie"
)

func newTestBridge(t *testing.T) (*Bridge, *inventory.Inventory, *zombie.Codex, *gamedata.ItemRegistry) {
	t.Helper()
	items := gamedata.NewItemRegistry([]gamedata.ItemDef{
		{Name: "Temple Key", Type: gamedata.ItemStoryProp},
		{Name: "Prayer Beads", Stackable: true, MaxStackSize: 5},
	})
	inv := inventory.New(4)
	codex := zombie.NewCodex()
	return NewBridge(inv, items, codex, nil), inv, codex, items
}

func TestEval(t *testing.T) {
	b, inv, codex, items := newTestBridge(t)
	inv.AddItem(items.Get("Prayer Beads"), 2)
	codex.UnlockStory("story_abbot")

	tests := []struct {
		cond string
		want bool
	}{
		{"", true},
		{"   ", true},
		{`HasItem("Prayer Beads")`, true},
		{`HasItem("Prayer Beads", 2)`, true},
		{`HasItem("Prayer Beads", 3)`, false},
		{`HasItem("Temple Key", 1)`, false},
		{`IsStoryUnlocked("story_abbot")`, true},
		{`not IsStoryUnlocked("story_keeper_key")`, true},
		{`HasItem("Prayer Beads") and IsStoryUnlocked("story_abbot")`, true},
		{"nil", false},
		{"1 + 1 == 2", true},
	}
	for _, tt := range tests {
		got, err := b.Eval(tt.cond)
		if err != nil {
			t.Errorf("Eval(%q): %v", tt.cond, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Eval(%q) = %v, want %v", tt.cond, got, tt.want)
		}
	}
}

func TestEvalSyntaxError(t *testing.T) {
	b, _, _, _ := newTestBridge(t)
	if _, err := b.Eval("HasItem(("); err == nil {
		t.Error("malformed condition did not fail")
	}
	// The state stays usable after an error.
	if ok, err := b.Eval("true"); err != nil || !ok {
		t.Errorf("Eval after error = %v, %v", ok, err)
	}
}

func TestRunGivesItemsAndUnlocks(t *testing.T) {
	b, inv, codex, _ := newTestBridge(t)

	if err := b.Run(`GiveItem("Prayer Beads", 3) UnlockStory("story_abbot")`); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := inv.CountByName("Prayer Beads"); got != 3 {
		t.Errorf("beads = %d, want 3", got)
	}
	if !codex.IsStoryUnlocked("story_abbot") {
		t.Error("story not unlocked")
	}

	if err := b.Run(`assert(GiveItem("Nothing") == false)`); err != nil {
		t.Errorf("unknown item: %v", err)
	}
	if err := b.Run(""); err != nil {
		t.Errorf("empty script: %v", err)
	}
	if err := b.Run(`error("boom")`); err == nil {
		t.Error("runtime error not reported")
	}
}

func newTrigger(cond, action string, once bool) *Trigger {
	def := gamedata.TriggerDef{ID: "graveyard.keeper", Conversation: "keeper_intro", Condition: cond, Action: action, Once: once}
	conv := gamedata.Conversation{ID: "keeper_intro", Lines: []string{"Keeper: Dig."}}
	return NewTrigger(def, conv, nil)
}

func TestTriggerInteract(t *testing.T) {
	b, inv, codex, items := newTestBridge(t)
	trig := newTrigger(`HasItem("Temple Key")`, `UnlockStory("story_keeper_key")`, true)

	lines, err := trig.Interact(b)
	if err != nil || lines != nil {
		t.Fatalf("unmet condition fired: %v, %v", lines, err)
	}
	if !trig.Enabled {
		t.Fatal("unmet condition disabled the trigger")
	}

	inv.AddItem(items.Get("Temple Key"), 1)
	lines, err = trig.Interact(b)
	if err != nil || len(lines) != 1 {
		t.Fatalf("Interact = %v, %v", lines, err)
	}
	if !codex.IsStoryUnlocked("story_keeper_key") {
		t.Error("action did not run")
	}
	if trig.Enabled {
		t.Error("once trigger still enabled")
	}
	if lines, _ := trig.Interact(b); lines != nil {
		t.Error("once trigger fired twice")
	}
}

func TestTriggerRepeatable(t *testing.T) {
	b, _, _, _ := newTestBridge(t)
	trig := newTrigger("", "", false)
	for i := 0; i < 3; i++ {
		if lines, err := trig.Interact(b); err != nil || lines == nil {
			t.Fatalf("interaction %d = %v, %v", i, lines, err)
		}
	}

	trig.Active = false
	if lines, _ := trig.Interact(b); lines != nil {
		t.Error("inactive trigger fired")
	}
}

func TestTriggerConditionError(t *testing.T) {
	b, _, _, _ := newTestBridge(t)
	trig := newTrigger("HasItem((", "", true)
	if _, err := trig.Interact(b); err == nil {
		t.Error("bad condition did not fail")
	}
	if !trig.Enabled {
		t.Error("failed condition disabled the trigger")
	}
}

func TestTriggerState(t *testing.T) {
	trig := newTrigger("", "", true)
	trig.Enabled = false

	state, err := trig.CaptureState()
	if err != nil {
		t.Fatalf("CaptureState: %v", err)
	}
	if want := `{"triggerEnabled":[false],"gameObjectActive":true}`; state != want {
		t.Errorf("state = %s, want %s", state, want)
	}

	fresh := newTrigger("", "", true)
	if err := fresh.RestoreState(state); err != nil {
		t.Fatalf("RestoreState: %v", err)
	}
	if fresh.Enabled || !fresh.Active {
		t.Errorf("restored enabled=%v active=%v", fresh.Enabled, fresh.Active)
	}

	if err := fresh.RestoreState(`{"triggerEnabled":[],"gameObjectActive":false}`); err != nil {
		t.Fatalf("RestoreState empty: %v", err)
	}
	if fresh.Enabled || fresh.Active {
		t.Error("empty enabled list changed Enabled or Active not restored")
	}
	if err := fresh.RestoreState("{"); err == nil {
		t.Error("malformed state accepted")
	}
}
