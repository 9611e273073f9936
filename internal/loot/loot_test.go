package loot

import (
	"context"
	"math/rand"
	"testing"

	"github.com/samdwyer/zompanion/internal/gamedata"
	"github.com/samdwyer/zompanion/internal/inventory"
	"github.com/samdwyer/zompanion/internal/logger"
)

var (
	itemA = &gamedata.ItemDef{Name: "A"}
	itemB = &gamedata.ItemDef{Name: "B"}
	itemC = &gamedata.ItemDef{Name: "C"}
)

func makeSpots(n int) []*Spot {
	spots := make([]*Spot, n)
	for i := range spots {
		spots[i] = NewSpot("spot", false, nil, logger.Discard())
	}
	return spots
}

func tally(spots []*Spot) map[*gamedata.ItemDef]int {
	counts := make(map[*gamedata.ItemDef]int)
	for _, s := range spots {
		for _, item := range s.Items() {
			counts[item]++
		}
	}
	return counts
}

func TestDistributeGuaranteedPlusFiller(t *testing.T) {
	profile := &gamedata.LootProfile{
		Guaranteed: []gamedata.LootEntry{{Item: itemA, Count: 2}},
		FillerPool: []*gamedata.ItemDef{itemB},
	}

	for seed := int64(1); seed <= 20; seed++ {
		spots := makeSpots(5)
		n := Distribute(context.Background(), profile, spots, rand.New(rand.NewSource(seed)))
		if n != 5 {
			t.Fatalf("seed %d: dealt %d, want 5", seed, n)
		}
		counts := tally(spots)
		if counts[itemA] != 2 || counts[itemB] != 3 {
			t.Errorf("seed %d: counts A=%d B=%d, want 2 and 3", seed, counts[itemA], counts[itemB])
		}
		for i, s := range spots {
			if len(s.Items()) != 1 {
				t.Errorf("seed %d: spot %d holds %d items, want 1", seed, i, len(s.Items()))
			}
		}
	}
}

func TestDistributeFallback(t *testing.T) {
	profile := &gamedata.LootProfile{Fallback: itemC}
	spots := makeSpots(3)
	n := Distribute(context.Background(), profile, spots, rand.New(rand.NewSource(1)))
	if n != 3 || tally(spots)[itemC] != 3 {
		t.Errorf("dealt %d, counts %v, want three fallback items", n, tally(spots))
	}
}

func TestDistributeNoFillerLeavesShortfall(t *testing.T) {
	profile := &gamedata.LootProfile{Guaranteed: []gamedata.LootEntry{{Item: itemA, Count: 1}}}
	spots := makeSpots(4)
	Distribute(context.Background(), profile, spots, rand.New(rand.NewSource(3)))

	empty := 0
	for _, s := range spots {
		if len(s.Items()) == 0 {
			empty++
		}
	}
	if empty != 3 {
		t.Errorf("empty spots = %d, want 3", empty)
	}
}

func TestDistributeMoreItemsThanSpots(t *testing.T) {
	profile := &gamedata.LootProfile{
		Guaranteed: []gamedata.LootEntry{{Item: itemA, Count: 3}, {Item: itemB, Count: 2}},
		FillerPool: []*gamedata.ItemDef{itemC},
	}
	spots := makeSpots(2)
	Distribute(context.Background(), profile, spots, rand.New(rand.NewSource(9)))

	if got := len(spots[0].Items()); got != 3 {
		t.Errorf("spot 0 holds %d, want 3", got)
	}
	if got := len(spots[1].Items()); got != 2 {
		t.Errorf("spot 1 holds %d, want 2", got)
	}
	if counts := tally(spots); counts[itemC] != 0 {
		t.Errorf("filler drawn although the deck already covered every spot")
	}
}

func TestDistributeSkipsScriptedAndClears(t *testing.T) {
	scripted := NewSpot("scripted", true, nil, nil)
	scripted.SetContent([]*gamedata.ItemDef{itemC})
	random := NewSpot("random", false, nil, nil)
	random.SetContent([]*gamedata.ItemDef{itemC, itemC})

	profile := &gamedata.LootProfile{Guaranteed: []gamedata.LootEntry{{Item: itemA, Count: 1}}}
	Distribute(context.Background(), profile, []*Spot{scripted, random}, rand.New(rand.NewSource(1)))

	if items := scripted.Items(); len(items) != 1 || items[0] != itemC {
		t.Errorf("scripted spot changed: %v", items)
	}
	if items := random.Items(); len(items) != 1 || items[0] != itemA {
		t.Errorf("random spot = %v, want only A", items)
	}
}

func TestShuffleDeterministic(t *testing.T) {
	deck := func() []*gamedata.ItemDef {
		return []*gamedata.ItemDef{itemA, itemB, itemC, itemA, itemB, itemC}
	}
	d1, d2 := deck(), deck()
	Shuffle(d1, rand.New(rand.NewSource(42)))
	Shuffle(d2, rand.New(rand.NewSource(42)))
	for i := range d1 {
		if d1[i] != d2[i] {
			t.Fatalf("same seed produced different orders at %d", i)
		}
	}
}

func TestSpotInteract(t *testing.T) {
	inv := inventory.New(2)
	s := NewSpot("s", false, nil, nil)
	s.SetContent([]*gamedata.ItemDef{itemA, nil, itemB})

	res := s.Interact(inv)
	if res.Outcome != Found || res.Item != itemA || res.Remaining != 1 || res.Exhausted {
		t.Fatalf("first dig = %+v", res)
	}
	res = s.Interact(inv)
	if res.Outcome != Found || res.Item != itemB || !res.Exhausted || !s.Dug() {
		t.Fatalf("second dig = %+v", res)
	}
	if res := s.Interact(inv); res.Outcome != AlreadyDug {
		t.Errorf("third dig = %v, want already_dug", res.Outcome)
	}
	if inv.CountOf(itemA) != 1 || inv.CountOf(itemB) != 1 {
		t.Error("dug items missing from inventory")
	}
}

func TestSpotInteractEmptyAndFull(t *testing.T) {
	empty := NewSpot("e", false, nil, nil)
	if res := empty.Interact(inventory.New(1)); res.Outcome != Empty || !empty.Dug() {
		t.Errorf("empty dig = %+v dug=%v", res, empty.Dug())
	}

	full := inventory.New(1)
	full.AddItem(itemC, 1)
	s := NewSpot("f", false, nil, nil)
	s.AddContent(itemA)
	if res := s.Interact(full); res.Outcome != InventoryFull || res.Remaining != 1 {
		t.Errorf("full dig = %+v", res)
	}
	if s.Dug() || len(s.Items()) != 1 {
		t.Error("item lost when the inventory was full")
	}
}

func TestSpotStateRoundTrip(t *testing.T) {
	catalog := gamedata.NewItemRegistry([]gamedata.ItemDef{{Name: "Mud"}, {Name: "Bone"}})
	mud, bone := catalog.Get("Mud"), catalog.Get("Bone")

	s := NewSpot("s", false, catalog, nil)
	s.SetContent([]*gamedata.ItemDef{mud, bone, mud})
	s.Interact(inventory.New(3))

	state, err := s.CaptureState()
	if err != nil {
		t.Fatalf("CaptureState: %v", err)
	}
	if want := `{"items":["Bone","Mud"],"dug":false}`; state != want {
		t.Errorf("state = %s, want %s", state, want)
	}

	restored := NewSpot("s", false, catalog, nil)
	if err := restored.RestoreState(state); err != nil {
		t.Fatalf("RestoreState: %v", err)
	}
	again, _ := restored.CaptureState()
	if again != state {
		t.Errorf("restored state = %s, want %s", again, state)
	}

	if err := restored.RestoreState(`{"items":["Bone","Ghost"],"dug":true}`); err != nil {
		t.Fatalf("RestoreState unknown: %v", err)
	}
	if items := restored.Items(); len(items) != 1 || items[0] != bone || !restored.Dug() {
		t.Errorf("unknown name not skipped: %v dug=%v", items, restored.Dug())
	}
}

func TestBonusDraw(t *testing.T) {
	profile := &gamedata.LootProfile{FillerPool: []*gamedata.ItemDef{itemB}}
	rng := rand.New(rand.NewSource(5))

	if got := BonusDraw(profile, 0, rng); got != nil {
		t.Errorf("zero chance drew %v", got)
	}
	if got := BonusDraw(profile, 1, rng); got != itemB {
		t.Errorf("certain chance drew %v, want B", got)
	}
	if got := BonusDraw(&gamedata.LootProfile{}, 1, rng); got != nil {
		t.Errorf("empty profile drew %v", got)
	}
	if got := BonusDraw(&gamedata.LootProfile{Fallback: itemC}, 1, rng); got != itemC {
		t.Errorf("fallback-only profile drew %v, want C", got)
	}
}
