package inventory

import (
	"testing"

	"github.com/samdwyer/zompanion/internal/gamedata"
)

func stackable(name string, max int) *gamedata.ItemDef {
	return &gamedata.ItemDef{Name: name, Type: gamedata.ItemGeneral, Stackable: true, MaxStackSize: max}
}

func single(name string) *gamedata.ItemDef {
	return &gamedata.ItemDef{Name: name, Type: gamedata.ItemTorso}
}

func TestNewInventory(t *testing.T) {
	inv := New(DefaultBaseCapacity)

	if inv.Capacity() != 10 {
		t.Errorf("Capacity() = %d, want 10", inv.Capacity())
	}
	slots := inv.Slots()
	if len(slots) != 10 {
		t.Fatalf("len(Slots()) = %d, want 10", len(slots))
	}
	for i, slot := range slots {
		if !slot.IsEmpty() || slot.Quantity != 0 {
			t.Errorf("slot %d = %+v, want empty", i, slot)
		}
	}
}

func TestAddItemStacksThenSpills(t *testing.T) {
	inv := New(10)
	mud := stackable("Mud", 5)

	if !inv.AddItem(mud, 7) {
		t.Fatal("AddItem(mud, 7) = false, want true")
	}

	if got := inv.Slot(0); got.Item != mud || got.Quantity != 5 {
		t.Errorf("slot 0 = %+v, want mud x5", got)
	}
	if got := inv.Slot(1); got.Item != mud || got.Quantity != 2 {
		t.Errorf("slot 1 = %+v, want mud x2", got)
	}
	for i := 2; i < 10; i++ {
		if !inv.Slot(i).IsEmpty() {
			t.Errorf("slot %d should be empty", i)
		}
	}
}

func TestAddItemTopsUpExistingStacks(t *testing.T) {
	inv := New(3)
	mud := stackable("Mud", 5)
	bone := stackable("Bone", 5)

	inv.AddItem(mud, 3)
	inv.AddItem(bone, 1)
	inv.AddItem(mud, 4)

	if got := inv.Slot(0); got.Item != mud || got.Quantity != 5 {
		t.Errorf("slot 0 = %+v, want mud x5", got)
	}
	if got := inv.Slot(1); got.Item != bone || got.Quantity != 1 {
		t.Errorf("slot 1 = %+v, want bone x1", got)
	}
	if got := inv.Slot(2); got.Item != mud || got.Quantity != 2 {
		t.Errorf("slot 2 = %+v, want mud x2", got)
	}
	if inv.CountOf(mud) != 7 {
		t.Errorf("CountOf(mud) = %d, want 7", inv.CountOf(mud))
	}
}

func TestAddItemNonStackableOnePerSlot(t *testing.T) {
	inv := New(4)
	torso := single("Torso")

	if !inv.AddItem(torso, 3) {
		t.Fatal("AddItem(torso, 3) = false, want true")
	}
	for i := 0; i < 3; i++ {
		if got := inv.Slot(i); got.Item != torso || got.Quantity != 1 {
			t.Errorf("slot %d = %+v, want torso x1", i, got)
		}
	}
	if !inv.Slot(3).IsEmpty() {
		t.Error("slot 3 should be empty")
	}
}

func TestAddItemFullInventoryFails(t *testing.T) {
	inv := New(10)
	for i := 0; i < 10; i++ {
		inv.AddItem(single("Part"), 1)
	}

	if inv.AddItem(single("Extra"), 1) {
		t.Error("AddItem on a full inventory = true, want false")
	}
	if len(inv.Slots()) != 10 {
		t.Errorf("len(Slots()) = %d, want 10", len(inv.Slots()))
	}
	if inv.Capacity() != 10 {
		t.Errorf("Capacity() = %d, want 10", inv.Capacity())
	}
}

func TestAddItemPartialIsNotRolledBack(t *testing.T) {
	inv := New(2)
	mud := stackable("Mud", 5)
	inv.AddItem(mud, 4)

	// 1 tops up slot 0, 5 fill slot 1, 2 do not fit.
	if inv.AddItem(mud, 8) {
		t.Error("AddItem(mud, 8) = true, want false")
	}
	if inv.CountOf(mud) != 10 {
		t.Errorf("CountOf(mud) = %d, want 10 (partial placement kept)", inv.CountOf(mud))
	}
}

func TestAddItemInvalidInput(t *testing.T) {
	inv := New(2)
	notified := 0
	inv.OnChanged(func() { notified++ })

	if inv.AddItem(nil, 1) {
		t.Error("AddItem(nil, 1) = true, want false")
	}
	if inv.AddItem(stackable("Mud", 5), 0) {
		t.Error("AddItem(mud, 0) = true, want false")
	}
	if !inv.Slot(0).IsEmpty() {
		t.Error("invalid AddItem mutated the inventory")
	}
	if notified != 2 {
		t.Errorf("notifications = %d, want 2", notified)
	}
}

func TestAddItemAlwaysNotifies(t *testing.T) {
	inv := New(1)
	notified := 0
	inv.OnChanged(func() { notified++ })

	inv.AddItem(single("A"), 1)
	inv.AddItem(single("B"), 1)

	if notified != 2 {
		t.Errorf("notifications = %d, want 2 (success and failure)", notified)
	}
}

func TestExpandCapacity(t *testing.T) {
	inv := New(10)
	for i := 0; i < 10; i++ {
		inv.AddItem(single("Part"), 1)
	}

	inv.ExpandCapacity(3)

	if inv.Capacity() != 13 {
		t.Errorf("Capacity() = %d, want 13", inv.Capacity())
	}
	slots := inv.Slots()
	if len(slots) != 13 {
		t.Fatalf("len(Slots()) = %d, want 13", len(slots))
	}
	for i := 10; i < 13; i++ {
		if !slots[i].IsEmpty() {
			t.Errorf("appended slot %d should be empty", i)
		}
	}
	for i := 0; i < 10; i++ {
		if slots[i].IsEmpty() {
			t.Errorf("existing slot %d was cleared", i)
		}
	}

	inv.ExpandCapacity(0)
	inv.ExpandCapacity(-2)
	if inv.Capacity() != 13 {
		t.Errorf("Capacity() after non-positive expand = %d, want 13", inv.Capacity())
	}
}

func TestRemoveItem(t *testing.T) {
	inv := New(3)
	mud := stackable("Mud", 5)
	bone := stackable("Bone", 5)
	inv.AddItem(bone, 1)
	inv.AddItem(mud, 4)

	inv.RemoveItem(mud)
	if !inv.Slot(1).IsEmpty() {
		t.Error("RemoveItem should clear the whole slot")
	}
	if inv.Slot(0).Item != bone {
		t.Error("RemoveItem touched the wrong slot")
	}

	inv.RemoveItem(mud)
	inv.RemoveItem(nil)
}

func TestRemoveUnits(t *testing.T) {
	inv := New(3)
	mud := stackable("Mud", 5)
	inv.AddItem(mud, 7)

	if got := inv.RemoveUnits(mud, 6); got != 6 {
		t.Errorf("RemoveUnits(mud, 6) = %d, want 6", got)
	}
	if inv.CountOf(mud) != 1 {
		t.Errorf("CountOf(mud) = %d, want 1", inv.CountOf(mud))
	}
	if !inv.Slot(0).IsEmpty() {
		t.Error("drained slot should be empty")
	}
	if got := inv.RemoveUnits(mud, 5); got != 1 {
		t.Errorf("RemoveUnits(mud, 5) = %d, want 1", got)
	}
}

func TestSetItemAt(t *testing.T) {
	inv := New(2)
	torso := single("Torso")
	notified := 0
	inv.OnChanged(func() { notified++ })

	if !inv.SetItemAt(1, torso) {
		t.Fatal("SetItemAt(1) = false, want true")
	}
	if got := inv.Slot(1); got.Item != torso || got.Quantity != 1 {
		t.Errorf("slot 1 = %+v, want torso x1", got)
	}
	if !inv.SetItemAt(1, nil) || !inv.Slot(1).IsEmpty() {
		t.Error("SetItemAt(1, nil) should empty the slot")
	}
	if inv.SetItemAt(5, torso) || inv.SetItemAt(-1, torso) {
		t.Error("SetItemAt out of range should return false")
	}
	if notified != 2 {
		t.Errorf("notifications = %d, want 2", notified)
	}
}

func TestTakeOneAt(t *testing.T) {
	inv := New(2)
	mud := stackable("Mud", 5)
	inv.AddItem(mud, 2)

	if inv.TakeOneAt(0) != mud || inv.Slot(0).Quantity != 1 {
		t.Error("TakeOneAt should remove one unit")
	}
	if inv.TakeOneAt(0) != mud || !inv.Slot(0).IsEmpty() {
		t.Error("TakeOneAt on the last unit should empty the slot")
	}
	if inv.TakeOneAt(0) != nil {
		t.Error("TakeOneAt on an empty slot should return nil")
	}
}

func TestClearAllKeepsCapacity(t *testing.T) {
	inv := New(2)
	inv.ExpandCapacity(1)
	inv.AddItem(stackable("Mud", 5), 12)

	inv.ClearAll()

	if inv.Capacity() != 3 {
		t.Errorf("Capacity() = %d, want 3", inv.Capacity())
	}
	for i, slot := range inv.Slots() {
		if !slot.IsEmpty() {
			t.Errorf("slot %d not cleared", i)
		}
	}
}

func TestInitializeIdempotent(t *testing.T) {
	inv := New(2)
	mud := stackable("Mud", 5)
	inv.AddItem(mud, 1)

	inv.Initialize()
	if inv.CountOf(mud) != 1 {
		t.Error("Initialize with a matching slot count should not clear slots")
	}
}

func TestOnChangedUnsubscribe(t *testing.T) {
	inv := New(2)
	calls := 0
	unsubscribe := inv.OnChanged(func() { calls++ })

	inv.ClearAll()
	unsubscribe()
	inv.ClearAll()

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCountByName(t *testing.T) {
	inv := New(3)
	inv.AddItem(stackable("Mud", 5), 3)
	inv.AddItem(stackable("Mud", 5), 2) // distinct definition, same name

	if got := inv.CountByName("Mud"); got != 5 {
		t.Errorf("CountByName(Mud) = %d, want 5", got)
	}
	if inv.IsFull() {
		t.Error("IsFull() = true, want false")
	}
}

func TestReset(t *testing.T) {
	inv := New(2)
	inv.ExpandCapacity(3)
	inv.AddItem(stackable("Mud", 5), 4)

	inv.Reset()
	if inv.Capacity() != 2 || len(inv.Slots()) != 2 {
		t.Errorf("capacity = %d slots = %d, want 2", inv.Capacity(), len(inv.Slots()))
	}
	if inv.CountByName("Mud") != 0 {
		t.Error("Reset kept items")
	}
}
