// Package inventory provides the player's slot-based item store.
package inventory

import (
	"github.com/samdwyer/zompanion/internal/gamedata"
)

// DefaultBaseCapacity is the number of slots a fresh inventory starts with.
const DefaultBaseCapacity = 10

// Slot holds an item and a quantity. A slot is empty exactly when Item is nil,
// and an empty slot always has a zero quantity.
type Slot struct {
	Item     *gamedata.ItemDef
	Quantity int
}

// IsEmpty reports whether the slot holds nothing.
func (s Slot) IsEmpty() bool {
	return s.Item == nil
}

// Inventory is an ordered list of slots. Slot positions are stable; the UI
// binds to them by index. Capacity only grows, until Reset.
type Inventory struct {
	baseCapacity  int
	extraCapacity int
	slots         []Slot

	observers  map[int]func()
	nextHandle int
}

// New creates an inventory with baseCapacity empty slots.
func New(baseCapacity int) *Inventory {
	if baseCapacity < 0 {
		baseCapacity = 0
	}
	inv := &Inventory{
		baseCapacity: baseCapacity,
		observers:    make(map[int]func()),
	}
	inv.Initialize()
	return inv
}

// Capacity is the base capacity plus every expansion so far.
func (inv *Inventory) Capacity() int {
	return inv.baseCapacity + inv.extraCapacity
}

// Initialize resizes the slot list to the current capacity, keeping existing
// slots and padding with empty ones. It does nothing when the slot count
// already matches.
func (inv *Inventory) Initialize() {
	capacity := inv.Capacity()
	if len(inv.slots) == capacity {
		return
	}
	slots := make([]Slot, capacity)
	copy(slots, inv.slots)
	inv.slots = slots
}

// OnChanged registers fn to run after every mutation. The returned function
// removes the registration.
func (inv *Inventory) OnChanged(fn func()) (unsubscribe func()) {
	handle := inv.nextHandle
	inv.nextHandle++
	inv.observers[handle] = fn
	return func() { delete(inv.observers, handle) }
}

func (inv *Inventory) notify() {
	for handle := 0; handle < inv.nextHandle; handle++ {
		if fn, ok := inv.observers[handle]; ok {
			fn()
		}
	}
}

// AddItem adds amount units of item. Stackable items first top up existing
// stacks of the same definition, then fill empty slots one stack at a time.
// It returns false if some units did not fit. Units already placed stay
// placed; the operation is not rolled back.
func (inv *Inventory) AddItem(item *gamedata.ItemDef, amount int) bool {
	defer inv.notify()

	if item == nil || amount <= 0 {
		return false
	}

	limit := item.StackLimit()
	if item.Stackable {
		for i := range inv.slots {
			slot := &inv.slots[i]
			if slot.Item != item || slot.Quantity >= limit {
				continue
			}
			add := min(limit-slot.Quantity, amount)
			slot.Quantity += add
			amount -= add
			if amount == 0 {
				return true
			}
		}
	}

	for amount > 0 {
		index := inv.firstEmpty()
		if index < 0 {
			return false
		}
		add := min(limit, amount)
		inv.slots[index] = Slot{Item: item, Quantity: add}
		amount -= add
	}
	return true
}

func (inv *Inventory) firstEmpty() int {
	for i, slot := range inv.slots {
		if slot.IsEmpty() {
			return i
		}
	}
	return -1
}

// RemoveItem clears the first slot holding exactly item, whatever its
// quantity. It does nothing if no slot holds it.
func (inv *Inventory) RemoveItem(item *gamedata.ItemDef) {
	if item == nil {
		return
	}
	for i := range inv.slots {
		if inv.slots[i].Item == item {
			inv.slots[i] = Slot{}
			inv.notify()
			return
		}
	}
}

// RemoveUnits takes up to amount units of item, draining slots from the
// front. It returns how many units were removed.
func (inv *Inventory) RemoveUnits(item *gamedata.ItemDef, amount int) int {
	if item == nil || amount <= 0 {
		return 0
	}
	removed := 0
	for i := range inv.slots {
		if removed == amount {
			break
		}
		slot := &inv.slots[i]
		if slot.Item != item {
			continue
		}
		take := min(slot.Quantity, amount-removed)
		slot.Quantity -= take
		removed += take
		if slot.Quantity == 0 {
			*slot = Slot{}
		}
	}
	if removed > 0 {
		inv.notify()
	}
	return removed
}

// SetItemAt overwrites a slot with a single unit of item, or empties it when
// item is nil. It returns false for an out of range index.
func (inv *Inventory) SetItemAt(index int, item *gamedata.ItemDef) bool {
	if index < 0 || index >= len(inv.slots) {
		return false
	}
	if item == nil {
		inv.slots[index] = Slot{}
	} else {
		inv.slots[index] = Slot{Item: item, Quantity: 1}
	}
	inv.notify()
	return true
}

// TakeOneAt removes a single unit from the slot at index and returns its item.
func (inv *Inventory) TakeOneAt(index int) *gamedata.ItemDef {
	if index < 0 || index >= len(inv.slots) || inv.slots[index].IsEmpty() {
		return nil
	}
	slot := &inv.slots[index]
	item := slot.Item
	slot.Quantity--
	if slot.Quantity <= 0 {
		*slot = Slot{}
	}
	inv.notify()
	return item
}

// ExpandCapacity appends amount empty slots. Non-positive amounts are ignored.
func (inv *Inventory) ExpandCapacity(amount int) {
	if amount <= 0 {
		return
	}
	inv.extraCapacity += amount
	inv.slots = append(inv.slots, make([]Slot, amount)...)
	inv.notify()
}

// ClearAll empties every slot. Capacity is unchanged.
func (inv *Inventory) ClearAll() {
	for i := range inv.slots {
		inv.slots[i] = Slot{}
	}
	inv.notify()
}

// Reset drops every item and every capacity expansion.
func (inv *Inventory) Reset() {
	inv.extraCapacity = 0
	inv.slots = make([]Slot, inv.Capacity())
	inv.notify()
}

// Slot returns the slot at index, or an empty slot when out of range.
func (inv *Inventory) Slot(index int) Slot {
	if index < 0 || index >= len(inv.slots) {
		return Slot{}
	}
	return inv.slots[index]
}

// Slots returns a copy of all slots.
func (inv *Inventory) Slots() []Slot {
	out := make([]Slot, len(inv.slots))
	copy(out, inv.slots)
	return out
}

// CountOf returns the total units of item across all slots.
func (inv *Inventory) CountOf(item *gamedata.ItemDef) int {
	if item == nil {
		return 0
	}
	total := 0
	for _, slot := range inv.slots {
		if slot.Item == item {
			total += slot.Quantity
		}
	}
	return total
}

// CountByName returns the total units of items with the given name.
func (inv *Inventory) CountByName(name string) int {
	total := 0
	for _, slot := range inv.slots {
		if slot.Item != nil && slot.Item.Name == name {
			total += slot.Quantity
		}
	}
	return total
}

// IsFull reports whether no slot is empty.
func (inv *Inventory) IsFull() bool {
	return inv.firstEmpty() < 0
}
