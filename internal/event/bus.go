package event

// Handler receives published events.
type Handler func(Event)

type subscription struct {
	handler Handler
	active  bool
}

// Bus dispatches events synchronously, in subscription order, on the
// caller's goroutine. It is meant for the single simulation thread and does
// no locking.
type Bus struct {
	subs map[Type][]*subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Type][]*subscription)}
}

// Subscribe registers handler for events of type t. The returned function
// removes it and may be called from inside a handler.
func (b *Bus) Subscribe(t Type, handler Handler) (unsubscribe func()) {
	sub := &subscription{handler: handler, active: true}
	b.subs[t] = append(b.subs[t], sub)

	return func() {
		if !sub.active {
			return
		}
		sub.active = false
		list := b.subs[t]
		for i, s := range list {
			if s == sub {
				b.subs[t] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

// SubscribeAll registers handler for every type in types and returns a
// single function removing all of them.
func (b *Bus) SubscribeAll(handler Handler, types ...Type) (unsubscribe func()) {
	unsubs := make([]func(), 0, len(types))
	for _, t := range types {
		unsubs = append(unsubs, b.Subscribe(t, handler))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Publish delivers e to every handler subscribed to its type. Handlers
// added during dispatch see the next event, not this one; handlers removed
// during dispatch are skipped if they have not run yet.
func (b *Bus) Publish(e Event) {
	list := b.subs[e.Type]
	if len(list) == 0 {
		return
	}
	snapshot := make([]*subscription, len(list))
	copy(snapshot, list)
	for _, sub := range snapshot {
		if sub.active {
			sub.handler(e)
		}
	}
}

// Emit publishes an event built from t and payload.
func (b *Bus) Emit(t Type, payload any) {
	b.Publish(Event{Type: t, Payload: payload})
}

// Count returns the number of handlers subscribed to t.
func (b *Bus) Count(t Type) int {
	return len(b.subs[t])
}
