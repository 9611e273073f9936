package inspector

import (
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/zompanion/internal/event"
	"github.com/samdwyer/zompanion/internal/logger"
)

// Source describes the session for each frame. Both functions run on the
// simulation thread, inside the bus dispatch.
type Source struct {
	Scene func() string
	// State returns a JSON-encodable summary attached to every frame. May be nil.
	State func() any
}

// Attach forwards every bus event to the hub as a frame. The returned
// function detaches the feed.
func Attach(bus *event.Bus, hub *Hub, src Source, log logrus.FieldLogger) (detach func()) {
	log = logger.OrDiscard(log)

	return bus.SubscribeAll(func(e event.Event) {
		f := Frame{Kind: e.Type.String(), Payload: e.Payload}
		if src.Scene != nil {
			f.Scene = src.Scene()
		}
		if src.State != nil {
			f.State = src.State()
		}
		if err := hub.Broadcast(f); err != nil {
			log.WithError(err).WithField("event", f.Kind).Warn("inspector frame dropped")
		}
	}, event.All()...)
}
