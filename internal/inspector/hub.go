// Package inspector streams a live view of the session state to websocket
// clients. Frames are built on the simulation thread; the hub only ever
// hands out already-encoded bytes, so server goroutines never read game state.
package inspector

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// clientBuffer is the number of frames queued per client before new frames
// are dropped for it.
const clientBuffer = 64

// Frame is one message on the feed.
type Frame struct {
	Seq     int64  `json:"seq"`
	Kind    string `json:"kind"`
	Scene   string `json:"scene,omitempty"`
	Payload any    `json:"payload,omitempty"`
	State   any    `json:"state,omitempty"`
}

// Hub fans encoded frames out to registered clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]chan []byte
	last    []byte
	seq     int64
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]chan []byte)}
}

// Register creates a buffered channel for a new client.
func (h *Hub) Register() (string, <-chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan []byte, clientBuffer)
	h.clients[id] = ch
	return id, ch
}

// Unregister closes and removes a client's channel.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.clients[id]; ok {
		close(ch)
		delete(h.clients, id)
	}
}

// Broadcast stamps f with the next sequence number, encodes it and sends it
// to every client. A client whose buffer is full misses the frame.
func (h *Hub) Broadcast(f Frame) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	f.Seq = h.seq
	msg, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode frame %s: %w", f.Kind, err)
	}
	h.last = msg

	for _, ch := range h.clients {
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

// Last returns the most recent frame, or nil before the first broadcast.
func (h *Hub) Last() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.clients {
		close(ch)
		delete(h.clients, id)
	}
}
