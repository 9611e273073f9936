package inspector

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/samdwyer/zompanion/internal/event"
)

func decode(t *testing.T, msg []byte) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(msg, &out); err != nil {
		t.Fatalf("decode frame %s: %v", msg, err)
	}
	return out
}

func TestHubBroadcastSequencesFrames(t *testing.T) {
	hub := NewHub()
	_, ch := hub.Register()

	if err := hub.Broadcast(Frame{Kind: "a"}); err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}
	if err := hub.Broadcast(Frame{Kind: "b"}); err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}

	first := decode(t, <-ch)
	second := decode(t, <-ch)
	if first["seq"].(float64) != 1 || second["seq"].(float64) != 2 {
		t.Errorf("seq = %v, %v; want 1, 2", first["seq"], second["seq"])
	}
	if got := decode(t, hub.Last())["kind"]; got != "b" {
		t.Errorf("Last() kind = %v, want b", got)
	}
}

func TestHubDropsWhenClientBufferFull(t *testing.T) {
	hub := NewHub()
	_, ch := hub.Register()

	for i := 0; i < clientBuffer+10; i++ {
		if err := hub.Broadcast(Frame{Kind: "tick"}); err != nil {
			t.Fatalf("Broadcast() error = %v", err)
		}
	}

	if len(ch) != clientBuffer {
		t.Errorf("queued = %d, want %d", len(ch), clientBuffer)
	}
}

func TestHubUnregisterClosesChannel(t *testing.T) {
	hub := NewHub()
	id, ch := hub.Register()
	hub.Unregister(id)
	hub.Unregister(id)

	if _, ok := <-ch; ok {
		t.Error("channel still open after Unregister")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", hub.ClientCount())
	}
}

func TestHubBroadcastEncodeError(t *testing.T) {
	hub := NewHub()
	if err := hub.Broadcast(Frame{Kind: "bad", Payload: func() {}}); err == nil {
		t.Error("Broadcast() with unencodable payload should fail")
	}
}

func TestAttachForwardsBusEvents(t *testing.T) {
	bus := event.NewBus()
	hub := NewHub()
	_, ch := hub.Register()

	detach := Attach(bus, hub, Source{
		Scene: func() string { return "graveyard" },
		State: func() any { return map[string]int{"slots": 10} },
	}, nil)

	bus.Emit(event.DigResolved, event.DigPayload{SpotID: "spot-1", Result: "found", Item: "Bone"})

	frame := decode(t, <-ch)
	if frame["kind"] != "dig_resolved" {
		t.Errorf("kind = %v, want dig_resolved", frame["kind"])
	}
	if frame["scene"] != "graveyard" {
		t.Errorf("scene = %v, want graveyard", frame["scene"])
	}
	payload := frame["payload"].(map[string]any)
	if payload["item"] != "Bone" {
		t.Errorf("payload item = %v, want Bone", payload["item"])
	}
	if frame["state"].(map[string]any)["slots"].(float64) != 10 {
		t.Errorf("state = %v", frame["state"])
	}

	detach()
	bus.Emit(event.InventoryChanged, nil)
	if len(ch) != 0 {
		t.Errorf("frames after detach = %d, want 0", len(ch))
	}
}

func TestServerHealthAndState(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(NewServer(":0", hub, nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("/health = %d %q", resp.StatusCode, body)
	}

	resp, err = http.Get(srv.URL + "/state")
	if err != nil {
		t.Fatalf("GET /state: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("/state before frames = %d, want 204", resp.StatusCode)
	}

	if err := hub.Broadcast(Frame{Kind: "scene_loaded", Scene: "crypt"}); err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}
	resp, err = http.Get(srv.URL + "/state")
	if err != nil {
		t.Fatalf("GET /state: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if got := decode(t, body)["scene"]; got != "crypt" {
		t.Errorf("/state scene = %v, want crypt", got)
	}
}

func TestServerWebsocketFeed(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(NewServer(":0", hub, nil).Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := hub.Broadcast(Frame{Kind: "pause_changed", Payload: event.PausePayload{Paused: true}}); err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	frame := decode(t, msg)
	if frame["kind"] != "pause_changed" {
		t.Errorf("kind = %v, want pause_changed", frame["kind"])
	}
	if frame["payload"].(map[string]any)["paused"] != true {
		t.Errorf("payload = %v", frame["payload"])
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never unregistered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
