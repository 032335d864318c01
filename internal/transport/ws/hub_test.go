package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func waitForMessage(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case data := <-ch:
		return data
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast")
		return nil
	}
}

func TestBroadcastReachesFormWatchers(t *testing.T) {
	hub := NewHub()

	watcher := &Connection{ID: "c1", FormID: "form-1", Send: make(chan []byte, 8), Hub: hub}
	other := &Connection{ID: "c2", FormID: "form-2", Send: make(chan []byte, 8), Hub: hub}
	hub.Register(watcher)
	hub.Register(other)

	hub.BroadcastToOwner("form-1", string(MsgResponseReceived), map[string]string{"responseId": "r1"})

	data := waitForMessage(t, watcher.Send)
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("broadcast frame is not valid JSON: %v", err)
	}
	if msg.Type != MsgResponseReceived {
		t.Errorf("type = %s, want %s", msg.Type, MsgResponseReceived)
	}
	var payload map[string]string
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload["responseId"] != "r1" {
		t.Errorf("payload = %s", msg.Payload)
	}

	// Watchers of other forms see nothing
	select {
	case data := <-other.Send:
		t.Errorf("form-2 watcher received %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBroadcastFansOutToAllTabs(t *testing.T) {
	hub := NewHub()

	tabs := []*Connection{
		{ID: "tab-1", FormID: "form-1", Send: make(chan []byte, 8), Hub: hub},
		{ID: "tab-2", FormID: "form-1", Send: make(chan []byte, 8), Hub: hub},
	}
	for _, tab := range tabs {
		hub.Register(tab)
	}

	hub.BroadcastToOwner("form-1", string(MsgResponseReceived), map[string]string{"responseId": "r1"})

	for _, tab := range tabs {
		waitForMessage(t, tab.Send)
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()

	conn := &Connection{ID: "c1", FormID: "form-1", Send: make(chan []byte, 8), Hub: hub}
	hub.Register(conn)
	hub.Unregister(conn)

	// Send channel is closed once the hub lets go of the connection
	select {
	case _, open := <-conn.Send:
		if open {
			t.Error("received a frame after unregister")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("send channel was not closed on unregister")
	}

	// Broadcasting afterwards must not panic on the closed channel
	hub.BroadcastToOwner("form-1", string(MsgResponseReceived), map[string]string{"responseId": "r1"})
	time.Sleep(50 * time.Millisecond)
}

func TestSlowConsumerDoesNotBlockHub(t *testing.T) {
	hub := NewHub()

	// Zero-capacity channel with no reader: every send would block
	stuck := &Connection{ID: "stuck", FormID: "form-1", Send: make(chan []byte), Hub: hub}
	healthy := &Connection{ID: "healthy", FormID: "form-1", Send: make(chan []byte, 8), Hub: hub}
	hub.Register(stuck)
	hub.Register(healthy)

	for i := 0; i < 5; i++ {
		hub.BroadcastToOwner("form-1", string(MsgResponseReceived), map[string]int{"seq": i})
	}

	// The healthy connection still gets frames even though the stuck one
	// never drains its channel
	waitForMessage(t, healthy.Send)
}
