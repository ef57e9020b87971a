package collab

import (
	"encoding/json"
	"testing"
	"time"
)

func TestClientSendDropsWhenBufferFull(t *testing.T) {
	// Send never blocks the hub loop: once the outgoing buffer is full the
	// message is dropped, not queued.
	c := NewClient(nil, nil, "user-1", "Tess", "map-1", "client-1")

	msg := &Message{Type: TypePresenceUpdate, Payload: json.RawMessage(`{}`)}
	for i := 0; i < cap(c.send); i++ {
		c.Send(msg)
	}
	if len(c.send) != cap(c.send) {
		t.Fatalf("queued %d messages, want %d", len(c.send), cap(c.send))
	}

	done := make(chan struct{})
	go func() {
		c.Send(msg)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send blocked on a full buffer")
	}
	if len(c.send) != cap(c.send) {
		t.Errorf("dropped message was queued anyway: len=%d", len(c.send))
	}

	// Queued frames are complete message encodings.
	var decoded Message
	if err := json.Unmarshal(<-c.send, &decoded); err != nil {
		t.Fatalf("queued frame: %v", err)
	}
	if decoded.Type != TypePresenceUpdate {
		t.Errorf("type = %q", decoded.Type)
	}
}
