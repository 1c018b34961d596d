package services

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeConn records pushes and can be told to fail or play dead.
type fakeConn struct {
	mu     sync.Mutex
	pushed []Envelope
	dead   bool
	err    error
}

func (c *fakeConn) Push(env Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.pushed = append(c.pushed, env)
	return nil
}

func (c *fakeConn) Alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.dead
}

func (c *fakeConn) received() []Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Envelope(nil), c.pushed...)
}

func TestNotifyWithoutConnection(t *testing.T) {
	r := NewNotificationRouter()

	if r.Notify("u1", EventChatMessage, nil) {
		t.Error("Notify returned true with no connection registered")
	}
	if got := r.Stats().Missed; got != 1 {
		t.Errorf("missed = %d, want 1", got)
	}
}

func TestNotifyDelivers(t *testing.T) {
	r := NewNotificationRouter()
	conn := &fakeConn{}
	r.Register("u1", conn)

	if !r.Notify("u1", EventMatchPending, map[string]string{"match_id": "m1"}) {
		t.Fatal("Notify returned false for a live connection")
	}

	got := conn.received()
	if len(got) != 1 {
		t.Fatalf("connection received %d envelopes, want 1", len(got))
	}
	env := got[0]
	if env.Event != EventMatchPending {
		t.Errorf("event = %q, want %q", env.Event, EventMatchPending)
	}
	if env.Ts.IsZero() || env.Ts.Location() != time.UTC {
		t.Errorf("ts = %v, want a UTC timestamp", env.Ts)
	}
	if got := r.Stats().Delivered; got != 1 {
		t.Errorf("delivered = %d, want 1", got)
	}
}

func TestRegisterReplacesConnection(t *testing.T) {
	r := NewNotificationRouter()
	old := &fakeConn{}
	repl := &fakeConn{}

	r.Register("u1", old)
	r.Register("u1", repl)

	if !r.Notify("u1", EventChatMessage, nil) {
		t.Fatal("Notify failed after replacement")
	}
	if len(old.received()) != 0 {
		t.Error("superseded connection still received a push")
	}
	if len(repl.received()) != 1 {
		t.Error("replacement connection did not receive the push")
	}
}

func TestUnregisterIsHandleMatched(t *testing.T) {
	r := NewNotificationRouter()
	old := &fakeConn{}
	repl := &fakeConn{}

	r.Register("u1", old)
	r.Register("u1", repl)

	// The superseded connection's late cleanup must not evict the live one.
	r.Unregister("u1", old)
	if !r.Notify("u1", EventChatMessage, nil) {
		t.Fatal("stale unregister evicted the live connection")
	}

	r.Unregister("u1", repl)
	if r.Notify("u1", EventChatMessage, nil) {
		t.Error("Notify returned true after the live connection unregistered")
	}
}

func TestNotifyCountsPushFailure(t *testing.T) {
	r := NewNotificationRouter()
	conn := &fakeConn{err: errors.New("buffer full")}
	r.Register("u1", conn)

	if r.Notify("u1", EventMatchConfirmed, nil) {
		t.Error("Notify returned true for a failing push")
	}
	stats := r.Stats()
	if stats.Failed != 1 {
		t.Errorf("failed = %d, want 1", stats.Failed)
	}
	if stats.Delivered != 0 {
		t.Errorf("delivered = %d, want 0", stats.Delivered)
	}
}

func TestBroadcastSkipsDeadConnections(t *testing.T) {
	r := NewNotificationRouter()
	alive1 := &fakeConn{}
	alive2 := &fakeConn{}
	dead := &fakeConn{dead: true}

	r.Register("u1", alive1)
	r.Register("u2", alive2)
	r.Register("u3", dead)

	r.Broadcast(EventAnnouncement, map[string]string{"message": "maintenance at noon"})

	if len(alive1.received()) != 1 || len(alive2.received()) != 1 {
		t.Error("live connections did not all receive the broadcast")
	}
	if len(dead.received()) != 0 {
		t.Error("dead connection received a broadcast")
	}

	stats := r.Stats()
	if stats.Delivered != 2 {
		t.Errorf("delivered = %d, want 2", stats.Delivered)
	}
	if stats.Missed != 1 {
		t.Errorf("missed = %d, want 1", stats.Missed)
	}
}

func TestSweepDropsDeadConnections(t *testing.T) {
	r := NewNotificationRouter()
	r.Register("u1", &fakeConn{})
	r.Register("u2", &fakeConn{dead: true})
	r.Register("u3", &fakeConn{dead: true})

	if n := r.Sweep(); n != 2 {
		t.Errorf("Sweep dropped %d, want 2", n)
	}

	stats := r.Stats()
	if stats.Connections != 1 {
		t.Errorf("connections = %d, want 1", stats.Connections)
	}
	if stats.Swept != 2 {
		t.Errorf("swept = %d, want 2", stats.Swept)
	}

	if n := r.Sweep(); n != 0 {
		t.Errorf("second Sweep dropped %d, want 0", n)
	}
}
