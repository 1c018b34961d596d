package handlers

import (
	"errors"
	"testing"

	"badminton-community-system/services"
)

func TestWSClientPushUntilBufferFull(t *testing.T) {
	c := newWSClient(nil, 2)

	if err := c.Push(services.Envelope{Event: "one"}); err != nil {
		t.Fatalf("first push: %v", err)
	}
	if err := c.Push(services.Envelope{Event: "two"}); err != nil {
		t.Fatalf("second push: %v", err)
	}

	err := c.Push(services.Envelope{Event: "three"})
	if !errors.Is(err, errSendBufferFull) {
		t.Errorf("push into full buffer err = %v, want errSendBufferFull", err)
	}

	// A full buffer does not mean the connection is gone.
	if !c.Alive() {
		t.Error("client reports dead while the socket is still up")
	}
}

func TestWSClientShutdown(t *testing.T) {
	c := newWSClient(nil, 1)

	c.shutdown()
	c.shutdown() // second call must be a no-op, not a panic

	if c.Alive() {
		t.Error("client reports alive after shutdown")
	}
	if err := c.Push(services.Envelope{Event: "late"}); err == nil {
		t.Error("push after shutdown succeeded, want error")
	}
}

func TestWSClientDefaultBuffer(t *testing.T) {
	c := newWSClient(nil, 0)
	if cap(c.send) == 0 {
		t.Error("zero requested buffer left the send channel unbuffered")
	}
}
