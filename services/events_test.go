package services

import "testing"

func TestDispatcherFansOutToRecipients(t *testing.T) {
	router := NewNotificationRouter()
	online1 := &fakeConn{}
	online2 := &fakeConn{}
	router.Register("u1", online1)
	router.Register("u2", online2)

	d := NewDispatcher(router)
	d.Emit(Event{
		Name:       EventMatchPending,
		Recipients: []string{"u1", "u2", "offline"},
		Payload:    map[string]string{"match_id": "m1"},
	})

	if len(online1.received()) != 1 || len(online2.received()) != 1 {
		t.Error("online recipients did not each receive the event")
	}

	stats := router.Stats()
	if stats.Delivered != 2 {
		t.Errorf("delivered = %d, want 2", stats.Delivered)
	}
	if stats.Missed != 1 {
		t.Errorf("missed = %d, want 1 for the offline recipient", stats.Missed)
	}
}

func TestDispatcherWithNoRecipients(t *testing.T) {
	d := NewDispatcher(NewNotificationRouter())

	// Must be a no-op, not a panic.
	d.Emit(Event{Name: EventAnnouncement, Payload: "hello"})
}
