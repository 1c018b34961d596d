package services

// Event names pushed to clients over the live connection.
const (
	EventMatchPending   = "match:pending"
	EventMatchConfirmed = "match:confirmed"
	EventMatchRejected  = "match:rejected"
	EventMatchReminder  = "match:reminder"
	EventFriendRequest  = "friend:request"
	EventFriendAccepted = "friend:accepted"
	EventChatMessage    = "chat:message"
	EventAnnouncement   = "system:announcement"
)

// Event is a domain event addressed to specific users. Services emit events
// only after their own transaction has committed; they never touch the
// transport directly.
type Event struct {
	Name       string
	Recipients []string
	Payload    interface{}
}

// Emitter receives domain events. The production emitter is Dispatcher;
// tests plug in a recording fake.
type Emitter interface {
	Emit(ev Event)
}

// Dispatcher forwards domain events to the notification router. Best effort:
// offline recipients are skipped and push failures stay inside the router.
type Dispatcher struct {
	Router *NotificationRouter
}

func NewDispatcher(router *NotificationRouter) *Dispatcher {
	return &Dispatcher{Router: router}
}

func (d *Dispatcher) Emit(ev Event) {
	for _, userID := range ev.Recipients {
		d.Router.Notify(userID, ev.Name, ev.Payload)
	}
}
