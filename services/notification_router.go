package services

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"badminton-community-system/logging"
)

// Conn is one live client connection as the router sees it. Push must not
// block: implementations queue or fail immediately.
type Conn interface {
	Push(env Envelope) error
	Alive() bool
}

// Envelope is the wire shape of every pushed event.
type Envelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	Ts      time.Time   `json:"ts"`
}

// RouterStats is a point-in-time snapshot of the router's counters.
type RouterStats struct {
	Connections int   `json:"connections"`
	Delivered   int64 `json:"delivered"`
	Failed      int64 `json:"failed"`
	Missed      int64 `json:"missed"`
	Swept       int64 `json:"swept"`
}

// NotificationRouter maps a user identity to at most one live connection and
// pushes events best effort. Entirely in-memory: it starts empty on every
// process start and is constructed explicitly (one per process, one per
// test), never as a package singleton.
type NotificationRouter struct {
	mu    sync.RWMutex
	conns map[string]Conn

	delivered int64
	failed    int64
	missed    int64
	swept     int64
}

func NewNotificationRouter() *NotificationRouter {
	return &NotificationRouter{conns: make(map[string]Conn)}
}

// Register stores the connection for userID, superseding any previous one.
// The old connection is not closed here; the transport owns its lifecycle.
func (r *NotificationRouter) Register(userID string, conn Conn) {
	r.mu.Lock()
	_, replaced := r.conns[userID]
	r.conns[userID] = conn
	r.mu.Unlock()

	logging.L().Info("router register",
		zap.String("user_id", userID),
		zap.Bool("replaced", replaced))
}

// Unregister removes the mapping only while conn is still the stored handle,
// so a slow disconnect from a superseded connection cannot evict its
// replacement.
func (r *NotificationRouter) Unregister(userID string, conn Conn) {
	r.mu.Lock()
	if cur, ok := r.conns[userID]; ok && cur == conn {
		delete(r.conns, userID)
	}
	r.mu.Unlock()
}

// Notify pushes one event to userID's connection. Returns false when the
// user has no live connection or the push fails. Failures never escalate to
// the caller; the operation that triggered the push has already succeeded.
func (r *NotificationRouter) Notify(userID, event string, payload interface{}) bool {
	r.mu.RLock()
	conn, ok := r.conns[userID]
	r.mu.RUnlock()

	if !ok || !conn.Alive() {
		atomic.AddInt64(&r.missed, 1)
		return false
	}
	return r.push(userID, conn, Envelope{Event: event, Payload: payload, Ts: time.Now().UTC()})
}

// Broadcast pushes one event to every registered connection, best effort.
func (r *NotificationRouter) Broadcast(event string, payload interface{}) {
	r.mu.RLock()
	targets := make(map[string]Conn, len(r.conns))
	for id, conn := range r.conns {
		targets[id] = conn
	}
	r.mu.RUnlock()

	env := Envelope{Event: event, Payload: payload, Ts: time.Now().UTC()}
	for id, conn := range targets {
		if !conn.Alive() {
			atomic.AddInt64(&r.missed, 1)
			continue
		}
		r.push(id, conn, env)
	}
}

// Sweep drops registrations whose connection no longer reports alive.
// Returns the number dropped.
func (r *NotificationRouter) Sweep() int {
	r.mu.Lock()
	n := 0
	for id, conn := range r.conns {
		if !conn.Alive() {
			delete(r.conns, id)
			n++
		}
	}
	r.mu.Unlock()

	if n > 0 {
		atomic.AddInt64(&r.swept, int64(n))
	}
	return n
}

func (r *NotificationRouter) Stats() RouterStats {
	r.mu.RLock()
	connections := len(r.conns)
	r.mu.RUnlock()

	return RouterStats{
		Connections: connections,
		Delivered:   atomic.LoadInt64(&r.delivered),
		Failed:      atomic.LoadInt64(&r.failed),
		Missed:      atomic.LoadInt64(&r.missed),
		Swept:       atomic.LoadInt64(&r.swept),
	}
}

func (r *NotificationRouter) push(userID string, conn Conn, env Envelope) bool {
	if err := conn.Push(env); err != nil {
		atomic.AddInt64(&r.failed, 1)
		logging.L().Warn("router push failed",
			zap.String("user_id", userID),
			zap.String("event", env.Event),
			zap.Error(err))
		return false
	}
	atomic.AddInt64(&r.delivered, 1)
	return true
}
