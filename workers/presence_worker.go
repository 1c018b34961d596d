package workers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"badminton-community-system/logging"
	"badminton-community-system/services"
)

// PresenceWorker periodically drops registry entries whose connection has
// stopped reporting alive. The write pump usually unregisters on its own;
// this is the backstop for handlers that died without running their defers.
type PresenceWorker struct {
	router   *services.NotificationRouter
	interval time.Duration
}

func NewPresenceWorker(router *services.NotificationRouter, interval time.Duration) *PresenceWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PresenceWorker{router: router, interval: interval}
}

func (w *PresenceWorker) Start(ctx context.Context) {
	logging.L().Info("starting presence sweep worker", zap.Duration("interval", w.interval))
	go w.run(ctx)
}

func (w *PresenceWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := w.router.Sweep(); n > 0 {
				stats := w.router.Stats()
				logging.L().Info("swept dead connections",
					zap.Int("dropped", n),
					zap.Int("connections", stats.Connections))
			}
		case <-ctx.Done():
			logging.L().Info("presence sweep worker stopped")
			return
		}
	}
}
