// services/scheduler.go
package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"badminton-community-system/logging"
)

// StartReminderScheduler nags responders about matches that have sat pending
// too long. Returns the scheduler so main can shut it down with the process.
func (s *MatchService) StartReminderScheduler(interval, olderThan time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := s.RemindPending(ctx, olderThan); err != nil {
				logging.L().Warn("reminder job failed", zap.Error(err))
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	logging.L().Info("reminder scheduler started",
		zap.Duration("interval", interval),
		zap.Duration("older_than", olderThan))
	return sched, nil
}
