package jobs

import (
	"context"
	"log/slog"
	"time"

	"courtside/internal/service"
)

// ActivityStatusJob advances activity statuses past their scheduled times:
// published activities become ongoing at their start, ongoing activities
// become completed after their end.
type ActivityStatusJob struct {
	activities *service.ActivityService
	interval   time.Duration
	ticker     *time.Ticker
	done       chan bool
}

func NewActivityStatusJob(activities *service.ActivityService, interval time.Duration) *ActivityStatusJob {
	return &ActivityStatusJob{
		activities: activities,
		interval:   interval,
		done:       make(chan bool),
	}
}

func (j *ActivityStatusJob) Start(ctx context.Context) {
	slog.Info("Starting activity status job", "check_interval", j.interval.String())

	j.ticker = time.NewTicker(j.interval)

	go j.run(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.run(ctx)
			case <-j.done:
				slog.Info("Activity status job stopped")
				return
			}
		}
	}()
}

func (j *ActivityStatusJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

func (j *ActivityStatusJob) run(ctx context.Context) {
	advanced, err := j.activities.RollForward(ctx)
	if err != nil {
		slog.Error("Failed to advance activity statuses", "error", err)
		return
	}

	if advanced > 0 {
		slog.Info("Advanced activity statuses", "count", advanced)
	}
}
