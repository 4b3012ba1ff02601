package jobs

import (
	"context"
	"log/slog"
	"time"

	"courtside/internal/service"
)

// BookingCompletionJob rolls confirmed bookings whose end time has passed
// over to completed, so finished bookings become review-eligible without
// any user action.
type BookingCompletionJob struct {
	bookings *service.BookingService
	interval time.Duration
	ticker   *time.Ticker
	done     chan bool
}

func NewBookingCompletionJob(bookings *service.BookingService, interval time.Duration) *BookingCompletionJob {
	return &BookingCompletionJob{
		bookings: bookings,
		interval: interval,
		done:     make(chan bool),
	}
}

func (j *BookingCompletionJob) Start(ctx context.Context) {
	slog.Info("Starting booking completion job", "check_interval", j.interval.String())

	j.ticker = time.NewTicker(j.interval)

	// Run initial check immediately
	go j.run(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.run(ctx)
			case <-j.done:
				slog.Info("Booking completion job stopped")
				return
			}
		}
	}()
}

func (j *BookingCompletionJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

func (j *BookingCompletionJob) run(ctx context.Context) {
	count, err := j.bookings.CompleteFinished(ctx)
	if err != nil {
		slog.Error("Failed to complete finished bookings", "error", err)
		return
	}

	if count > 0 {
		slog.Info("Completed finished bookings", "count", count)
	}
}
