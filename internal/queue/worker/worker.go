package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/medicareplus/careportal/internal/notifications"
	"github.com/medicareplus/careportal/internal/observability"
	"github.com/medicareplus/careportal/internal/queue"
)

type ConfirmationSource interface {
	Dequeue(ctx context.Context, timeout time.Duration) (queue.BookingConfirmation, error)
}

type Config struct {
	PollTimeout time.Duration
}

type Worker struct {
	cfg      Config
	source   ConfirmationSource
	notifier notifications.Notifier
	prom     *observability.Prom
	log      *slog.Logger
}

func New(cfg Config, source ConfirmationSource, notifier notifications.Notifier, prom *observability.Prom, log *slog.Logger) *Worker {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 2 * time.Second
	}

	return &Worker{
		cfg:      cfg,
		source:   source,
		notifier: notifier,
		prom:     prom,
		log:      log,
	}
}

// Run consumes booking confirmations until the context is cancelled.
// Delivery is at-most-once: a failed send is logged and counted, not
// re-queued (the portal never promised guaranteed delivery). Consecutive
// dequeue failures back off exponentially so a Redis outage does not turn
// into a busy loop.
func (w *Worker) Run(ctx context.Context) error {
	failures := 0

	for {
		select {
		case <-ctx.Done():
			w.log.Info("notifier shutting down")
			return nil
		default:
		}

		msg, err := w.source.Dequeue(ctx, w.cfg.PollTimeout)

		if err != nil {
			if errors.Is(err, queue.ErrEmpty) {
				failures = 0
				continue
			}
			if ctx.Err() != nil {
				return nil
			}

			delay := ExponentialBackoff(failures)
			failures++

			w.log.Error("dequeue failed", "err", err, "retry_in", delay)

			select {
			case <-ctx.Done():
				w.log.Info("notifier shutting down")
				return nil
			case <-time.After(delay):
			}
			continue
		}

		failures = 0
		w.deliver(ctx, msg)
	}
}

func (w *Worker) deliver(ctx context.Context, msg queue.BookingConfirmation) {
	start := time.Now()

	err := w.notifier.SendBookingConfirmation(ctx, notifications.SendBookingConfirmationInput{
		AppointmentID: msg.AppointmentID,
		Email:         msg.Email,
		Name:          msg.Name,
		DoctorName:    msg.DoctorName,
		Specialist:    msg.Specialist,
		Date:          msg.Date,
		Time:          msg.Time,
	})

	result := "sent"

	if err != nil {
		result = "failed"
		w.log.Error("confirmation delivery failed", "appointment_id", msg.AppointmentID, "err", err)
	}

	if w.prom != nil {
		w.prom.NotifyResults.WithLabelValues(result).Inc()
		w.prom.NotifyDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	}
}
