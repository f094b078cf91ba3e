// Package jobs contains scheduled background jobs. Jobs are thin cron-driven
// wrappers that delegate the actual work to application-layer dependencies.
package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"codship/internal/core/ports"
)

const (
	// dispatchBatchSize bounds one drain pass so a backlog cannot starve
	// other jobs.
	dispatchBatchSize = 50

	// maxDeliveryAttempts is the per-intent retry budget. Once reached the
	// intent is marked failed for good.
	maxDeliveryAttempts = 5
)

// NotificationDispatchJob drains the notification outbox and hands pending
// intents to the messaging gateway. Delivery is best-effort: a failed send
// bumps the intent's attempt counter and leaves it for the next run.
type NotificationDispatchJob struct {
	outbox   ports.NotificationOutbox
	notifier ports.Notifier
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewNotificationDispatchJob creates the outbox dispatcher job.
func NewNotificationDispatchJob(
	outbox ports.NotificationOutbox,
	notifier ports.Notifier,
	logger *slog.Logger,
) *NotificationDispatchJob {
	return &NotificationDispatchJob{
		outbox:   outbox,
		notifier: notifier,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "notification_dispatch_job"),
	}
}

// Start begins the dispatcher, draining the outbox every ten seconds.
func (j *NotificationDispatchJob) Start() error {
	_, err := j.cron.AddFunc("*/10 * * * * *", func() {
		ctx := context.Background()
		if err := j.DispatchPending(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Notification dispatch run failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification dispatch job started (running every 10 seconds)")
	return nil
}

// Stop stops the dispatcher job.
func (j *NotificationDispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Notification dispatch job stopped")
}

// DispatchPending performs one drain pass over the outbox. A send failure
// never aborts the pass; remaining intents still get their attempt.
func (j *NotificationDispatchJob) DispatchPending(ctx context.Context) error {
	intents, err := j.outbox.GetPending(ctx, dispatchBatchSize)
	if err != nil {
		return err
	}

	for _, intent := range intents {
		if sendErr := j.notifier.Send(ctx, intent); sendErr != nil {
			attempts := intent.Attempts + 1
			final := attempts >= maxDeliveryAttempts
			j.logger.WarnContext(ctx, "Notification delivery failed",
				"intent_id", intent.ID.String(),
				"channel", string(intent.Channel),
				"attempts", attempts,
				"final", final,
				"error", sendErr,
			)

			if markErr := j.outbox.MarkFailed(ctx, intent.ID, attempts, final); markErr != nil {
				return markErr
			}
			continue
		}

		if markErr := j.outbox.MarkSent(ctx, intent.ID); markErr != nil {
			return markErr
		}
	}

	return nil
}
