package ports

import (
	"context"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/notification"
)

// NotificationOutbox stores notification intents durably in the same
// transaction as the lifecycle change that produced them. A background job
// drains pending intents and hands them to the Notifier; a gateway outage
// therefore delays notifications instead of losing them.
type NotificationOutbox interface {
	// Add enqueues an intent.
	Add(ctx context.Context, intent notification.Intent) error

	// GetPending returns up to limit pending intents, oldest first.
	GetPending(ctx context.Context, limit int) ([]notification.Intent, error)

	// MarkSent records a successful dispatch.
	MarkSent(ctx context.Context, intentID kernel.UUID) error

	// MarkFailed increments the attempt counter; once attempts reach the
	// dispatcher's budget the intent moves to failed and is no longer
	// retried.
	MarkFailed(ctx context.Context, intentID kernel.UUID, attempts int, final bool) error
}

// Notifier delivers one notification over its channel (SMS or WhatsApp).
// Implementations talk to an external messaging gateway; errors are
// retryable from the dispatcher's point of view.
type Notifier interface {
	Send(ctx context.Context, intent notification.Intent) error
}
