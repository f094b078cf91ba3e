// Package notification contains the notification intent model. Intents are
// produced by the stage transition engine, persisted in the same transaction
// as the stage update (an outbox), and delivered asynchronously by a
// dispatcher job. Delivery is best-effort: a failed intent is recorded as
// failed and retried, and never affects the stage update that produced it.
package notification

import (
	"fmt"
	"time"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/pkg/errs"
)

// Channel identifies the transport for one intent.
type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// Validate checks that the channel is one of the supported transports.
func (c Channel) Validate() error {
	switch c {
	case ChannelSMS, ChannelWhatsApp:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("channel",
			fmt.Errorf("%q is not a supported notification channel", string(c)))
	}
}

// Status tracks an intent through the outbox.
type Status string

const (
	// StatusPending means the intent awaits delivery by the dispatcher job.
	StatusPending Status = "pending"

	// StatusSent means the gateway accepted the message.
	StatusSent Status = "sent"

	// StatusFailed means the last delivery attempt failed; the dispatcher
	// retries failed intents up to its attempt budget.
	StatusFailed Status = "failed"
)

// Intent is one queued customer notification.
type Intent struct {
	ID        kernel.UUID
	OrderID   kernel.UUID
	Type      string
	Channel   Channel
	Recipient string
	Template  string
	Status    Status
	Attempts  int
	CreatedAt time.Time
}

// NewIntent creates a pending intent for an order.
func NewIntent(orderID kernel.UUID, intentType string, channel Channel, recipient, template string, at time.Time) (Intent, error) {
	if err := orderID.Validate(); err != nil {
		return Intent{}, err
	}
	if err := channel.Validate(); err != nil {
		return Intent{}, err
	}
	if intentType == "" {
		return Intent{}, errs.NewValueIsRequiredError("intent type")
	}
	if recipient == "" {
		return Intent{}, errs.NewValueIsRequiredError("intent recipient")
	}
	if template == "" {
		return Intent{}, errs.NewValueIsRequiredError("intent template")
	}

	return Intent{
		ID:        kernel.NewUUID(),
		OrderID:   orderID,
		Type:      intentType,
		Channel:   channel,
		Recipient: recipient,
		Template:  template,
		Status:    StatusPending,
		CreatedAt: at,
	}, nil
}
