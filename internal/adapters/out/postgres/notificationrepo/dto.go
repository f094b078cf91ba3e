// Package notificationrepo persists the notification outbox. Intents are
// written in the same transaction as the stage update that produced them
// and drained later by the dispatcher job.
package notificationrepo

import (
	"time"

	"github.com/google/uuid"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/notification"
)

// IntentDTO represents the database structure for notification intents.
type IntentDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Type      string    `gorm:"not null"`
	Channel   string    `gorm:"not null"`
	Recipient string    `gorm:"not null"`
	Template  string    `gorm:"not null"`
	Status    string    `gorm:"index;not null"`
	Attempts  int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"index;not null"`
}

// TableName specifies the database table name for notification intents.
func (IntentDTO) TableName() string {
	return "notification_outbox"
}

func fromDomain(intent notification.Intent) IntentDTO {
	return IntentDTO{
		ID:        intent.ID.Bytes(),
		OrderID:   intent.OrderID.Bytes(),
		Type:      intent.Type,
		Channel:   string(intent.Channel),
		Recipient: intent.Recipient,
		Template:  intent.Template,
		Status:    string(intent.Status),
		Attempts:  intent.Attempts,
		CreatedAt: intent.CreatedAt,
	}
}

func toDomain(dto IntentDTO) (notification.Intent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return notification.Intent{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return notification.Intent{}, err
	}

	channel := notification.Channel(dto.Channel)
	if err = channel.Validate(); err != nil {
		return notification.Intent{}, err
	}

	return notification.Intent{
		ID:        id,
		OrderID:   orderID,
		Type:      dto.Type,
		Channel:   channel,
		Recipient: dto.Recipient,
		Template:  dto.Template,
		Status:    notification.Status(dto.Status),
		Attempts:  dto.Attempts,
		CreatedAt: dto.CreatedAt,
	}, nil
}
