// Package trackingrepo persists the append-only order tracking log.
package trackingrepo

import (
	"time"

	"github.com/google/uuid"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/order"
	"codship/internal/core/domain/model/tracking"
)

// EntryDTO represents the database structure for tracking log entries.
type EntryDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Stage       string    `gorm:"not null"`
	Status      string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	AgentID     string
	CreatedAt   time.Time `gorm:"index;not null"`
}

// TableName specifies the database table name for tracking log entries.
func (EntryDTO) TableName() string {
	return "tracking_logs"
}

func fromDomain(entry tracking.Entry) EntryDTO {
	return EntryDTO{
		ID:          entry.ID.Bytes(),
		OrderID:     entry.OrderID.Bytes(),
		Stage:       entry.Stage.String(),
		Status:      entry.Status.String(),
		Description: entry.Description,
		AgentID:     entry.AgentID,
		CreatedAt:   entry.CreatedAt,
	}
}

func toDomain(dto EntryDTO) (tracking.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return tracking.Entry{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return tracking.Entry{}, err
	}
	stage, err := order.ParseStage(dto.Stage)
	if err != nil {
		return tracking.Entry{}, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return tracking.Entry{}, err
	}

	return tracking.Entry{
		ID:          id,
		OrderID:     orderID,
		Stage:       stage,
		Status:      status,
		Description: dto.Description,
		AgentID:     dto.AgentID,
		CreatedAt:   dto.CreatedAt,
	}, nil
}
