// Package allocationrepo persists allocation records and fallback log
// entries. A partial unique index on (order_id) where status = 'pending'
// enforces the one-pending-record invariant at the database level, so two
// concurrent allocations for the same order can never both commit.
package allocationrepo

import (
	"time"

	"github.com/google/uuid"

	"codship/internal/core/domain/model/allocation"
	"codship/internal/core/domain/model/kernel"
)

// RecordDTO represents the database structure for allocation records.
type RecordDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_allocation_one_pending,where:status = 'pending'"`
	PartnerID uuid.UUID `gorm:"type:uuid;index;not null"`
	Score     float64   `gorm:"not null"`
	Reason    string    `gorm:"not null"`
	Status    string    `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"index;not null"`
}

// TableName specifies the database table name for allocation records.
func (RecordDTO) TableName() string {
	return "allocation_records"
}

func recordFromDomain(record allocation.Record) RecordDTO {
	return RecordDTO{
		ID:        record.ID.Bytes(),
		OrderID:   record.OrderID.Bytes(),
		PartnerID: record.PartnerID.Bytes(),
		Score:     record.Score,
		Reason:    record.Reason,
		Status:    string(record.Status),
		CreatedAt: record.CreatedAt,
	}
}

func recordToDomain(dto RecordDTO) (allocation.Record, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return allocation.Record{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return allocation.Record{}, err
	}
	partnerID, err := kernel.UUIDFromBytes(dto.PartnerID[:])
	if err != nil {
		return allocation.Record{}, err
	}

	status := allocation.ShipmentStatus(dto.Status)
	if err = status.Validate(); err != nil {
		return allocation.Record{}, err
	}

	return allocation.Record{
		ID:        id,
		OrderID:   orderID,
		PartnerID: partnerID,
		Score:     dto.Score,
		Reason:    dto.Reason,
		Status:    status,
		CreatedAt: dto.CreatedAt,
	}, nil
}

// FallbackDTO represents the database structure for fallback log entries.
type FallbackDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID `gorm:"type:uuid;index;not null"`
	OriginalPartnerID uuid.UUID `gorm:"type:uuid;not null"`
	NewPartnerID      uuid.UUID `gorm:"type:uuid;not null"`
	Reason            string    `gorm:"not null"`
	CreatedAt         time.Time `gorm:"not null"`
}

// TableName specifies the database table name for fallback log entries.
func (FallbackDTO) TableName() string {
	return "fallback_logs"
}

func fallbackFromDomain(entry allocation.FallbackEntry) FallbackDTO {
	return FallbackDTO{
		ID:                entry.ID.Bytes(),
		OrderID:           entry.OrderID.Bytes(),
		OriginalPartnerID: entry.OriginalPartnerID.Bytes(),
		NewPartnerID:      entry.NewPartnerID.Bytes(),
		Reason:            entry.Reason,
		CreatedAt:         entry.CreatedAt,
	}
}

func fallbackToDomain(dto FallbackDTO) (allocation.FallbackEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return allocation.FallbackEntry{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return allocation.FallbackEntry{}, err
	}
	originalID, err := kernel.UUIDFromBytes(dto.OriginalPartnerID[:])
	if err != nil {
		return allocation.FallbackEntry{}, err
	}
	newID, err := kernel.UUIDFromBytes(dto.NewPartnerID[:])
	if err != nil {
		return allocation.FallbackEntry{}, err
	}

	return allocation.FallbackEntry{
		ID:                id,
		OrderID:           orderID,
		OriginalPartnerID: originalID,
		NewPartnerID:      newID,
		Reason:            dto.Reason,
		CreatedAt:         dto.CreatedAt,
	}, nil
}
