package allocationrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"codship/internal/core/domain/model/allocation"
	"codship/internal/core/domain/model/kernel"
	"codship/internal/pkg/errs"
)

// GormAllocationRepository implements AllocationRepository using GORM.
type GormAllocationRepository struct {
	db *gorm.DB
}

// NewGormAllocationRepository creates a new GORM allocation repository.
func NewGormAllocationRepository(db *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: db}
}

// Add persists a new allocation record. A duplicated-key error on the
// pending partial index means another transaction already holds the order's
// pending slot; it is reported as allocation.ErrPendingConflict so the
// caller can re-read and retry.
func (r *GormAllocationRepository) Add(ctx context.Context, record allocation.Record) error {
	if err := record.Status.Validate(); err != nil {
		return err
	}

	dto := recordFromDomain(record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return allocation.ErrPendingConflict
		}
		return err
	}
	return nil
}

// GetPendingForOrder returns the order's single pending record.
func (r *GormAllocationRepository) GetPendingForOrder(ctx context.Context, orderID kernel.UUID) (allocation.Record, error) {
	if err := orderID.Validate(); err != nil {
		return allocation.Record{}, err
	}

	var dto RecordDTO
	err := r.db.WithContext(ctx).
		First(&dto, "order_id = ? AND status = ?", orderID.Bytes(), string(allocation.ShipmentPending)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return allocation.Record{}, errs.NewObjectNotFoundError("pending allocation", orderID.String())
		}
		return allocation.Record{}, err
	}

	return recordToDomain(dto)
}

// GetAllForOrder lists the order's allocation history, newest first.
func (r *GormAllocationRepository) GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]allocation.Record, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []RecordDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	records := make([]allocation.Record, 0, len(dtos))
	for _, dto := range dtos {
		record, convErr := recordToDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		records = append(records, record)
	}
	return records, nil
}

// MarkStatus transitions one record to the given shipment status.
func (r *GormAllocationRepository) MarkStatus(ctx context.Context, recordID kernel.UUID, status allocation.ShipmentStatus) error {
	if err := recordID.Validate(); err != nil {
		return err
	}
	if err := status.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&RecordDTO{}).
		Where("id = ?", recordID.Bytes()).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("allocation record", recordID.String())
	}
	return nil
}

// SupersedePending marks every pending record of the order as superseded.
// Affecting zero rows is fine: a first allocation has nothing to supersede.
func (r *GormAllocationRepository) SupersedePending(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&RecordDTO{}).
		Where("order_id = ? AND status = ?", orderID.Bytes(), string(allocation.ShipmentPending)).
		Update("status", string(allocation.ShipmentSuperseded)).Error
}

// CountForPartnerSince counts the partner's non-superseded records created
// at or after the cutoff.
func (r *GormAllocationRepository) CountForPartnerSince(ctx context.Context, partnerID kernel.UUID, cutoff time.Time) (int, error) {
	if err := partnerID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&RecordDTO{}).
		Where("partner_id = ? AND status <> ? AND created_at >= ?",
			partnerID.Bytes(), string(allocation.ShipmentSuperseded), cutoff).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// GormFallbackRepository implements FallbackRepository using GORM.
type GormFallbackRepository struct {
	db *gorm.DB
}

// NewGormFallbackRepository creates a new GORM fallback repository.
func NewGormFallbackRepository(db *gorm.DB) *GormFallbackRepository {
	return &GormFallbackRepository{db: db}
}

// Add persists a fallback log entry.
func (r *GormFallbackRepository) Add(ctx context.Context, entry allocation.FallbackEntry) error {
	dto := fallbackFromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetAllForOrder lists the order's fallback history, newest first.
func (r *GormFallbackRepository) GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]allocation.FallbackEntry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []FallbackDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]allocation.FallbackEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, convErr := fallbackToDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
