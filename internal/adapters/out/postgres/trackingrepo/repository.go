package trackingrepo

import (
	"context"

	"gorm.io/gorm"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/tracking"
)

// GormTrackingRepository implements TrackingRepository using GORM.
// The log is append-only; there are no update or delete operations.
type GormTrackingRepository struct {
	db *gorm.DB
}

// NewGormTrackingRepository creates a new GORM tracking repository.
func NewGormTrackingRepository(db *gorm.DB) *GormTrackingRepository {
	return &GormTrackingRepository{db: db}
}

// Add appends a tracking entry.
func (r *GormTrackingRepository) Add(ctx context.Context, entry tracking.Entry) error {
	dto := fromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetAllForOrder lists the order's tracking entries, newest first.
func (r *GormTrackingRepository) GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]tracking.Entry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EntryDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]tracking.Entry, 0, len(dtos))
	for _, dto := range dtos {
		entry, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
