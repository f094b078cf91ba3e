package ports

import (
	"context"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/tracking"
)

// TrackingRepository is the append-only audit log of order lifecycle events.
// Entries are never updated or deleted.
type TrackingRepository interface {
	// Add appends a tracking entry.
	Add(ctx context.Context, entry tracking.Entry) error

	// GetAllForOrder lists the order's tracking entries, newest first.
	GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]tracking.Entry, error)
}
