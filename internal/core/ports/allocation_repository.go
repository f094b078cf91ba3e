package ports

import (
	"context"
	"time"

	"codship/internal/core/domain/model/allocation"
	"codship/internal/core/domain/model/kernel"
)

// AllocationRepository defines the persistence contract for allocation
// records. Records are append-mostly: an order accumulates one record per
// allocation attempt, and at most one of them is pending.
type AllocationRepository interface {
	// Add persists a new allocation record.
	Add(ctx context.Context, record allocation.Record) error

	// GetPendingForOrder returns the order's single pending record.
	// Returns an ObjectNotFound error when the order has none.
	GetPendingForOrder(ctx context.Context, orderID kernel.UUID) (allocation.Record, error)

	// GetAllForOrder lists the order's allocation history, newest first.
	GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]allocation.Record, error)

	// MarkStatus transitions one record to the given shipment status.
	MarkStatus(ctx context.Context, recordID kernel.UUID, status allocation.ShipmentStatus) error

	// SupersedePending marks every pending record of the order as superseded.
	// Called before inserting a replacement record so the one-pending
	// invariant holds.
	SupersedePending(ctx context.Context, orderID kernel.UUID) error

	// CountForPartnerSince counts the partner's non-superseded allocation
	// records created at or after the cutoff. This is the rolling-window
	// load used for diversification and capacity checks.
	CountForPartnerSince(ctx context.Context, partnerID kernel.UUID, cutoff time.Time) (int, error)
}

// FallbackRepository records partner reassignments after delivery failures.
type FallbackRepository interface {
	// Add persists a fallback log entry.
	Add(ctx context.Context, entry allocation.FallbackEntry) error

	// GetAllForOrder lists the order's fallback history, newest first.
	GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]allocation.FallbackEntry, error)
}
