// Package ports defines repository interfaces for the COD fulfillment domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/order"
)

// OrderFilter narrows order listings. Zero values mean "no constraint";
// Limit defaults to a repository-chosen page size when zero.
type OrderFilter struct {
	Status order.Status
	Stage  order.Stage
	Limit  int
	Offset int
}

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and listing orders with their
// full stage-payload history.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order including all recorded stage payloads.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAll lists orders newest first, applying the filter's status, stage,
	// and pagination constraints.
	GetAll(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}
