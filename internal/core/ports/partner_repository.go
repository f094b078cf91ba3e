package ports

import (
	"context"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/partner"
)

// PartnerRepository defines the persistence contract for shipping partners.
// The allocation engine reads partners; lifecycle changes come from the
// partner-management subsystem.
type PartnerRepository interface {
	// Add persists a new partner.
	Add(ctx context.Context, aggregate *partner.Partner) error

	// Update persists changes to an existing partner.
	Update(ctx context.Context, aggregate *partner.Partner) error

	// Get retrieves a partner by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error)

	// GetAll retrieves every registered partner, including inactive and
	// suspended ones. Eligibility filtering is a domain concern.
	GetAll(ctx context.Context) ([]*partner.Partner, error)

	// Lock acquires a row-level lock on the partner for the duration of the
	// current transaction. Allocation takes this lock before counting the
	// partner's rolling-window load so concurrent allocations to the same
	// partner serialize instead of both passing the capacity check.
	Lock(ctx context.Context, id kernel.UUID) error
}
