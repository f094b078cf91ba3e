package allocation

import (
	"time"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/pkg/errs"
)

// FallbackEntry is the append-only audit record of one partner replacement.
type FallbackEntry struct {
	ID                kernel.UUID
	OrderID           kernel.UUID
	OriginalPartnerID kernel.UUID
	NewPartnerID      kernel.UUID
	Reason            string
	CreatedAt         time.Time
}

// NewFallbackEntry creates a fallback audit entry.
func NewFallbackEntry(orderID, originalPartnerID, newPartnerID kernel.UUID, reason string, at time.Time) (FallbackEntry, error) {
	for _, id := range []kernel.UUID{orderID, originalPartnerID, newPartnerID} {
		if err := id.Validate(); err != nil {
			return FallbackEntry{}, err
		}
	}
	if reason == "" {
		return FallbackEntry{}, errs.NewValueIsRequiredError("fallback reason")
	}

	return FallbackEntry{
		ID:                kernel.NewUUID(),
		OrderID:           orderID,
		OriginalPartnerID: originalPartnerID,
		NewPartnerID:      newPartnerID,
		Reason:            reason,
		CreatedAt:         at,
	}, nil
}
