// Package allocation contains the records produced by the partner-allocation
// engine: the allocation record binding an order to a partner, and the
// fallback log entry written when an assignment is replaced.
package allocation

import (
	"errors"
	"fmt"
	"time"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/pkg/errs"
)

// ErrPendingConflict is returned by repositories when inserting a pending
// record would leave an order with two of them. The storage layer enforces
// the invariant with a partial unique index; callers re-read state and
// retry.
var ErrPendingConflict = errors.New("a pending allocation record already exists for the order")

// ShipmentStatus tracks the life of one allocation record.
//
// At most one record per order may be Pending at any time. Creating a new
// record supersedes the previous pending one in the same unit of work;
// fallback marks it Failed instead.
type ShipmentStatus string

const (
	// ShipmentPending is the active assignment awaiting delivery.
	ShipmentPending ShipmentStatus = "pending"

	// ShipmentDelivered marks a completed delivery.
	ShipmentDelivered ShipmentStatus = "delivered"

	// ShipmentFailed marks an assignment the partner could not complete;
	// set by the fallback handler before reassigning.
	ShipmentFailed ShipmentStatus = "failed"

	// ShipmentSuperseded marks a pending record replaced by a newer
	// allocation for the same order.
	ShipmentSuperseded ShipmentStatus = "superseded"
)

// Validate checks that the status is a known member.
func (s ShipmentStatus) Validate() error {
	switch s {
	case ShipmentPending, ShipmentDelivered, ShipmentFailed, ShipmentSuperseded:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("shipment status",
			fmt.Errorf("%q is not a valid shipment status", string(s)))
	}
}

// Record is one allocation of a shipping partner to an order, with the score
// that won the selection and a human-readable reason for auditability.
type Record struct {
	ID        kernel.UUID
	OrderID   kernel.UUID
	PartnerID kernel.UUID
	Score     float64
	Reason    string
	Status    ShipmentStatus
	CreatedAt time.Time
}

// NewRecord creates a pending allocation record.
func NewRecord(orderID, partnerID kernel.UUID, score float64, reason string, at time.Time) (Record, error) {
	if err := orderID.Validate(); err != nil {
		return Record{}, err
	}
	if err := partnerID.Validate(); err != nil {
		return Record{}, err
	}
	if reason == "" {
		return Record{}, errs.NewValueIsRequiredError("allocation reason")
	}

	return Record{
		ID:        kernel.NewUUID(),
		OrderID:   orderID,
		PartnerID: partnerID,
		Score:     score,
		Reason:    reason,
		Status:    ShipmentPending,
		CreatedAt: at,
	}, nil
}
