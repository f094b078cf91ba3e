package partner

import (
	"errors"
	"fmt"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/pkg/errs"
)

// ErrPartnerIsNotConstructed is returned when a Partner instance was not created
// through the NewPartner or RestorePartner factory functions.
var ErrPartnerIsNotConstructed = errors.New("Partner must be created via NewPartner or RestorePartner")

// FeePolicy describes what a partner charges for a COD shipment: a flat
// delivery fee plus a percentage and a fixed fee on the collected amount.
type FeePolicy struct {
	DeliveryFee      float64
	CODFeePercentage float64
	CODFeeFixed      float64
}

// Validate checks that no fee component is negative.
func (f FeePolicy) Validate() error {
	if f.DeliveryFee < 0 || f.CODFeePercentage < 0 || f.CODFeeFixed < 0 {
		return errs.NewValueIsInvalidErrorWithCause("fee policy",
			fmt.Errorf("fees must not be negative: %+v", f))
	}
	return nil
}

// PerformanceStats holds the partner's historical delivery performance,
// maintained by the partner-management subsystem.
type PerformanceStats struct {
	SuccessRate     float64 // percentage, 0-100
	AvgDeliveryDays float64
	ComplaintRate   float64 // fraction, e.g. 0.02 for 2%
	Rating          float64 // 0-5
}

// Validate checks each statistic against its natural bounds.
func (p PerformanceStats) Validate() error {
	if p.SuccessRate < 0 || p.SuccessRate > 100 {
		return errs.NewValueIsOutOfRangeError("success rate", p.SuccessRate, 0, 100)
	}
	if p.AvgDeliveryDays < 0 {
		return errs.NewValueIsInvalidErrorWithCause("avg delivery days",
			fmt.Errorf("%g is negative", p.AvgDeliveryDays))
	}
	if p.ComplaintRate < 0 {
		return errs.NewValueIsInvalidErrorWithCause("complaint rate",
			fmt.Errorf("%g is negative", p.ComplaintRate))
	}
	if p.Rating < 0 || p.Rating > 5 {
		return errs.NewValueIsOutOfRangeError("rating", p.Rating, 0, 5)
	}
	return nil
}

// Partnership holds the commercial terms influencing allocation preference.
type Partnership struct {
	AllocationWeight float64
	Priority         int
}

// Validate checks that weight and priority are positive.
func (p Partnership) Validate() error {
	if p.AllocationWeight <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("allocation weight",
			fmt.Errorf("%g is not greater than 0", p.AllocationWeight))
	}
	if p.Priority < 1 {
		return errs.NewValueIsInvalidErrorWithCause("priority",
			fmt.Errorf("%d is not greater than 0", p.Priority))
	}
	return nil
}

// Partner represents a shipping company that can be assigned COD orders.
//
// Partner follows these invariants:
//   - Must have a valid unique identifier and a non-empty name
//   - Fee, performance, and partnership values stay within their bounds
//   - MaxAssignments (rolling 24h capacity) must be positive
//   - Can only be created through NewPartner or RestorePartner
//
// The allocation engine treats partners as read-only input; lifecycle flags
// (active, suspended) are toggled by the partner-management subsystem.
type Partner struct {
	id               kernel.UUID
	name             string
	coverage         []kernel.Region
	fees             FeePolicy
	stats            PerformanceStats
	partnership      Partnership
	maxAssignments   int
	active           bool
	suspended        bool
	suspensionReason string

	isConstructed bool
}

// NewPartner creates a Partner with validation. New partners start active and
// not suspended.
func NewPartner(
	id kernel.UUID,
	name string,
	coverage []kernel.Region,
	fees FeePolicy,
	stats PerformanceStats,
	partnership Partnership,
	maxAssignments int,
) (*Partner, error) {
	return RestorePartner(id, name, coverage, fees, stats, partnership, maxAssignments, true, false, "")
}

// RestorePartner reconstructs a Partner from persistence, including its
// lifecycle flags. All invariants are re-validated.
func RestorePartner(
	id kernel.UUID,
	name string,
	coverage []kernel.Region,
	fees FeePolicy,
	stats PerformanceStats,
	partnership Partnership,
	maxAssignments int,
	active bool,
	suspended bool,
	suspensionReason string,
) (*Partner, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("partner name")
	}
	for _, region := range coverage {
		if err := region.Validate(); err != nil {
			return nil, err
		}
	}
	if err := errors.Join(fees.Validate(), stats.Validate(), partnership.Validate()); err != nil {
		return nil, err
	}
	if maxAssignments < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause("max assignments",
			fmt.Errorf("%d is not greater than 0", maxAssignments))
	}

	return &Partner{
		id:               id,
		name:             name,
		coverage:         coverage,
		fees:             fees,
		stats:            stats,
		partnership:      partnership,
		maxAssignments:   maxAssignments,
		active:           active,
		suspended:        suspended,
		suspensionReason: suspensionReason,
		isConstructed:    true,
	}, nil
}

// Validate ensures the Partner was created through a factory function.
func (p *Partner) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPartnerIsNotConstructed
	}
	return nil
}

// IsEqual compares two partners by identity.
func (p *Partner) IsEqual(other *Partner) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the partner's unique identifier.
func (p *Partner) ID() kernel.UUID {
	return p.id
}

// Name returns the partner's display name.
func (p *Partner) Name() string {
	return p.name
}

// Coverage returns the set of regions the partner serves.
func (p *Partner) Coverage() []kernel.Region {
	return p.coverage
}

// Fees returns the partner's fee policy.
func (p *Partner) Fees() FeePolicy {
	return p.fees
}

// Stats returns the partner's performance statistics.
func (p *Partner) Stats() PerformanceStats {
	return p.stats
}

// Partnership returns the partner's commercial allocation terms.
func (p *Partner) Partnership() Partnership {
	return p.partnership
}

// MaxAssignments returns the partner's capacity for a rolling 24-hour window.
func (p *Partner) MaxAssignments() int {
	return p.maxAssignments
}

// IsActive reports whether the partner accepts new assignments.
func (p *Partner) IsActive() bool {
	return p.active
}

// IsSuspended reports whether the partner is temporarily barred from allocation.
func (p *Partner) IsSuspended() bool {
	return p.suspended
}

// SuspensionReason returns the operator-supplied reason for a suspension,
// empty when the partner is not suspended.
func (p *Partner) SuspensionReason() string {
	return p.suspensionReason
}

// Covers reports whether the partner serves the given region.
func (p *Partner) Covers(region kernel.Region) bool {
	for _, r := range p.coverage {
		if r.IsEqual(region) {
			return true
		}
	}
	return false
}

// TotalCost computes the full charge for delivering an order with the given
// COD amount: deliveryFee + codAmount*codFeePercentage/100 + codFeeFixed.
func (p *Partner) TotalCost(codAmount float64) float64 {
	return p.fees.DeliveryFee + codAmount*p.fees.CODFeePercentage/100 + p.fees.CODFeeFixed
}
