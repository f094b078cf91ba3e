package services

import (
	"errors"
	"fmt"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/order"
	"codship/internal/core/domain/model/partner"
)

// ErrNoEligiblePartners is returned when no candidate survives eligibility
// filtering (and exclusion, during fallback). The caller maps it to the
// operation-specific error: no partners available on first allocation, no
// alternative available on fallback.
var ErrNoEligiblePartners = errors.New("no eligible partners for region")

// Selection is the allocator's verdict for one order.
type Selection struct {
	Partner  *partner.Partner
	Scores   SubScores
	RawScore float64
	Adjusted float64
	Reason   string
}

// Allocator is the domain service that picks the best shipping partner for a
// COD order: it filters candidates by eligibility, ranks them with the
// weighted scoring engine, applies the load-diversification penalty, and
// selects the top adjusted score.
//
// Fallback reuses the same path with the failed partner excluded.
//
// Example:
//
//	allocator := services.NewAllocator(services.NewScorer(0))
//	selection, err := allocator.Allocate(o, candidates, counts, nil)
//	if errors.Is(err, services.ErrNoEligiblePartners) {
//	    // No partner covers the order's region
//	    return
//	}
type Allocator struct {
	scorer Scorer
}

// NewAllocator creates an Allocator using the given scorer.
func NewAllocator(scorer Scorer) Allocator {
	return Allocator{scorer: scorer}
}

// Allocate selects the best partner for the order.
//
// counts maps partner id to the partner's allocation count over the trailing
// 24-hour window. exclude, when non-nil, removes one partner from
// consideration; the fallback handler passes the failed partner here.
func (a Allocator) Allocate(
	o *order.Order,
	candidates []*partner.Partner,
	counts map[string]int,
	exclude *kernel.UUID,
) (Selection, error) {
	if err := o.Validate(); err != nil {
		return Selection{}, err
	}

	eligible := FilterEligible(o.Address().Region, candidates)
	if exclude != nil {
		kept := make([]*partner.Partner, 0, len(eligible))
		for _, p := range eligible {
			if !p.ID().IsEqual(*exclude) {
				kept = append(kept, p)
			}
		}
		eligible = kept
	}

	if len(eligible) == 0 {
		return Selection{}, ErrNoEligiblePartners
	}

	ranked := a.scorer.Rank(eligible, o.CODAmount())
	best := Diversify(ranked, counts)[0]

	return NewSelection(best), nil
}

// NewSelection builds a Selection from a diversified partner. The allocation
// handler also calls it directly after refreshing the winner's load count
// under a partner row lock.
func NewSelection(p DiversifiedPartner) Selection {
	return Selection{
		Partner:  p.Partner,
		Scores:   p.Scores,
		RawScore: p.Total,
		Adjusted: p.Adjusted,
		Reason:   allocationReason(p),
	}
}

// allocationReason renders the audit-friendly explanation stored on the
// allocation record.
func allocationReason(p DiversifiedPartner) string {
	return fmt.Sprintf(
		"selected %s: adjusted score %.2f (raw %.2f; performance %.2f, cost %.2f, speed %.2f, reliability %.2f, partnership %.2f; load %d/%d)",
		p.Partner.Name(),
		round2(p.Adjusted),
		round2(p.Total),
		p.Scores.Performance,
		p.Scores.Cost,
		p.Scores.Speed,
		p.Scores.Reliability,
		p.Scores.Partnership,
		p.AllocationCount,
		p.Partner.MaxAssignments(),
	)
}
