package services

import (
	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/partner"
)

// FilterEligible narrows candidates to partners that can take an order for
// the given region: active, not suspended, and covering the region.
//
// An empty result is a normal outcome (no partner serves the region), not an
// error; the caller decides how to surface it.
func FilterEligible(region kernel.Region, candidates []*partner.Partner) []*partner.Partner {
	eligible := make([]*partner.Partner, 0, len(candidates))
	for _, p := range candidates {
		if p == nil || p.Validate() != nil {
			continue
		}
		if !p.IsActive() || p.IsSuspended() {
			continue
		}
		if !p.Covers(region) {
			continue
		}
		eligible = append(eligible, p)
	}
	return eligible
}
