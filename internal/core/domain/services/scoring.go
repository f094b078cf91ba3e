package services

import (
	"math"
	"sort"

	"codship/internal/core/domain/model/partner"
)

// Criteria weights. The five weights sum to 1.0; scoring combines five
// normalized sub-scores in [0,1] into one weighted total.
const (
	WeightPerformance = 0.35
	WeightCost        = 0.25
	WeightSpeed       = 0.20
	WeightReliability = 0.15
	WeightPartnership = 0.05
)

// DefaultCostReferenceCap is the totalCost (in currency units) at which the
// cost sub-score bottoms out at zero.
const DefaultCostReferenceCap = 100.0

// maxDeliveryDays normalizes the speed sub-score: partners averaging seven
// days or more score zero on speed.
const maxDeliveryDays = 7.0

// SubScores holds the five normalized criteria for one partner and order.
type SubScores struct {
	Performance float64
	Cost        float64
	Speed       float64
	Reliability float64
	Partnership float64
}

// Weighted combines the sub-scores into the total raw score.
func (s SubScores) Weighted() float64 {
	return s.Performance*WeightPerformance +
		s.Cost*WeightCost +
		s.Speed*WeightSpeed +
		s.Reliability*WeightReliability +
		s.Partnership*WeightPartnership
}

// ScoredPartner pairs a partner with its scores for one specific order.
type ScoredPartner struct {
	Partner *partner.Partner
	Scores  SubScores
	Total   float64
}

// Scorer computes weighted multi-criteria scores for eligible partners.
// The cost reference cap is configurable; the weights are fixed.
type Scorer struct {
	costReferenceCap float64
}

// NewScorer creates a Scorer. A non-positive costReferenceCap falls back to
// DefaultCostReferenceCap.
func NewScorer(costReferenceCap float64) Scorer {
	if costReferenceCap <= 0 {
		costReferenceCap = DefaultCostReferenceCap
	}
	return Scorer{costReferenceCap: costReferenceCap}
}

// Score computes the sub-scores and weighted total for one partner and the
// order's COD amount.
//
// Formulas:
//   - performance = successRate / 100
//   - cost = max(0, 1 − totalCost/referenceCap); monotonically non-increasing
//     in totalCost
//   - speed = max(0, 1 − avgDeliveryDays/7); monotonically non-increasing in
//     delivery time
//   - reliability = avg(max(0, 1 − complaintRate×10), rating/5)
//   - partnership = clamp(allocationWeight × priority / 10, 0, 1)
func (s Scorer) Score(p *partner.Partner, codAmount float64) ScoredPartner {
	stats := p.Stats()
	terms := p.Partnership()

	scores := SubScores{
		Performance: stats.SuccessRate / 100,
		Cost:        math.Max(0, 1-p.TotalCost(codAmount)/s.costReferenceCap),
		Speed:       math.Max(0, 1-stats.AvgDeliveryDays/maxDeliveryDays),
		Reliability: (math.Max(0, 1-stats.ComplaintRate*10) + stats.Rating/5) / 2,
		Partnership: clamp01(terms.AllocationWeight * float64(terms.Priority) / 10),
	}

	return ScoredPartner{Partner: p, Scores: scores, Total: scores.Weighted()}
}

// Rank scores every partner and returns them sorted by descending total.
// Ties break deterministically by partner id ascending so that repeated runs
// over the same input produce the same ordering.
func (s Scorer) Rank(partners []*partner.Partner, codAmount float64) []ScoredPartner {
	ranked := make([]ScoredPartner, 0, len(partners))
	for _, p := range partners {
		ranked = append(ranked, s.Score(p, codAmount))
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		return ranked[i].Partner.ID().String() < ranked[j].Partner.ID().String()
	})

	return ranked
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
