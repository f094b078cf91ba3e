package services

import (
	"math"
	"sort"
)

// loadPenaltyCeiling caps the diversification penalty at 20% of the raw
// score: a partner at or over capacity is down-weighted, not excluded.
const loadPenaltyCeiling = 0.2

// DiversifiedPartner extends a scored partner with its rolling-window load
// and the load-adjusted score used for the final selection.
type DiversifiedPartner struct {
	ScoredPartner
	AllocationCount int
	LoadRatio       float64
	Adjusted        float64
}

// Diversify applies the load-diversification penalty to ranked partners.
// counts maps partner id (string form) to the partner's allocation count in
// the trailing 24-hour window; missing entries mean zero load.
//
//	loadRatio = clamp(count / maxAssignments, 0, 1)
//	adjusted  = raw × (1 − loadRatio × 0.2)
//
// The ratio is clamped so a partner already over capacity is penalized by at
// most 20% and the adjusted score can never go negative. The result is
// sorted by descending adjusted score with the same id tie-break as Rank.
func Diversify(ranked []ScoredPartner, counts map[string]int) []DiversifiedPartner {
	diversified := make([]DiversifiedPartner, 0, len(ranked))
	for _, sp := range ranked {
		count := counts[sp.Partner.ID().String()]
		ratio := clamp01(float64(count) / float64(sp.Partner.MaxAssignments()))

		diversified = append(diversified, DiversifiedPartner{
			ScoredPartner:   sp,
			AllocationCount: count,
			LoadRatio:       ratio,
			Adjusted:        sp.Total * (1 - ratio*loadPenaltyCeiling),
		})
	}

	sort.Slice(diversified, func(i, j int) bool {
		if diversified[i].Adjusted != diversified[j].Adjusted {
			return diversified[i].Adjusted > diversified[j].Adjusted
		}
		return diversified[i].Partner.ID().String() < diversified[j].Partner.ID().String()
	})

	return diversified
}

// round2 keeps reported scores readable in allocation reasons.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
