package services_test

import (
	"testing"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/partner"
	"codship/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiversify(t *testing.T) {
	t.Run("should let a lightly loaded partner overtake a loaded one", func(t *testing.T) {
		// Partner A raw 0.80 at 0/200, partner B raw 0.85 at 200/200.
		// B's adjusted score drops to 0.85 * 0.8 = 0.68 and A wins.
		partnerA := averagePartner(t, "A")
		partnerB := averagePartner(t, "B")

		ranked := []services.ScoredPartner{
			{Partner: partnerB, Total: 0.85},
			{Partner: partnerA, Total: 0.80},
		}
		counts := map[string]int{
			partnerB.ID().String(): 200,
		}

		diversified := services.Diversify(ranked, counts)

		require.Len(t, diversified, 2)
		assert.True(t, diversified[0].Partner.IsEqual(partnerA))
		assert.InDelta(t, 0.80, diversified[0].Adjusted, 1e-9)
		assert.True(t, diversified[1].Partner.IsEqual(partnerB))
		assert.InDelta(t, 0.68, diversified[1].Adjusted, 1e-9)
		assert.InDelta(t, 1.0, diversified[1].LoadRatio, 1e-9)
	})

	t.Run("should leave an unloaded partner's score untouched", func(t *testing.T) {
		p := averagePartner(t, "Idle")

		diversified := services.Diversify(
			[]services.ScoredPartner{{Partner: p, Total: 0.75}}, nil)

		require.Len(t, diversified, 1)
		assert.Zero(t, diversified[0].AllocationCount)
		assert.Zero(t, diversified[0].LoadRatio)
		assert.InDelta(t, 0.75, diversified[0].Adjusted, 1e-9)
	})

	t.Run("should cap the penalty at twenty percent when over capacity", func(t *testing.T) {
		p := averagePartner(t, "Swamped")

		diversified := services.Diversify(
			[]services.ScoredPartner{{Partner: p, Total: 0.90}},
			map[string]int{p.ID().String(): 1000})

		require.Len(t, diversified, 1)
		assert.InDelta(t, 1.0, diversified[0].LoadRatio, 1e-9)
		assert.InDelta(t, 0.90*0.8, diversified[0].Adjusted, 1e-9)
	})

	t.Run("should break adjusted-score ties by partner id", func(t *testing.T) {
		twinA := averagePartner(t, "TwinA")
		twinB := averagePartner(t, "TwinB")

		ranked := []services.ScoredPartner{
			{Partner: twinA, Total: 0.70},
			{Partner: twinB, Total: 0.70},
		}

		diversified := services.Diversify(ranked, nil)

		require.Len(t, diversified, 2)
		assert.Less(t, diversified[0].Partner.ID().String(), diversified[1].Partner.ID().String())
	})
}

func TestFilterEligible(t *testing.T) {
	cairo, err := kernel.NewRegion("CAI")
	require.NoError(t, err)

	eligibleFees := partner.FeePolicy{DeliveryFee: 20}
	eligibleStats := partner.PerformanceStats{SuccessRate: 90, AvgDeliveryDays: 3, Rating: 4}
	eligibleTerms := partner.Partnership{AllocationWeight: 1, Priority: 5}

	t.Run("should keep only active covering partners", func(t *testing.T) {
		covering := testPartner(t, "Covers", []kernel.Region{cairo},
			eligibleFees, eligibleStats, eligibleTerms, 200)
		elsewhere := testPartner(t, "Elsewhere", []kernel.Region{mustRegion(t, "ALX")},
			eligibleFees, eligibleStats, eligibleTerms, 200)

		eligible := services.FilterEligible(cairo, []*partner.Partner{covering, elsewhere})

		require.Len(t, eligible, 1)
		assert.True(t, eligible[0].IsEqual(covering))
	})

	t.Run("should drop inactive partners", func(t *testing.T) {
		inactive, err := partner.RestorePartner(kernel.NewUUID(), "Inactive",
			[]kernel.Region{cairo}, eligibleFees, eligibleStats, eligibleTerms,
			200, false, false, "")
		require.NoError(t, err)

		eligible := services.FilterEligible(cairo, []*partner.Partner{inactive})

		assert.Empty(t, eligible)
	})

	t.Run("should drop suspended partners", func(t *testing.T) {
		suspended, err := partner.RestorePartner(kernel.NewUUID(), "Suspended",
			[]kernel.Region{cairo}, eligibleFees, eligibleStats, eligibleTerms,
			200, true, true, "repeated pickup failures")
		require.NoError(t, err)

		eligible := services.FilterEligible(cairo, []*partner.Partner{suspended})

		assert.Empty(t, eligible)
	})

	t.Run("should return empty slice when no candidates given", func(t *testing.T) {
		assert.Empty(t, services.FilterEligible(cairo, nil))
	})
}
