package partner_test

import (
	"testing"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/partner"
	"codship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPartnerInput() (kernel.UUID, []kernel.Region, partner.FeePolicy, partner.PerformanceStats, partner.Partnership) {
	cairo, _ := kernel.NewRegion("CAI")
	giza, _ := kernel.NewRegion("GIZ")

	return kernel.NewUUID(),
		[]kernel.Region{cairo, giza},
		partner.FeePolicy{DeliveryFee: 25, CODFeePercentage: 2.5, CODFeeFixed: 5},
		partner.PerformanceStats{SuccessRate: 95, AvgDeliveryDays: 3, ComplaintRate: 0.02, Rating: 4},
		partner.Partnership{AllocationWeight: 1, Priority: 1}
}

func TestNewPartner(t *testing.T) {
	t.Run("should create valid partner", func(t *testing.T) {
		id, coverage, fees, stats, terms := validPartnerInput()

		p, err := partner.NewPartner(id, "Bosta", coverage, fees, stats, terms, 200)

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		assert.True(t, p.ID().IsEqual(id))
		assert.Equal(t, "Bosta", p.Name())
		assert.True(t, p.IsActive())
		assert.False(t, p.IsSuspended())
		assert.Equal(t, 200, p.MaxAssignments())
	})

	t.Run("should reject empty name", func(t *testing.T) {
		id, coverage, fees, stats, terms := validPartnerInput()

		_, err := partner.NewPartner(id, "", coverage, fees, stats, terms, 200)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject success rate above 100", func(t *testing.T) {
		id, coverage, fees, _, terms := validPartnerInput()
		stats := partner.PerformanceStats{SuccessRate: 120, AvgDeliveryDays: 3, Rating: 4}

		_, err := partner.NewPartner(id, "Bosta", coverage, fees, stats, terms, 200)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject negative fees", func(t *testing.T) {
		id, coverage, _, stats, terms := validPartnerInput()
		fees := partner.FeePolicy{DeliveryFee: -1}

		_, err := partner.NewPartner(id, "Bosta", coverage, fees, stats, terms, 200)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject non-positive capacity", func(t *testing.T) {
		id, coverage, fees, stats, terms := validPartnerInput()

		_, err := partner.NewPartner(id, "Bosta", coverage, fees, stats, terms, 0)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestPartner_Covers(t *testing.T) {
	t.Run("should match covered region regardless of case", func(t *testing.T) {
		id, coverage, fees, stats, terms := validPartnerInput()
		p, _ := partner.NewPartner(id, "Bosta", coverage, fees, stats, terms, 200)

		cairoLower, _ := kernel.NewRegion("cai")
		alexandria, _ := kernel.NewRegion("ALX")

		assert.True(t, p.Covers(cairoLower))
		assert.False(t, p.Covers(alexandria))
	})

	t.Run("should cover nothing with empty coverage", func(t *testing.T) {
		id, _, fees, stats, terms := validPartnerInput()
		p, _ := partner.NewPartner(id, "Bosta", nil, fees, stats, terms, 200)

		cairo, _ := kernel.NewRegion("CAI")
		assert.False(t, p.Covers(cairo))
	})
}

func TestPartner_TotalCost(t *testing.T) {
	t.Run("should combine flat, percentage, and fixed fees", func(t *testing.T) {
		id, coverage, _, stats, terms := validPartnerInput()
		fees := partner.FeePolicy{DeliveryFee: 25, CODFeePercentage: 2.5, CODFeeFixed: 5}
		p, _ := partner.NewPartner(id, "Bosta", coverage, fees, stats, terms, 200)

		// 25 + 1000*2.5/100 + 5 = 55
		assert.InDelta(t, 55.0, p.TotalCost(1000), 1e-9)
	})
}

func TestPartner_Validate(t *testing.T) {
	t.Run("should reject nil and zero-value partner", func(t *testing.T) {
		var p *partner.Partner
		require.ErrorIs(t, p.Validate(), partner.ErrPartnerIsNotConstructed)

		require.ErrorIs(t, (&partner.Partner{}).Validate(), partner.ErrPartnerIsNotConstructed)
	})
}

func TestRestorePartner(t *testing.T) {
	t.Run("should restore suspended partner with reason", func(t *testing.T) {
		id, coverage, fees, stats, terms := validPartnerInput()

		p, err := partner.RestorePartner(id, "Aramex", coverage, fees, stats, terms, 150, true, true, "repeated SLA breaches")

		require.NoError(t, err)
		assert.True(t, p.IsSuspended())
		assert.Equal(t, "repeated SLA breaches", p.SuspensionReason())
	})
}
