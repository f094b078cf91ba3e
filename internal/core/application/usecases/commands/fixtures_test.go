package commands_test

import (
	"testing"
	"time"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/order"
	"codship/internal/core/domain/model/partner"

	"github.com/stretchr/testify/require"
)

func cairoRegion(t *testing.T) kernel.Region {
	t.Helper()
	region, err := kernel.NewRegion("CAI")
	require.NoError(t, err)
	return region
}

func validCustomer() order.Customer {
	return order.Customer{Name: "Nour", Phone: "+201000000000"}
}

func validAddress(t *testing.T) order.Address {
	t.Helper()
	return order.Address{Region: cairoRegion(t), City: "Cairo", Street: "Tahrir Sq 1"}
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "SO-1001", validCustomer(), validAddress(t),
		850, time.Now().UTC())
	require.NoError(t, err)
	return o
}

func newCoveringPartner(t *testing.T, name string) *partner.Partner {
	t.Helper()
	p, err := partner.NewPartner(kernel.NewUUID(), name,
		[]kernel.Region{cairoRegion(t)},
		partner.FeePolicy{DeliveryFee: 20, CODFeePercentage: 1, CODFeeFixed: 5},
		partner.PerformanceStats{SuccessRate: 92, AvgDeliveryDays: 2.5, ComplaintRate: 0.01, Rating: 4.4},
		partner.Partnership{AllocationWeight: 1.5, Priority: 4},
		200)
	require.NoError(t, err)
	return p
}
