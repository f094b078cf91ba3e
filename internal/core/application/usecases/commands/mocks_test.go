package commands_test

import (
	"context"
	"time"

	"codship/internal/core/application/usecases/commands"
	"codship/internal/core/domain/model/allocation"
	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/notification"
	"codship/internal/core/domain/model/order"
	"codship/internal/core/domain/model/partner"
	"codship/internal/core/domain/model/tracking"
	"codship/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAll(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockPartnerRepository struct{ mock.Mock }

func (m *MockPartnerRepository) Add(ctx context.Context, aggregate *partner.Partner) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockPartnerRepository) Update(ctx context.Context, aggregate *partner.Partner) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockPartnerRepository) Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) GetAll(ctx context.Context) ([]*partner.Partner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) Lock(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAllocationRepository struct{ mock.Mock }

func (m *MockAllocationRepository) Add(ctx context.Context, record allocation.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAllocationRepository) GetPendingForOrder(
	ctx context.Context, orderID kernel.UUID,
) (allocation.Record, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(allocation.Record), args.Error(1)
}

func (m *MockAllocationRepository) GetAllForOrder(
	ctx context.Context, orderID kernel.UUID,
) ([]allocation.Record, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]allocation.Record), args.Error(1)
}

func (m *MockAllocationRepository) MarkStatus(
	ctx context.Context, recordID kernel.UUID, status allocation.ShipmentStatus,
) error {
	args := m.Called(ctx, recordID, status)
	return args.Error(0)
}

func (m *MockAllocationRepository) SupersedePending(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockAllocationRepository) CountForPartnerSince(
	ctx context.Context, partnerID kernel.UUID, cutoff time.Time,
) (int, error) {
	args := m.Called(ctx, partnerID, cutoff)
	return args.Int(0), args.Error(1)
}

type MockFallbackRepository struct{ mock.Mock }

func (m *MockFallbackRepository) Add(ctx context.Context, entry allocation.FallbackEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockFallbackRepository) GetAllForOrder(
	ctx context.Context, orderID kernel.UUID,
) ([]allocation.FallbackEntry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]allocation.FallbackEntry), args.Error(1)
}

type MockTrackingRepository struct{ mock.Mock }

func (m *MockTrackingRepository) Add(ctx context.Context, entry tracking.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTrackingRepository) GetAllForOrder(
	ctx context.Context, orderID kernel.UUID,
) ([]tracking.Entry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tracking.Entry), args.Error(1)
}

type MockNotificationOutbox struct{ mock.Mock }

func (m *MockNotificationOutbox) Add(ctx context.Context, intent notification.Intent) error {
	args := m.Called(ctx, intent)
	return args.Error(0)
}

func (m *MockNotificationOutbox) GetPending(
	ctx context.Context, limit int,
) ([]notification.Intent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Intent), args.Error(1)
}

func (m *MockNotificationOutbox) MarkSent(ctx context.Context, intentID kernel.UUID) error {
	args := m.Called(ctx, intentID)
	return args.Error(0)
}

func (m *MockNotificationOutbox) MarkFailed(
	ctx context.Context, intentID kernel.UUID, attempts int, final bool,
) error {
	args := m.Called(ctx, intentID, attempts, final)
	return args.Error(0)
}

// MockUoW satisfies every command unit-of-work interface; individual tests
// only wire the repositories their handler touches.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) PartnerRepository() ports.PartnerRepository {
	args := m.Called()
	return args.Get(0).(ports.PartnerRepository)
}

func (m *MockUoW) AllocationRepository() ports.AllocationRepository {
	args := m.Called()
	return args.Get(0).(ports.AllocationRepository)
}

func (m *MockUoW) FallbackRepository() ports.FallbackRepository {
	args := m.Called()
	return args.Get(0).(ports.FallbackRepository)
}

func (m *MockUoW) TrackingRepository() ports.TrackingRepository {
	args := m.Called()
	return args.Get(0).(ports.TrackingRepository)
}

func (m *MockUoW) NotificationOutbox() ports.NotificationOutbox {
	args := m.Called()
	return args.Get(0).(ports.NotificationOutbox)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockStageUoWFactory struct{ mock.Mock }

func (m *MockStageUoWFactory) Create() commands.StageUoW {
	args := m.Called()
	return args.Get(0).(commands.StageUoW)
}

type MockCancelUoWFactory struct{ mock.Mock }

func (m *MockCancelUoWFactory) Create() commands.CancelUoW {
	args := m.Called()
	return args.Get(0).(commands.CancelUoW)
}

type MockAllocationUoWFactory struct{ mock.Mock }

func (m *MockAllocationUoWFactory) Create() commands.AllocationUoW {
	args := m.Called()
	return args.Get(0).(commands.AllocationUoW)
}

type MockFallbackUoWFactory struct{ mock.Mock }

func (m *MockFallbackUoWFactory) Create() commands.FallbackUoW {
	args := m.Called()
	return args.Get(0).(commands.FallbackUoW)
}
