package commands_test

import (
	"testing"
	"time"

	"codship/internal/core/application/usecases/commands"
	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/notification"
	"codship/internal/core/domain/model/order"
	"codship/internal/pkg/errs"
	"codship/internal/pkg/orderlock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStageHandler(factory *MockStageUoWFactory) commands.UpdateStageCommandHandler {
	return commands.NewUpdateStageCommandHandler(factory, orderlock.NewKeyedMutex())
}

func stageUoW(ctx any, orderRepo *MockOrderRepository, trackingRepo *MockTrackingRepository,
	outbox *MockNotificationOutbox) *MockUoW {
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("TrackingRepository").Return(trackingRepo)
	uow.On("NotificationOutbox").Return(outbox)
	return uow
}

func TestUpdateStageCommandHandler_Handle_ShippingWithTrackingNumber(t *testing.T) {
	ctx := t.Context()
	testOrder := newPendingOrder(t)
	data := order.ShippingData{PickedUp: true, TrackingNumber: "TRK-42"}
	cmd, err := commands.NewUpdateStageCommand(testOrder.ID(), order.StageShipping, data, "agent-7")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	trackingRepo := new(MockTrackingRepository)
	outbox := new(MockNotificationOutbox)
	uow := stageUoW(ctx, orderRepo, trackingRepo, outbox)
	uow.On("Commit", ctx).Return(nil).Once()

	orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once()
	orderRepo.On("Update", ctx, testOrder).Return(nil).Once()
	trackingRepo.On("Add", ctx, mock.AnythingOfType("tracking.Entry")).Return(nil).Once()

	var queued notification.Intent
	outbox.On("Add", ctx, mock.AnythingOfType("notification.Intent")).
		Run(func(args mock.Arguments) {
			queued = args.Get(1).(notification.Intent)
		}).Return(nil).Once()

	factory := new(MockStageUoWFactory)
	factory.On("Create").Return(uow)

	result, err := newStageHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.StageShipping, result.Stage)
	assert.Equal(t, order.StatusInProgress, result.Status)
	assert.False(t, result.UpdatedAt.IsZero())
	assert.Equal(t, notification.ChannelSMS, queued.Channel)
	assert.Contains(t, queued.Template, "TRK-42")
	outbox.AssertExpectations(t)
	trackingRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestUpdateStageCommandHandler_Handle_SettlementCompletesOrder(t *testing.T) {
	ctx := t.Context()
	testOrder := newPendingOrder(t)
	cmd, err := commands.NewUpdateStageCommand(
		testOrder.ID(), order.StageSettlement, order.SettlementData{}, "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	trackingRepo := new(MockTrackingRepository)
	outbox := new(MockNotificationOutbox)
	uow := stageUoW(ctx, orderRepo, trackingRepo, outbox)
	uow.On("Commit", ctx).Return(nil).Once()

	orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once()
	orderRepo.On("Update", ctx, testOrder).Return(nil).Once()
	trackingRepo.On("Add", ctx, mock.AnythingOfType("tracking.Entry")).Return(nil).Once()

	factory := new(MockStageUoWFactory)
	factory.On("Create").Return(uow)

	result, err := newStageHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, result.Status)
	// Settlement produces no notification intents.
	outbox.AssertNotCalled(t, "Add", ctx, mock.Anything)
}

func TestUpdateStageCommandHandler_Handle_CancelledOrderKeepsStatus(t *testing.T) {
	ctx := t.Context()
	cancelled, err := order.RestoreOrder(
		kernel.NewUUID(), "SO-1002", validCustomer(), validAddress(t), 300,
		order.StageCancelled, order.StatusCancelled, nil, nil, time.Now().UTC(),
		"customer refused")
	require.NoError(t, err)

	cmd, err := commands.NewUpdateStageCommand(
		cancelled.ID(), order.StageSettlement, order.SettlementData{}, "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	trackingRepo := new(MockTrackingRepository)
	outbox := new(MockNotificationOutbox)
	uow := stageUoW(ctx, orderRepo, trackingRepo, outbox)
	uow.On("Commit", ctx).Return(nil).Once()

	orderRepo.On("Get", ctx, cancelled.ID()).Return(cancelled, nil).Once()
	orderRepo.On("Update", ctx, cancelled).Return(nil).Once()
	trackingRepo.On("Add", ctx, mock.AnythingOfType("tracking.Entry")).Return(nil).Once()

	factory := new(MockStageUoWFactory)
	factory.On("Create").Return(uow)

	result, err := newStageHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, result.Status)
}

func TestUpdateStageCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, err := commands.NewUpdateStageCommand(orderID, order.StageDelivery, order.DeliveryData{}, "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := stageUoW(ctx, orderRepo, new(MockTrackingRepository), new(MockNotificationOutbox))
	orderRepo.On("Get", ctx, orderID).Return(nil, errs.ErrObjectNotFound).Once()

	factory := new(MockStageUoWFactory)
	factory.On("Create").Return(uow)

	_, err = newStageHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrOrderNotFound)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestUpdateStageCommandHandler_Handle_InvalidPayloadVariant(t *testing.T) {
	ctx := t.Context()
	testOrder := newPendingOrder(t)
	cmd, err := commands.NewUpdateStageCommand(
		testOrder.ID(), order.StageDelivery, order.ShippingData{}, "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := stageUoW(ctx, orderRepo, new(MockTrackingRepository), new(MockNotificationOutbox))
	orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once()

	factory := new(MockStageUoWFactory)
	factory.On("Create").Return(uow)

	_, err = newStageHandler(factory).Handle(ctx, cmd)

	require.Error(t, err)
	uow.AssertNotCalled(t, "Commit", ctx)
	orderRepo.AssertNotCalled(t, "Update", ctx, mock.Anything)
}
