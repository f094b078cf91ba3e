package commands

import (
	"context"
	"fmt"
	"time"

	"codship/internal/core/domain/model/order"
	"codship/internal/core/domain/model/tracking"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// New orders enter the lifecycle at the pending stage with no partner
// assigned; allocation is a separate step.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires an OrderUoWFactory for transactional persistence.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command.
// Persists the order in pending stage together with its first tracking log
// entry, or rolls back on error.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	newOrder, err := order.NewOrder(
		cmd.OrderID(), cmd.Reference(), cmd.Customer(), cmd.Address(), cmd.CODAmount(), now)
	if err != nil {
		return err
	}

	entry, err := tracking.NewEntry(
		newOrder.ID(), newOrder.Stage(), newOrder.Status(),
		fmt.Sprintf("order %s entered COD fulfillment", newOrder.Reference()), "", now)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.TrackingRepository().Add(ctx, entry); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
