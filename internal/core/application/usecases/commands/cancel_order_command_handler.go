package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codship/internal/core/domain/model/tracking"
	"codship/internal/pkg/errs"
	"codship/internal/pkg/orderlock"
)

// CancelOrderCommandHandler cancels an order and closes out its active
// allocation. Any pending allocation record is superseded in the same
// transaction, since a cancelled order no longer has an active assignment.
type CancelOrderCommandHandler struct {
	uowFactory CancelUoWFactory
	locks      *orderlock.KeyedMutex
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory CancelUoWFactory, locks *orderlock.KeyedMutex,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle processes the cancellation under the order's lock.
// Returns ErrOrderNotFound for unknown orders; cancelling a completed or
// already-cancelled order fails with the aggregate's terminal-state error.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	unlock := h.locks.Lock(command.OrderID().String())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, command.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	if err = aggregate.Cancel(command.Reason()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.AllocationRepository().SupersedePending(ctx, aggregate.ID()); err != nil {
		return err
	}

	entry, err := tracking.NewEntry(
		aggregate.ID(), aggregate.Stage(), aggregate.Status(),
		fmt.Sprintf("order cancelled: %s", command.Reason()), "", time.Now().UTC())
	if err != nil {
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
