package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codship/internal/core/domain/model/order"
	"codship/internal/core/domain/model/tracking"
	"codship/internal/pkg/errs"
	"codship/internal/pkg/orderlock"
)

// StageUpdateResult reports the applied transition back to the caller.
type StageUpdateResult struct {
	Stage     order.Stage
	Status    order.Status
	UpdatedAt time.Time
}

// UpdateStageCommandHandler drives the order lifecycle state machine. One
// transaction records the stage payload on the order, appends the tracking
// log entry, and enqueues the stage's notification intents in the outbox;
// actual delivery happens later in a background job and can never fail the
// stage update.
//
// Re-invoking the same stage is accepted: the payload is overwritten and a
// fresh log entry is appended, since the log is intentionally not
// deduplicated.
type UpdateStageCommandHandler struct {
	uowFactory StageUoWFactory
	locks      *orderlock.KeyedMutex
}

// NewUpdateStageCommandHandler creates a handler for stage transitions.
func NewUpdateStageCommandHandler(
	uowFactory StageUoWFactory, locks *orderlock.KeyedMutex,
) UpdateStageCommandHandler {
	return UpdateStageCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle processes the stage update command under the order's lock.
// Returns ErrOrderNotFound for unknown orders; payload validation errors
// come from the order aggregate.
func (h UpdateStageCommandHandler) Handle(
	ctx context.Context, command UpdateStageCommand,
) (StageUpdateResult, error) {
	if err := command.Validate(); err != nil {
		return StageUpdateResult{}, err
	}

	unlock := h.locks.Lock(command.OrderID().String())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return StageUpdateResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, command.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return StageUpdateResult{}, ErrOrderNotFound
	}
	if err != nil {
		return StageUpdateResult{}, err
	}

	if err = aggregate.ApplyStage(command.Stage(), command.Data()); err != nil {
		return StageUpdateResult{}, err
	}

	now := time.Now().UTC()

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return StageUpdateResult{}, err
	}

	entry, err := tracking.NewEntry(
		aggregate.ID(), command.Stage(), aggregate.Status(),
		fmt.Sprintf("stage updated to %s", command.Stage()), command.AgentID(), now)
	if err != nil {
		return StageUpdateResult{}, err
	}
	if err = uow.TrackingRepository().Add(ctx, entry); err != nil {
		return StageUpdateResult{}, err
	}

	intents, err := aggregate.StageIntents(command.Stage(), command.Data(), now)
	if err != nil {
		return StageUpdateResult{}, err
	}
	outbox := uow.NotificationOutbox()
	for _, intent := range intents {
		if err = outbox.Add(ctx, intent); err != nil {
			return StageUpdateResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return StageUpdateResult{}, err
	}

	return StageUpdateResult{
		Stage:     aggregate.Stage(),
		Status:    aggregate.Status(),
		UpdatedAt: now,
	}, nil
}
