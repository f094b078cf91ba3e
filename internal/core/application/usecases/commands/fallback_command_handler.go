package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codship/internal/core/domain/model/allocation"
	"codship/internal/core/domain/model/partner"
	"codship/internal/core/domain/model/tracking"
	"codship/internal/core/domain/services"
	"codship/internal/pkg/errs"
	"codship/internal/pkg/orderlock"
)

var ErrNoAlternativeAvailable = errors.New("no alternative partner available")

// FallbackResult reports the replacement assignment.
type FallbackResult struct {
	NewPartner *partner.Partner
	Record     allocation.Record
	Reason     string
}

// FallbackCommandHandler reassigns an order after a delivery failure. In one
// transaction it marks the failed partner's pending record as failed,
// inserts the alternative's new pending record, appends the fallback audit
// entry, reassigns the order, and logs the change, so the one-pending-record
// invariant survives the handoff.
type FallbackCommandHandler struct {
	uowFactory FallbackUoWFactory
	allocator  services.Allocator
	locks      *orderlock.KeyedMutex
}

// NewFallbackCommandHandler creates a handler for fallback reallocation.
func NewFallbackCommandHandler(
	uowFactory FallbackUoWFactory,
	allocator services.Allocator,
	locks *orderlock.KeyedMutex,
) FallbackCommandHandler {
	return FallbackCommandHandler{
		uowFactory: uowFactory,
		allocator:  allocator,
		locks:      locks,
	}
}

// Handle processes the fallback command under the order's lock.
// Returns ErrOrderNotFound for unknown orders and ErrNoAlternativeAvailable
// when the failed partner was the only eligible one.
func (h FallbackCommandHandler) Handle(
	ctx context.Context, command FallbackCommand,
) (FallbackResult, error) {
	if err := command.Validate(); err != nil {
		return FallbackResult{}, err
	}

	unlock := h.locks.Lock(command.OrderID().String())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return FallbackResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	allocRepo := uow.AllocationRepository()

	aggregate, err := orderRepo.Get(ctx, command.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return FallbackResult{}, ErrOrderNotFound
	}
	if err != nil {
		return FallbackResult{}, err
	}

	// Close out the failed assignment first. An order may have no pending
	// record when fallback is triggered after a conflict cleanup; that is
	// not an error.
	prior, err := allocRepo.GetPendingForOrder(ctx, aggregate.ID())
	switch {
	case err == nil:
		if err = allocRepo.MarkStatus(ctx, prior.ID, allocation.ShipmentFailed); err != nil {
			return FallbackResult{}, err
		}
	case errors.Is(err, errs.ErrObjectNotFound):
	default:
		return FallbackResult{}, err
	}

	candidates, err := uow.PartnerRepository().GetAll(ctx)
	if err != nil {
		return FallbackResult{}, err
	}

	now := time.Now().UTC()
	cutoff := now.Add(-allocationWindow)
	excluded := command.OriginalPartnerID()

	eligible := services.FilterEligible(aggregate.Address().Region, candidates)
	remaining := make([]*partner.Partner, 0, len(eligible))
	for _, p := range eligible {
		if !p.ID().IsEqual(excluded) {
			remaining = append(remaining, p)
		}
	}
	counts, err := loadCounts(ctx, allocRepo, remaining, cutoff)
	if err != nil {
		return FallbackResult{}, err
	}

	selection, err := h.allocator.Allocate(aggregate, candidates, counts, &excluded)
	if errors.Is(err, services.ErrNoEligiblePartners) {
		return FallbackResult{}, ErrNoAlternativeAvailable
	}
	if err != nil {
		return FallbackResult{}, err
	}

	selection, err = refreshSelection(ctx, uow.PartnerRepository(), allocRepo, selection, cutoff)
	if err != nil {
		return FallbackResult{}, err
	}

	record, err := allocation.NewRecord(
		aggregate.ID(), selection.Partner.ID(), selection.Adjusted, selection.Reason, now)
	if err != nil {
		return FallbackResult{}, err
	}
	if err = allocRepo.Add(ctx, record); err != nil {
		return FallbackResult{}, err
	}

	fallbackEntry, err := allocation.NewFallbackEntry(
		aggregate.ID(), command.OriginalPartnerID(), selection.Partner.ID(), command.Reason(), now)
	if err != nil {
		return FallbackResult{}, err
	}
	if err = uow.FallbackRepository().Add(ctx, fallbackEntry); err != nil {
		return FallbackResult{}, err
	}

	if err = aggregate.AssignPartner(selection.Partner.ID()); err != nil {
		return FallbackResult{}, err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return FallbackResult{}, err
	}

	logEntry, err := tracking.NewEntry(
		aggregate.ID(), aggregate.Stage(), aggregate.Status(),
		fmt.Sprintf("fallback to partner %s: %s", selection.Partner.Name(), command.Reason()),
		"", now)
	if err != nil {
		return FallbackResult{}, err
	}
	if err = uow.TrackingRepository().Add(ctx, logEntry); err != nil {
		return FallbackResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return FallbackResult{}, err
	}

	return FallbackResult{
		NewPartner: selection.Partner,
		Record:     record,
		Reason:     command.Reason(),
	}, nil
}
