package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"codship/internal/core/domain/model/allocation"
	"codship/internal/core/domain/model/partner"
	"codship/internal/core/domain/model/tracking"
	"codship/internal/core/domain/services"
	"codship/internal/core/ports"
	"codship/internal/pkg/errs"
	"codship/internal/pkg/orderlock"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrNoPartnersAvailable = errors.New("no partners available for the order's region")

	// ErrAllocationConflict signals that another allocation landed a pending
	// record for the same order while this one was in flight. The state was
	// re-read and retried a bounded number of times before giving up; the
	// caller should fetch the order's current allocation instead of retrying
	// blindly.
	ErrAllocationConflict = errors.New("concurrent allocation conflict")
)

// allocationWindow is the trailing period over which a partner's allocation
// count is measured for diversification and capacity.
const allocationWindow = 24 * time.Hour

// maxConflictRetries bounds how many times an allocation re-reads state
// after losing a pending-record race before surfacing ErrAllocationConflict.
const maxConflictRetries = 3

// AllocationResult is what a successful allocation hands back to the caller:
// the chosen partner and the freshly written pending record.
type AllocationResult struct {
	Partner *partner.Partner
	Record  allocation.Record
}

// AllocatePartnerCommandHandler orchestrates partner allocation for an order.
//
// The selection pipeline (eligibility, scoring, diversification) runs on a
// snapshot of partner state; the winner's row is then locked and its
// rolling-window load re-read before the pending record is written, so
// concurrent bursts serialize on the partner instead of all trusting the
// same stale count. All writes share one transaction: superseding any prior
// pending record, inserting the new one, reassigning the order, and the
// tracking log entry commit or roll back together.
//
// Example:
//
//	handler := NewAllocatePartnerCommandHandler(uowFactory, allocator, locks)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrOrderNotFound):
//	    log.Println("unknown order")
//	case errors.Is(err, ErrNoPartnersAvailable):
//	    log.Println("no partner covers the region")
//	case err != nil:
//	    log.Printf("allocation failed: %v", err)
//	default:
//	    log.Printf("allocated to %s", result.Partner.Name())
//	}
type AllocatePartnerCommandHandler struct {
	uowFactory AllocationUoWFactory
	allocator  services.Allocator
	locks      *orderlock.KeyedMutex
}

// NewAllocatePartnerCommandHandler creates a handler for partner allocation.
func NewAllocatePartnerCommandHandler(
	uowFactory AllocationUoWFactory,
	allocator services.Allocator,
	locks *orderlock.KeyedMutex,
) AllocatePartnerCommandHandler {
	return AllocatePartnerCommandHandler{
		uowFactory: uowFactory,
		allocator:  allocator,
		locks:      locks,
	}
}

// Handle processes the allocation command under the order's lock, retrying
// with exponential backoff when a pending-record conflict is detected.
func (h AllocatePartnerCommandHandler) Handle(
	ctx context.Context, command AllocatePartnerCommand,
) (AllocationResult, error) {
	if err := command.Validate(); err != nil {
		return AllocationResult{}, err
	}

	unlock := h.locks.Lock(command.OrderID().String())
	defer unlock()

	var result AllocationResult
	operation := func() error {
		var err error
		result, err = h.allocateOnce(ctx, command)
		if errors.Is(err, allocation.ErrPendingConflict) {
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxConflictRetries), ctx))
	if errors.Is(err, allocation.ErrPendingConflict) {
		return AllocationResult{}, ErrAllocationConflict
	}
	if err != nil {
		return AllocationResult{}, err
	}

	return result, nil
}

func (h AllocatePartnerCommandHandler) allocateOnce(
	ctx context.Context, command AllocatePartnerCommand,
) (AllocationResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AllocationResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	partnerRepo := uow.PartnerRepository()
	allocRepo := uow.AllocationRepository()

	aggregate, err := orderRepo.Get(ctx, command.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return AllocationResult{}, ErrOrderNotFound
	}
	if err != nil {
		return AllocationResult{}, err
	}

	candidates, err := partnerRepo.GetAll(ctx)
	if err != nil {
		return AllocationResult{}, err
	}

	now := time.Now().UTC()
	cutoff := now.Add(-allocationWindow)

	eligible := services.FilterEligible(aggregate.Address().Region, candidates)
	counts, err := loadCounts(ctx, allocRepo, eligible, cutoff)
	if err != nil {
		return AllocationResult{}, err
	}

	selection, err := h.allocator.Allocate(aggregate, candidates, counts, nil)
	if errors.Is(err, services.ErrNoEligiblePartners) {
		return AllocationResult{}, ErrNoPartnersAvailable
	}
	if err != nil {
		return AllocationResult{}, err
	}

	selection, err = refreshSelection(ctx, partnerRepo, allocRepo, selection, cutoff)
	if err != nil {
		return AllocationResult{}, err
	}

	if err = allocRepo.SupersedePending(ctx, aggregate.ID()); err != nil {
		return AllocationResult{}, err
	}

	record, err := allocation.NewRecord(
		aggregate.ID(), selection.Partner.ID(), selection.Adjusted, selection.Reason, now)
	if err != nil {
		return AllocationResult{}, err
	}
	if err = allocRepo.Add(ctx, record); err != nil {
		return AllocationResult{}, err
	}

	if err = aggregate.AssignPartner(selection.Partner.ID()); err != nil {
		return AllocationResult{}, err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return AllocationResult{}, err
	}

	entry, err := tracking.NewEntry(
		aggregate.ID(), aggregate.Stage(), aggregate.Status(),
		fmt.Sprintf("partner %s allocated", selection.Partner.Name()), "", now)
	if err != nil {
		return AllocationResult{}, err
	}
	if err = uow.TrackingRepository().Add(ctx, entry); err != nil {
		return AllocationResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AllocationResult{}, err
	}

	return AllocationResult{Partner: selection.Partner, Record: record}, nil
}

// refreshSelection locks the winner's row and re-reads its rolling-window
// load, so the stored score and reason reflect a count no concurrent
// allocation can change anymore. Shared by allocation and fallback.
func refreshSelection(
	ctx context.Context,
	partnerRepo ports.PartnerRepository,
	allocRepo ports.AllocationRepository,
	selection services.Selection,
	cutoff time.Time,
) (services.Selection, error) {
	if err := partnerRepo.Lock(ctx, selection.Partner.ID()); err != nil {
		return services.Selection{}, err
	}

	count, err := allocRepo.CountForPartnerSince(ctx, selection.Partner.ID(), cutoff)
	if err != nil {
		return services.Selection{}, err
	}

	refreshed := services.Diversify(
		[]services.ScoredPartner{{Partner: selection.Partner, Scores: selection.Scores, Total: selection.RawScore}},
		map[string]int{selection.Partner.ID().String(): count})

	return services.NewSelection(refreshed[0]), nil
}

// loadCounts reads each eligible partner's rolling-window allocation count.
// Shared by allocation and fallback.
func loadCounts(
	ctx context.Context,
	allocRepo ports.AllocationRepository,
	eligible []*partner.Partner,
	cutoff time.Time,
) (map[string]int, error) {
	counts := make(map[string]int, len(eligible))
	for _, p := range eligible {
		count, err := allocRepo.CountForPartnerSince(ctx, p.ID(), cutoff)
		if err != nil {
			return nil, err
		}
		counts[p.ID().String()] = count
	}
	return counts, nil
}
