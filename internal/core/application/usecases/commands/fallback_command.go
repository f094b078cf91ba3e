package commands

import (
	"errors"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/pkg/errs"
	"codship/internal/pkg/guard"
)

var ErrFallbackCommandIsNotConstructed = errors.New(
	"FallbackCommand must be created via NewFallbackCommand constructor",
)

// FallbackCommand reallocates an order after its assigned partner failed to
// deliver: the failed partner is excluded, the remaining candidates are
// re-scored, and the best alternative takes over.
//
// Example:
//
//	cmd, err := NewFallbackCommand(orderID, failedPartnerID, "pickup refused twice")
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrNoAlternativeAvailable) {
//	    // Escalate to operations; every other partner is out too
//	}
type FallbackCommand struct { //nolint:recvcheck //using for validation
	orderID           kernel.UUID
	originalPartnerID kernel.UUID
	reason            string

	guard guard.ConstructorGuard
}

// NewFallbackCommand creates a command to replace a failed partner on an
// order. reason documents the failure in the fallback audit log.
func NewFallbackCommand(
	orderID, originalPartnerID kernel.UUID, reason string,
) (FallbackCommand, error) {
	cmd := FallbackCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setOriginalPartnerID(originalPartnerID),
		cmd.setReason(reason),
	); err != nil {
		return FallbackCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrFallbackCommandIsNotConstructed if validation fails.
func (c FallbackCommand) Validate() error {
	return c.guard.Validate(ErrFallbackCommandIsNotConstructed)
}

// OrderID returns the order being reassigned.
func (c FallbackCommand) OrderID() kernel.UUID {
	return c.orderID
}

// OriginalPartnerID returns the partner that failed to deliver.
func (c FallbackCommand) OriginalPartnerID() kernel.UUID {
	return c.originalPartnerID
}

// Reason returns the failure description for the audit log.
func (c FallbackCommand) Reason() string {
	return c.reason
}

func (c *FallbackCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *FallbackCommand) setOriginalPartnerID(partnerID kernel.UUID) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}

	c.originalPartnerID = partnerID
	return nil
}

func (c *FallbackCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("fallback reason")
	}

	c.reason = reason
	return nil
}
