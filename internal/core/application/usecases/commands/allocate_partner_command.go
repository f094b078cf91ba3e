package commands

import (
	"errors"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/pkg/guard"
)

var ErrAllocatePartnerCommandIsNotConstructed = errors.New(
	"AllocatePartnerCommand must be created via NewAllocatePartnerCommand constructor",
)

// AllocatePartnerCommand triggers partner selection for one COD order:
// eligibility filtering, weighted scoring, load diversification, and the
// transactional write of the winning allocation record.
//
// Example:
//
//	cmd, err := NewAllocatePartnerCommand(orderID)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrNoPartnersAvailable) {
//	    log.Printf("no partner covers the order's region")
//	}
type AllocatePartnerCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAllocatePartnerCommand creates a command to allocate a partner to the
// given order.
func NewAllocatePartnerCommand(orderID kernel.UUID) (AllocatePartnerCommand, error) {
	cmd := AllocatePartnerCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return AllocatePartnerCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAllocatePartnerCommandIsNotConstructed if validation fails.
func (c AllocatePartnerCommand) Validate() error {
	return c.guard.Validate(ErrAllocatePartnerCommandIsNotConstructed)
}

// OrderID returns the order to allocate a partner for.
func (c AllocatePartnerCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *AllocatePartnerCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
