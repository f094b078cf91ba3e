package commands

import (
	"errors"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/order"
	"codship/internal/pkg/errs"
	"codship/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrCODAmountIsInvalid = errors.New("cod amount must be greater than 0")
)

// CreateOrderCommand represents a request to bring an order into COD
// fulfillment. It carries the external reference, the customer contact used
// for notifications, the delivery address, and the cash amount to collect.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, "SO-1001", customer, address, 850)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	reference string
	customer  order.Customer
	address   order.Address
	codAmount float64

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a COD order.
// Validates the order ID, reference, customer contact, address region, and
// COD amount. Returns an error if any validation fails.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	reference string,
	customer order.Customer,
	address order.Address,
	codAmount float64,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReference(reference),
		cmd.setCustomer(customer),
		cmd.setAddress(address),
		cmd.setCODAmount(codAmount),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reference returns the external order reference.
func (c CreateOrderCommand) Reference() string {
	return c.reference
}

// Customer returns the customer contact information.
func (c CreateOrderCommand) Customer() order.Customer {
	return c.customer
}

// Address returns the delivery address.
func (c CreateOrderCommand) Address() order.Address {
	return c.address
}

// CODAmount returns the cash amount collected on delivery.
func (c CreateOrderCommand) CODAmount() float64 {
	return c.codAmount
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setReference(reference string) error {
	if reference == "" {
		return errs.NewValueIsRequiredError("reference")
	}

	c.reference = reference
	return nil
}

func (c *CreateOrderCommand) setCustomer(customer order.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}

	c.customer = customer
	return nil
}

func (c *CreateOrderCommand) setAddress(address order.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}

	c.address = address
	return nil
}

func (c *CreateOrderCommand) setCODAmount(codAmount float64) error {
	if codAmount <= 0 {
		return ErrCODAmountIsInvalid
	}

	c.codAmount = codAmount
	return nil
}
