package commands_test

import (
	"testing"

	"codship/internal/core/application/usecases/commands"
	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()
	customer := validCustomer()
	address := validAddress(t)

	cmd, err := commands.NewCreateOrderCommand(id, "SO-1001", customer, address, 850)

	require.NoError(t, err)
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, "SO-1001", cmd.Reference())
	assert.Equal(t, customer, cmd.Customer())
	assert.Equal(t, address, cmd.Address())
	assert.InDelta(t, 850, cmd.CODAmount(), 1e-9)
}

func TestNewCreateOrderCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.UUID{}, "SO-1001", validCustomer(), validAddress(t), 850)

	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCreateOrderCommand_EmptyReference(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), "", validCustomer(), validAddress(t), 850)

	require.Error(t, err)
}

func TestNewCreateOrderCommand_MissingCustomerPhone(t *testing.T) {
	customer := validCustomer()
	customer.Phone = ""

	_, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), "SO-1001", customer, validAddress(t), 850)

	require.Error(t, err)
}

func TestNewCreateOrderCommand_UnconstructedRegion(t *testing.T) {
	address := order.Address{City: "Cairo"}

	_, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), "SO-1001", validCustomer(), address, 850)

	require.Error(t, err)
}

func TestNewCreateOrderCommand_InvalidCODAmount(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), "SO-1001", validCustomer(), validAddress(t), 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrCODAmountIsInvalid)
}

func TestCreateOrderCommand_Validate_NotConstructed(t *testing.T) {
	cmd := commands.CreateOrderCommand{}

	err := cmd.Validate()

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}
