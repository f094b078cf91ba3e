package commands

import (
	"errors"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/order"
	"codship/internal/pkg/guard"
)

var ErrUpdateStageCommandIsNotConstructed = errors.New(
	"UpdateStageCommand must be created via NewUpdateStageCommand constructor",
)

// UpdateStageCommand advances an order to a fulfillment stage, carrying the
// stage-specific payload recorded with the transition. A nil payload is only
// valid for the pending stage, which carries no data.
//
// Example:
//
//	data := order.ShippingData{PickedUp: true, TrackingNumber: "TRK-42"}
//	cmd, err := NewUpdateStageCommand(orderID, order.StageShipping, data, "agent-7")
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type UpdateStageCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	stage   order.Stage
	data    order.StageData
	agentID string

	guard guard.ConstructorGuard
}

// NewUpdateStageCommand creates a command to record a stage transition.
// agentID identifies the acting employee in the tracking log and may be
// empty for system-driven updates. Payload contents are validated by the
// order aggregate on apply; here only the stage itself is checked.
func NewUpdateStageCommand(
	orderID kernel.UUID, stage order.Stage, data order.StageData, agentID string,
) (UpdateStageCommand, error) {
	cmd := UpdateStageCommand{
		agentID: agentID,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStage(stage),
	); err != nil {
		return UpdateStageCommand{}, err
	}
	cmd.data = data

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateStageCommandIsNotConstructed if validation fails.
func (c UpdateStageCommand) Validate() error {
	return c.guard.Validate(ErrUpdateStageCommandIsNotConstructed)
}

// OrderID returns the order being advanced.
func (c UpdateStageCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Stage returns the target fulfillment stage.
func (c UpdateStageCommand) Stage() order.Stage {
	return c.stage
}

// Data returns the stage payload, nil for the pending stage.
func (c UpdateStageCommand) Data() order.StageData {
	return c.data
}

// AgentID returns the acting agent, empty for system updates.
func (c UpdateStageCommand) AgentID() string {
	return c.agentID
}

func (c *UpdateStageCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateStageCommand) setStage(stage order.Stage) error {
	if err := stage.ValidateUpdateTarget(); err != nil {
		return err
	}

	c.stage = stage
	return nil
}
