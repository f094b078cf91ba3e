package order

import (
	"errors"
	"fmt"
	"time"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/notification"
	"codship/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrOrderIsTerminal is returned when cancelling an order that already
	// reached settlement or was cancelled before.
	ErrOrderIsTerminal = errors.New("order is in a terminal state")
)

// Customer holds the contact information used for notifications.
type Customer struct {
	Name  string
	Phone string
	Email string
}

// Validate checks the required contact fields.
func (c Customer) Validate() error {
	if c.Name == "" {
		return errs.NewValueIsRequiredError("customer name")
	}
	if c.Phone == "" {
		return errs.NewValueIsRequiredError("customer phone")
	}
	return nil
}

// Address is the delivery destination. Region drives partner eligibility;
// the remaining fields are free-form routing detail for the carrier.
type Address struct {
	Region  kernel.Region
	City    string
	Street  string
	Details string
	Notes   string
}

// Validate checks that the address carries a constructed region.
func (a Address) Validate() error {
	return a.Region.Validate()
}

// Order is the CODOrder aggregate root. It tracks the fulfillment lifecycle
// of one cash-on-delivery order: the current stage, the status derived from
// it, per-stage payloads, and the currently assigned shipping partner.
//
// Order follows these invariants:
//   - currentStage is always a member of the fixed stage set
//   - status derives from currentStage via the authoritative table, except
//     StatusCancelled which is absorbing and set only by Cancel
//   - each visited stage holds exactly one payload of its own variant type;
//     re-applying a stage overwrites that stage's payload and nothing else
//   - orders are never deleted; settlement and cancellation are terminal
//
// Mutation happens only through ApplyStage, Cancel, and AssignPartner;
// all three are driven by the application layer under per-order serialization.
type Order struct {
	id          kernel.UUID
	reference   string
	customer    Customer
	address     Address
	codAmount   float64
	stage       Stage
	status      Status
	payloads    map[Stage]StageData
	partnerID   *kernel.UUID
	createdAt   time.Time
	cancelledBy string

	isConstructed bool
}

// NewOrder creates an Order entering COD fulfillment at StagePending.
//
// Example:
//
//	region, _ := kernel.NewRegion("CAI")
//	o, err := order.NewOrder(kernel.NewUUID(), "SO-1001",
//	    order.Customer{Name: "Nour", Phone: "+201000000000"},
//	    order.Address{Region: region, City: "Cairo"},
//	    850, time.Now())
func NewOrder(
	id kernel.UUID,
	reference string,
	customer Customer,
	address Address,
	codAmount float64,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		stage:         StagePending,
		status:        StatusPending,
		payloads:      make(map[Stage]StageData),
		createdAt:     createdAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setReference(reference),
		o.setCustomer(customer),
		o.setAddress(address),
		o.setCODAmount(codAmount),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order from persistence. Stage and status are
// taken as stored; the derivation table is not reapplied so that a cancelled
// order keeps its absorbing status.
func RestoreOrder(
	id kernel.UUID,
	reference string,
	customer Customer,
	address Address,
	codAmount float64,
	stage Stage,
	status Status,
	payloads map[Stage]StageData,
	partnerID *kernel.UUID,
	createdAt time.Time,
	cancelReason string,
) (*Order, error) {
	o, err := NewOrder(id, reference, customer, address, codAmount, createdAt)
	if err != nil {
		return nil, err
	}
	if err := stage.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if partnerID != nil {
		if err := partnerID.Validate(); err != nil {
			return nil, err
		}
	}

	o.stage = stage
	o.status = status
	o.partnerID = partnerID
	o.cancelledBy = cancelReason
	if payloads != nil {
		o.payloads = payloads
	}
	return o, nil
}

// Validate ensures the Order instance was created through a factory function.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Reference returns the external order reference, e.g. the sales order number.
func (o *Order) Reference() string {
	return o.reference
}

// Customer returns the customer contact information.
func (o *Order) Customer() Customer {
	return o.customer
}

// Address returns the delivery address.
func (o *Order) Address() Address {
	return o.address
}

// CODAmount returns the cash amount to collect on delivery.
func (o *Order) CODAmount() float64 {
	return o.codAmount
}

// Stage returns the current fulfillment stage.
func (o *Order) Stage() Stage {
	return o.stage
}

// Status returns the current derived status.
func (o *Order) Status() Status {
	return o.status
}

// Partner returns the assigned shipping partner's ID, nil when unassigned.
func (o *Order) Partner() *kernel.UUID {
	return o.partnerID
}

// CreatedAt returns when the order entered COD fulfillment.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// CancelReason returns the reason recorded by Cancel, empty otherwise.
func (o *Order) CancelReason() string {
	return o.cancelledBy
}

// Payloads returns the per-stage payload map, one entry per visited stage.
func (o *Order) Payloads() map[Stage]StageData {
	return o.payloads
}

// Payload returns the stored payload for one stage, nil when the stage was
// never visited.
func (o *Order) Payload(stage Stage) StageData {
	return o.payloads[stage]
}

// ApplyStage records a stage update: the payload is validated and written
// under the stage's key (overwriting a previous payload for the same stage),
// currentStage advances, and status is recomputed from the derivation table.
//
// Rules:
//   - StageCancelled is rejected; cancellation goes through Cancel
//   - data must be the variant matching the target stage; StagePending
//     carries no payload and accepts nil
//   - re-applying the current stage is accepted (corrections are normal;
//     the tracking log kept by the caller is append-only and preserves both
//     entries)
//   - a cancelled order accepts the payload for audit purposes, but keeps
//     StatusCancelled: the absorbing state never changes
func (o *Order) ApplyStage(stage Stage, data StageData) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := stage.ValidateUpdateTarget(); err != nil {
		return err
	}

	if stage == StagePending {
		if data != nil {
			return errs.NewValueIsInvalidErrorWithCause("stage data",
				fmt.Errorf("pending stage carries no payload"))
		}
	} else {
		if data == nil {
			return errs.NewValueIsRequiredError(fmt.Sprintf("%s stage data", stage))
		}
		if data.Stage() != stage {
			return errs.NewValueIsInvalidErrorWithCause("stage data",
				fmt.Errorf("payload variant %s does not match stage %s", data.Stage(), stage))
		}
		if err := data.Validate(); err != nil {
			return err
		}
		o.payloads[stage] = data
	}

	o.stage = stage

	if o.status != StatusCancelled {
		status, err := StatusFromStage(stage)
		if err != nil {
			return err
		}
		o.status = status
	}

	return nil
}

// Cancel moves the order into the absorbing cancelled state, recording the
// reason. Allowed from any non-terminal state.
func (o *Order) Cancel(reason string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if reason == "" {
		return errs.NewValueIsRequiredError("cancel reason")
	}
	if o.status == StatusCompleted || o.status == StatusCancelled {
		return ErrOrderIsTerminal
	}

	o.stage = StageCancelled
	o.status = StatusCancelled
	o.cancelledBy = reason
	return nil
}

// AssignPartner records the shipping partner chosen by the allocation engine.
// Reassignment (fallback) is allowed while the order is not terminal.
func (o *Order) AssignPartner(partnerID kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := partnerID.Validate(); err != nil {
		return err
	}
	if o.status == StatusCompleted || o.status == StatusCancelled {
		return ErrOrderIsTerminal
	}

	o.partnerID = &partnerID
	return nil
}

// StageIntents builds the notification intents a stage update produces:
//
//	confirmation (confirmed)            → SMS
//	shipping (tracking number present)  → SMS with tracking link
//	delivery                            → SMS
//	collection                          → WhatsApp with the collected amount
//
// Other stages produce no notifications. The caller persists the intents in
// the same transaction as the stage update; delivery happens asynchronously.
func (o *Order) StageIntents(stage Stage, data StageData, at time.Time) ([]notification.Intent, error) {
	var intents []notification.Intent

	appendIntent := func(intentType string, channel notification.Channel, template string) error {
		intent, err := notification.NewIntent(o.id, intentType, channel, o.customer.Phone, template, at)
		if err != nil {
			return err
		}
		intents = append(intents, intent)
		return nil
	}

	switch stage {
	case StageConfirmation:
		if d, ok := data.(ConfirmationData); ok && d.Confirmed {
			if err := appendIntent("order_confirmed", notification.ChannelSMS,
				fmt.Sprintf("Your order #%s is confirmed. Thank you for shopping with us!", o.reference)); err != nil {
				return nil, err
			}
		}
	case StageShipping:
		if d, ok := data.(ShippingData); ok && d.TrackingNumber != "" {
			if err := appendIntent("shipped", notification.ChannelSMS,
				fmt.Sprintf("Your order #%s has shipped. Tracking number: %s", o.reference, d.TrackingNumber)); err != nil {
				return nil, err
			}
		}
	case StageDelivery:
		if err := appendIntent("delivered", notification.ChannelSMS,
			fmt.Sprintf("Your order #%s has been delivered. Thank you for shopping with us!", o.reference)); err != nil {
			return nil, err
		}
	case StageCollection:
		if err := appendIntent("cash_collected", notification.ChannelWhatsApp,
			fmt.Sprintf("An amount of %.2f EGP was collected for order #%s", o.codAmount, o.reference)); err != nil {
			return nil, err
		}
	}

	return intents, nil
}

// setID validates and sets the order's unique identifier.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setReference validates and sets the external order reference.
func (o *Order) setReference(reference string) error {
	if reference == "" {
		return errs.NewValueIsRequiredError("order reference")
	}
	o.reference = reference
	return nil
}

func (o *Order) setCustomer(customer Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	o.customer = customer
	return nil
}

func (o *Order) setAddress(address Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.address = address
	return nil
}

// setCODAmount validates and sets the amount to collect. Must be positive.
func (o *Order) setCODAmount(amount float64) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("cod amount",
			fmt.Errorf("%g is not greater than 0", amount))
	}
	o.codAmount = amount
	return nil
}
