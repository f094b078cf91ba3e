package order

import (
	"fmt"

	"codship/internal/pkg/errs"
)

// Stage represents a step in the fixed COD fulfillment lifecycle.
//
// The nominal flow is:
//
//	Pending → CustomerService → Confirmation → Preparation → Supplier
//	        → Shipping → Delivery → Collection → Settlement
//
// with Cancelled reachable from any non-terminal stage through an explicit
// cancel action only. Settlement and Cancelled are terminal. Out-of-order
// transitions are accepted as corrections; the append-only tracking log
// preserves the real sequence of events.
type Stage int

const (
	// StageUnknown represents an invalid or undefined stage.
	// This value (0) helps catch uninitialized Stage values.
	StageUnknown Stage = iota

	// StagePending is the initial stage when an order enters COD fulfillment.
	StagePending

	// StageCustomerService covers the initial customer-service contact.
	StageCustomerService

	// StageConfirmation covers the confirmation call with the customer.
	StageConfirmation

	// StagePreparation covers warehouse preparation of the shipment.
	StagePreparation

	// StageSupplier covers sourcing items from the supplier.
	StageSupplier

	// StageShipping covers carrier pickup and transit.
	StageShipping

	// StageDelivery covers handover to the customer.
	StageDelivery

	// StageCollection covers cash collection by the delivery partner.
	StageCollection

	// StageSettlement covers transfer of collected cash back to the merchant.
	// Terminal: an order reaching settlement is completed.
	StageSettlement

	// StageCancelled is the absorbing cancellation state. It is never a valid
	// target of a stage update; it is entered only via Order.Cancel.
	StageCancelled
)

func getStageStrings() map[Stage]string {
	return map[Stage]string{
		StageUnknown:         "unknown",
		StagePending:         "pending",
		StageCustomerService: "customerService",
		StageConfirmation:    "confirmation",
		StagePreparation:     "preparation",
		StageSupplier:        "supplier",
		StageShipping:        "shipping",
		StageDelivery:        "delivery",
		StageCollection:      "collection",
		StageSettlement:      "settlement",
		StageCancelled:       "cancelled",
	}
}

// getValidStageStrings excludes StageUnknown to support validation.
func getValidStageStrings() map[Stage]string {
	//nolint:exhaustive // StageUnknown is intentionally excluded as it's invalid
	return map[Stage]string{
		StagePending:         "pending",
		StageCustomerService: "customerService",
		StageConfirmation:    "confirmation",
		StagePreparation:     "preparation",
		StageSupplier:        "supplier",
		StageShipping:        "shipping",
		StageDelivery:        "delivery",
		StageCollection:      "collection",
		StageSettlement:      "settlement",
		StageCancelled:       "cancelled",
	}
}

// ParseStage converts a wire/storage name into a Stage.
func ParseStage(s string) (Stage, error) {
	for stage, name := range getValidStageStrings() {
		if name == s {
			return stage, nil
		}
	}
	return StageUnknown, errs.NewValueIsInvalidErrorWithCause("stage",
		fmt.Errorf("%q is not a valid stage", s))
}

// Validate checks that the Stage is a member of the fixed stage set.
func (s Stage) Validate() error {
	if _, ok := getValidStageStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("stage",
			fmt.Errorf("%d is not a valid stage", s))
	}
	return nil
}

// ValidateUpdateTarget checks that the Stage may be the target of a stage
// update. StageCancelled is excluded: cancellation is an explicit action,
// never a stage transition.
func (s Stage) ValidateUpdateTarget() error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s == StageCancelled {
		return errs.NewValueIsInvalidErrorWithCause("stage",
			fmt.Errorf("%s is not a valid stage update target, use cancel", s))
	}
	return nil
}

// IsTerminal reports whether no further stage updates are expected.
func (s Stage) IsTerminal() bool {
	return s == StageSettlement || s == StageCancelled
}

// String returns the wire name of the stage, e.g. "customerService".
// It implements fmt.Stringer and is safe on invalid values.
func (s Stage) String() string {
	if str, ok := getStageStrings()[s]; ok {
		return str
	}
	return "unknown"
}
