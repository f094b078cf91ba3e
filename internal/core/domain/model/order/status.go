package order

import (
	"fmt"

	"codship/internal/pkg/errs"
)

// Status is the coarse order state derived from the current stage.
//
// Derivation table:
//
//	pending                      → StatusPending
//	customerService … collection → StatusInProgress
//	settlement                   → StatusCompleted
//
// StatusCancelled is never derived; it is assigned only by the explicit
// cancel action and is absorbing: once cancelled, later stage updates may
// still record payloads but the status no longer changes.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusPending indicates the order has entered fulfillment but no work
	// has started.
	StatusPending

	// StatusInProgress indicates the order is moving through fulfillment.
	StatusInProgress

	// StatusCompleted indicates the order reached settlement. Terminal.
	StatusCompleted

	// StatusCancelled indicates the order was explicitly cancelled. Terminal.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "unknown",
		StatusPending:    "pending",
		StatusInProgress: "in_progress",
		StatusCompleted:  "completed",
		StatusCancelled:  "cancelled",
	}
}

// getValidStatusStrings excludes StatusUnknown to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusPending:    "pending",
		StatusInProgress: "in_progress",
		StatusCompleted:  "completed",
		StatusCancelled:  "cancelled",
	}
}

// StatusFromStage derives the status for a stage from the authoritative table.
// StageCancelled has no derivation: cancellation is not a stage-status mapping.
func StatusFromStage(stage Stage) (Status, error) {
	switch stage {
	case StagePending:
		return StatusPending, nil
	case StageCustomerService, StageConfirmation, StagePreparation,
		StageSupplier, StageShipping, StageDelivery, StageCollection:
		return StatusInProgress, nil
	case StageSettlement:
		return StatusCompleted, nil
	default:
		return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("stage",
			fmt.Errorf("no status derivation for stage %s", stage))
	}
}

// ParseStatus converts a wire/storage name into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the Status value is valid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, e.g. "in_progress".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
