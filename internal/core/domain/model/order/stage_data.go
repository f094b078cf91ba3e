package order

import (
	"encoding/json"
	"fmt"
	"time"

	"codship/internal/pkg/errs"
)

// StageData is the tagged per-stage payload variant. Exactly one concrete
// type exists per fulfillment stage, carrying only that stage's fields.
// Payloads are validated on write and stored under their stage key with
// overwrite semantics; payloads of different stages are never merged.
type StageData interface {
	// Stage returns the stage this payload belongs to.
	Stage() Stage

	// Validate checks the payload's structural rules.
	Validate() error
}

// CustomerServiceData records the initial customer-service contact.
type CustomerServiceData struct {
	AgentID   string     `json:"agentId"`
	Confirmed bool       `json:"confirmed"`
	CallAt    *time.Time `json:"callAt,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

func (CustomerServiceData) Stage() Stage { return StageCustomerService }

func (d CustomerServiceData) Validate() error {
	if d.AgentID == "" {
		return errs.NewValueIsRequiredError("customer service agent id")
	}
	return nil
}

// ConfirmationData records the confirmation call outcome.
type ConfirmationData struct {
	AgentID       string     `json:"agentId"`
	Called        bool       `json:"called"`
	Confirmed     bool       `json:"confirmed"`
	CallAt        *time.Time `json:"callAt,omitempty"`
	CustomerNotes string     `json:"customerNotes,omitempty"`
}

func (ConfirmationData) Stage() Stage { return StageConfirmation }

func (d ConfirmationData) Validate() error {
	if d.AgentID == "" {
		return errs.NewValueIsRequiredError("confirmation agent id")
	}
	if d.Confirmed && !d.Called {
		return errs.NewValueIsInvalidErrorWithCause("confirmation",
			fmt.Errorf("order cannot be confirmed without a call"))
	}
	return nil
}

// PreparationData records warehouse preparation of the shipment.
type PreparationData struct {
	WarehouseID string     `json:"warehouseId"`
	Prepared    bool       `json:"prepared"`
	PreparedAt  *time.Time `json:"preparedAt,omitempty"`
	ItemsReady  bool       `json:"itemsReady"`
	Notes       string     `json:"notes,omitempty"`
}

func (PreparationData) Stage() Stage { return StagePreparation }

func (d PreparationData) Validate() error {
	if d.WarehouseID == "" {
		return errs.NewValueIsRequiredError("warehouse id")
	}
	return nil
}

// SupplierData records sourcing from the supplier.
type SupplierData struct {
	SupplierID string     `json:"supplierId"`
	Supplied   bool       `json:"supplied"`
	SuppliedAt *time.Time `json:"suppliedAt,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

func (SupplierData) Stage() Stage { return StageSupplier }

func (d SupplierData) Validate() error {
	if d.SupplierID == "" {
		return errs.NewValueIsRequiredError("supplier id")
	}
	return nil
}

// ShippingData records carrier pickup and the tracking number.
type ShippingData struct {
	PickedUp       bool       `json:"pickedUp"`
	PickedUpAt     *time.Time `json:"pickedUpAt,omitempty"`
	DriverName     string     `json:"driverName,omitempty"`
	TrackingNumber string     `json:"trackingNumber,omitempty"`
}

func (ShippingData) Stage() Stage { return StageShipping }

func (d ShippingData) Validate() error {
	if d.PickedUp && d.TrackingNumber == "" {
		return errs.NewValueIsRequiredError("tracking number for picked-up shipment")
	}
	return nil
}

// DeliveryData records handover to the customer.
type DeliveryData struct {
	Delivered     bool       `json:"delivered"`
	DeliveredAt   *time.Time `json:"deliveredAt,omitempty"`
	ReceiverName  string     `json:"receiverName,omitempty"`
	ReceiverPhone string     `json:"receiverPhone,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

func (DeliveryData) Stage() Stage { return StageDelivery }

func (DeliveryData) Validate() error { return nil }

// CollectionData records cash collection by the delivery partner.
type CollectionData struct {
	Collected       bool       `json:"collected"`
	CollectedAt     *time.Time `json:"collectedAt,omitempty"`
	CollectedAmount float64    `json:"collectedAmount,omitempty"`
	ReceiptNumber   string     `json:"receiptNumber,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

func (CollectionData) Stage() Stage { return StageCollection }

func (d CollectionData) Validate() error {
	if d.CollectedAmount < 0 {
		return errs.NewValueIsInvalidErrorWithCause("collected amount",
			fmt.Errorf("%g is negative", d.CollectedAmount))
	}
	if d.Collected && d.CollectedAmount == 0 {
		return errs.NewValueIsRequiredError("collected amount")
	}
	return nil
}

// SettlementData records transfer of collected cash back to the merchant.
type SettlementData struct {
	Settled       bool       `json:"settled"`
	SettledAt     *time.Time `json:"settledAt,omitempty"`
	TransferDate  *time.Time `json:"transferDate,omitempty"`
	BankReference string     `json:"bankReference,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

func (SettlementData) Stage() Stage { return StageSettlement }

func (d SettlementData) Validate() error {
	if d.Settled && d.BankReference == "" {
		return errs.NewValueIsRequiredError("bank reference for settled order")
	}
	return nil
}

// UnmarshalStageData decodes a stored payload into the value variant for its
// stage. Used when reconstructing orders from persistence and when parsing
// stage updates arriving from the API layer.
func UnmarshalStageData(stage Stage, raw []byte) (StageData, error) {
	invalid := func(err error) error {
		return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("%s stage data", stage), err)
	}

	switch stage {
	case StageCustomerService:
		var d CustomerServiceData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, invalid(err)
		}
		return d, nil
	case StageConfirmation:
		var d ConfirmationData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, invalid(err)
		}
		return d, nil
	case StagePreparation:
		var d PreparationData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, invalid(err)
		}
		return d, nil
	case StageSupplier:
		var d SupplierData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, invalid(err)
		}
		return d, nil
	case StageShipping:
		var d ShippingData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, invalid(err)
		}
		return d, nil
	case StageDelivery:
		var d DeliveryData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, invalid(err)
		}
		return d, nil
	case StageCollection:
		var d CollectionData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, invalid(err)
		}
		return d, nil
	case StageSettlement:
		var d SettlementData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, invalid(err)
		}
		return d, nil
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("stage",
			fmt.Errorf("no stage data variant for %s", stage))
	}
}
