// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Stage payloads are stored as one JSONB document keyed by stage name, so a
// stage's payload is overwritten in place while other stages stay untouched.
type OrderDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Reference     string    `gorm:"uniqueIndex;not null"`
	CustomerName  string    `gorm:"not null"`
	CustomerPhone string    `gorm:"not null"`
	CustomerEmail string
	Region        string `gorm:"index;not null"`
	City          string
	Street        string
	Details       string
	Notes         string
	CODAmount     float64        `gorm:"not null"`
	Stage         string         `gorm:"index;not null"`
	Status        string         `gorm:"index;not null"`
	Payloads      datatypes.JSON `gorm:"type:jsonb"`
	PartnerID     *uuid.UUID     `gorm:"type:uuid;index"`
	CancelReason  string
	CreatedAt     time.Time `gorm:"index;not null"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	var partnerID *uuid.UUID
	if id := aggregate.Partner(); id != nil {
		raw := id.Bytes()
		partnerID = &raw
	}

	payloads, err := marshalPayloads(aggregate.Payloads())
	if err != nil {
		return OrderDTO{}, err
	}

	customer := aggregate.Customer()
	address := aggregate.Address()

	return OrderDTO{
		ID:            aggregate.ID().Bytes(),
		Reference:     aggregate.Reference(),
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		CustomerEmail: customer.Email,
		Region:        address.Region.Code(),
		City:          address.City,
		Street:        address.Street,
		Details:       address.Details,
		Notes:         address.Notes,
		CODAmount:     aggregate.CODAmount(),
		Stage:         aggregate.Stage().String(),
		Status:        aggregate.Status().String(),
		Payloads:      payloads,
		PartnerID:     partnerID,
		CancelReason:  aggregate.CancelReason(),
		CreatedAt:     aggregate.CreatedAt(),
	}, nil
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including typed stage payloads using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var partnerID *kernel.UUID
	if dto.PartnerID != nil {
		pID, partnerErr := kernel.UUIDFromBytes((*dto.PartnerID)[:])
		if partnerErr != nil {
			return nil, partnerErr
		}
		partnerID = &pID
	}

	region, err := kernel.NewRegion(dto.Region)
	if err != nil {
		return nil, err
	}

	stage, err := order.ParseStage(dto.Stage)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	payloads, err := unmarshalPayloads(dto.Payloads)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.Reference,
		order.Customer{Name: dto.CustomerName, Phone: dto.CustomerPhone, Email: dto.CustomerEmail},
		order.Address{Region: region, City: dto.City, Street: dto.Street, Details: dto.Details, Notes: dto.Notes},
		dto.CODAmount,
		stage,
		status,
		payloads,
		partnerID,
		dto.CreatedAt,
		dto.CancelReason,
	)
}

func marshalPayloads(payloads map[order.Stage]order.StageData) (datatypes.JSON, error) {
	if len(payloads) == 0 {
		return datatypes.JSON("{}"), nil
	}

	keyed := make(map[string]order.StageData, len(payloads))
	for stage, data := range payloads {
		keyed[stage.String()] = data
	}

	raw, err := json.Marshal(keyed)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func unmarshalPayloads(raw datatypes.JSON) (map[order.Stage]order.StageData, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, err
	}
	if len(keyed) == 0 {
		return nil, nil
	}

	payloads := make(map[order.Stage]order.StageData, len(keyed))
	for name, body := range keyed {
		stage, err := order.ParseStage(name)
		if err != nil {
			return nil, err
		}
		data, err := order.UnmarshalStageData(stage, body)
		if err != nil {
			return nil, err
		}
		payloads[stage] = data
	}
	return payloads, nil
}
