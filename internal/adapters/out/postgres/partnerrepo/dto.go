// Package partnerrepo persists shipping partner aggregates. Coverage is a
// JSONB array of region codes; everything else maps to flat columns.
package partnerrepo

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/partner"
)

// PartnerDTO represents the database structure for persisting partner aggregates.
type PartnerDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string    `gorm:"not null"`
	Coverage         datatypes.JSON `gorm:"type:jsonb"`
	DeliveryFee      float64
	CODFeePercentage float64
	CODFeeFixed      float64
	SuccessRate      float64
	AvgDeliveryDays  float64
	ComplaintRate    float64
	Rating           float64
	AllocationWeight float64
	Priority         int
	MaxAssignments   int
	Active           bool `gorm:"index"`
	Suspended        bool `gorm:"index"`
	SuspensionReason string
}

// TableName specifies the database table name for partner entities.
func (PartnerDTO) TableName() string {
	return "partners"
}

// fromDomain converts a partner domain aggregate to its database representation.
func fromDomain(aggregate *partner.Partner) (PartnerDTO, error) {
	codes := make([]string, 0, len(aggregate.Coverage()))
	for _, region := range aggregate.Coverage() {
		codes = append(codes, region.Code())
	}
	coverage, err := json.Marshal(codes)
	if err != nil {
		return PartnerDTO{}, err
	}

	fees := aggregate.Fees()
	stats := aggregate.Stats()
	terms := aggregate.Partnership()

	return PartnerDTO{
		ID:               aggregate.ID().Bytes(),
		Name:             aggregate.Name(),
		Coverage:         datatypes.JSON(coverage),
		DeliveryFee:      fees.DeliveryFee,
		CODFeePercentage: fees.CODFeePercentage,
		CODFeeFixed:      fees.CODFeeFixed,
		SuccessRate:      stats.SuccessRate,
		AvgDeliveryDays:  stats.AvgDeliveryDays,
		ComplaintRate:    stats.ComplaintRate,
		Rating:           stats.Rating,
		AllocationWeight: terms.AllocationWeight,
		Priority:         terms.Priority,
		MaxAssignments:   aggregate.MaxAssignments(),
		Active:           aggregate.IsActive(),
		Suspended:        aggregate.IsSuspended(),
		SuspensionReason: aggregate.SuspensionReason(),
	}, nil
}

// toDomain converts a database DTO to a partner domain aggregate.
func toDomain(dto PartnerDTO) (*partner.Partner, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var codes []string
	if len(dto.Coverage) > 0 {
		if err = json.Unmarshal(dto.Coverage, &codes); err != nil {
			return nil, err
		}
	}
	coverage := make([]kernel.Region, 0, len(codes))
	for _, code := range codes {
		region, regionErr := kernel.NewRegion(code)
		if regionErr != nil {
			return nil, regionErr
		}
		coverage = append(coverage, region)
	}

	return partner.RestorePartner(
		id,
		dto.Name,
		coverage,
		partner.FeePolicy{
			DeliveryFee:      dto.DeliveryFee,
			CODFeePercentage: dto.CODFeePercentage,
			CODFeeFixed:      dto.CODFeeFixed,
		},
		partner.PerformanceStats{
			SuccessRate:     dto.SuccessRate,
			AvgDeliveryDays: dto.AvgDeliveryDays,
			ComplaintRate:   dto.ComplaintRate,
			Rating:          dto.Rating,
		},
		partner.Partnership{
			AllocationWeight: dto.AllocationWeight,
			Priority:         dto.Priority,
		},
		dto.MaxAssignments,
		dto.Active,
		dto.Suspended,
		dto.SuspensionReason,
	)
}
