// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/pkg/guard"
)

var (
	ErrGetTrackingStatusQueryIsNotConstructed = errors.New(
		"GetTrackingStatusQuery must be created via NewGetTrackingStatusQuery constructor",
	)
)

// GetTrackingStatusQuery retrieves the full tracking view of one order: the
// order summary, its raw tracking log, and a merged timeline combining log
// rows with the timestamps recorded inside stage payloads.
type GetTrackingStatusQuery struct {
	guard   guard.ConstructorGuard
	orderID kernel.UUID
}

// NewGetTrackingStatusQuery creates a tracking status query for an order.
func NewGetTrackingStatusQuery(orderID kernel.UUID) (GetTrackingStatusQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetTrackingStatusQuery{}, err
	}

	return GetTrackingStatusQuery{
		guard:   guard.NewConstructorGuard(),
		orderID: orderID,
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetTrackingStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetTrackingStatusQueryIsNotConstructed)
}

// OrderID returns the order identifier.
func (q GetTrackingStatusQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderSummaryResponse is the order header in the tracking read model.
type OrderSummaryResponse struct {
	ID           kernel.UUID
	Reference    string
	Stage        string
	Status       string
	CODAmount    float64
	PartnerID    *kernel.UUID
	CancelReason string
	CreatedAt    time.Time
}

// TrackingLogResponse is one raw tracking log row.
type TrackingLogResponse struct {
	Stage       string
	Status      string
	Description string
	AgentID     string
	CreatedAt   time.Time
}

// Timeline entry sources.
const (
	TimelineSourceLog     = "log"
	TimelineSourcePayload = "payload"
)

// TimelineEntryResponse is one merged timeline event, either a tracking log
// row or a timestamp extracted from a stage payload.
type TimelineEntryResponse struct {
	Source      string
	Stage       string
	Description string
	Timestamp   time.Time
}

// GetTrackingStatusQueryResponse is the complete tracking read model.
// Timeline is sorted by timestamp descending across both sources.
type GetTrackingStatusQueryResponse struct {
	Order        OrderSummaryResponse
	TrackingLogs []TrackingLogResponse
	Timeline     []TimelineEntryResponse
}
