package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/order"
	"codship/internal/pkg/errs"
)

// GetTrackingStatusQueryHandler builds the tracking read model for one order.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
type GetTrackingStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetTrackingStatusQueryHandler creates a handler for tracking status queries.
func NewGetTrackingStatusQueryHandler(db *gorm.DB) GetTrackingStatusQueryHandler {
	return GetTrackingStatusQueryHandler{db: db}
}

// Handle executes the query. The returned timeline merges tracking log rows
// with timestamps recorded inside stage payloads, newest first. A payload
// without its own timestamp falls back to the order's creation time so it
// still appears on the timeline.
func (h GetTrackingStatusQueryHandler) Handle(
	ctx context.Context,
	query GetTrackingStatusQuery,
) (GetTrackingStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTrackingStatusQueryResponse{}, err
	}

	summary, payloads, err := h.fetchOrder(ctx, query.OrderID())
	if err != nil {
		return GetTrackingStatusQueryResponse{}, err
	}

	logs, err := h.fetchLogs(ctx, query.OrderID())
	if err != nil {
		return GetTrackingStatusQueryResponse{}, err
	}

	timeline := make([]TimelineEntryResponse, 0, len(logs)+len(payloads))
	for _, log := range logs {
		timeline = append(timeline, TimelineEntryResponse{
			Source:      TimelineSourceLog,
			Stage:       log.Stage,
			Description: log.Description,
			Timestamp:   log.CreatedAt,
		})
	}

	payloadEntries, err := payloadTimeline(payloads, summary.CreatedAt)
	if err != nil {
		return GetTrackingStatusQueryResponse{}, err
	}
	timeline = append(timeline, payloadEntries...)

	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Timestamp.After(timeline[j].Timestamp)
	})

	return GetTrackingStatusQueryResponse{
		Order:        summary,
		TrackingLogs: logs,
		Timeline:     timeline,
	}, nil
}

func (h GetTrackingStatusQueryHandler) fetchOrder(
	ctx context.Context,
	orderID kernel.UUID,
) (OrderSummaryResponse, []byte, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			reference,
			stage,
			status,
			cod_amount,
			partner_id,
			cancel_reason,
			payloads,
			created_at
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Row()

	var summary OrderSummaryResponse
	var id uuid.UUID
	var partnerID *uuid.UUID
	var payloads []byte

	err := row.Scan(
		&id,
		&summary.Reference,
		&summary.Stage,
		&summary.Status,
		&summary.CODAmount,
		&partnerID,
		&summary.CancelReason,
		&payloads,
		&summary.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OrderSummaryResponse{}, nil, errs.NewObjectNotFoundError("order", orderID.String())
		}
		return OrderSummaryResponse{}, nil, err
	}

	summaryID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return OrderSummaryResponse{}, nil, err
	}
	summary.ID = summaryID

	if partnerID != nil {
		pid, idErr := kernel.UUIDFromBytes(partnerID[:])
		if idErr != nil {
			return OrderSummaryResponse{}, nil, idErr
		}
		summary.PartnerID = &pid
	}

	return summary, payloads, nil
}

func (h GetTrackingStatusQueryHandler) fetchLogs(
	ctx context.Context,
	orderID kernel.UUID,
) ([]TrackingLogResponse, error) {
	logs := make([]TrackingLogResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			stage,
			status,
			description,
			agent_id,
			created_at
		FROM tracking_logs
		WHERE order_id = ?
		ORDER BY created_at DESC
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var log TrackingLogResponse
		err = rows.Scan(
			&log.Stage,
			&log.Status,
			&log.Description,
			&log.AgentID,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}

// payloadTimeline converts the order's stage payload document into timeline
// entries, one per recorded stage.
func payloadTimeline(payloads []byte, fallback time.Time) ([]TimelineEntryResponse, error) {
	if len(payloads) == 0 {
		return nil, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payloads, &raw); err != nil {
		return nil, err
	}

	entries := make([]TimelineEntryResponse, 0, len(raw))
	for name, body := range raw {
		stage, err := order.ParseStage(name)
		if err != nil {
			return nil, err
		}
		data, err := order.UnmarshalStageData(stage, body)
		if err != nil {
			return nil, err
		}

		at := fallback
		if t := payloadTime(data); t != nil {
			at = *t
		}

		entries = append(entries, TimelineEntryResponse{
			Source:      TimelineSourcePayload,
			Stage:       name,
			Description: fmt.Sprintf("%s details recorded", name),
			Timestamp:   at,
		})
	}

	return entries, nil
}

// payloadTime extracts the event timestamp each payload variant carries.
func payloadTime(data order.StageData) *time.Time {
	switch d := data.(type) {
	case order.CustomerServiceData:
		return d.CallAt
	case order.ConfirmationData:
		return d.CallAt
	case order.PreparationData:
		return d.PreparedAt
	case order.SupplierData:
		return d.SuppliedAt
	case order.ShippingData:
		return d.PickedUpAt
	case order.DeliveryData:
		return d.DeliveredAt
	case order.CollectionData:
		return d.CollectedAt
	case order.SettlementData:
		return d.SettledAt
	default:
		return nil
	}
}
