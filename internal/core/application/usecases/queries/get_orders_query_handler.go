package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"codship/internal/core/domain/model/kernel"
)

// GetOrdersQueryHandler lists orders from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
type GetOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersQueryHandler creates a handler for order listing queries.
func NewGetOrdersQueryHandler(db *gorm.DB) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{db: db}
}

// Handle executes the query. Orders come back newest first.
func (h GetOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersQuery,
) ([]GetOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			id,
			reference,
			customer_name,
			region,
			cod_amount,
			stage,
			status,
			partner_id,
			created_at
		FROM orders
		WHERE 1 = 1
	`
	args := make([]any, 0, 4)
	if query.Status() != "" {
		sql += " AND status = ?"
		args = append(args, query.Status())
	}
	if query.Stage() != "" {
		sql += " AND stage = ?"
		args = append(args, query.Stage())
	}
	sql += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, query.Limit(), query.Offset())

	orders := make([]GetOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var response GetOrdersQueryResponse
		var id uuid.UUID
		var partnerID *uuid.UUID

		err = rows.Scan(
			&id,
			&response.Reference,
			&response.CustomerName,
			&response.Region,
			&response.CODAmount,
			&response.Stage,
			&response.Status,
			&partnerID,
			&response.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		response.ID = orderID

		if partnerID != nil {
			pid, pidErr := kernel.UUIDFromBytes(partnerID[:])
			if pidErr != nil {
				return nil, pidErr
			}
			response.PartnerID = &pid
		}

		orders = append(orders, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
