// Package tracking contains the append-only tracking log. The log is the
// source of truth for an order's timeline: entries are never mutated,
// deleted, or deduplicated.
package tracking

import (
	"time"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/order"
	"codship/internal/pkg/errs"
)

// Entry is one tracking log row for an order.
type Entry struct {
	ID          kernel.UUID
	OrderID     kernel.UUID
	Stage       order.Stage
	Status      order.Status
	Description string
	AgentID     string
	CreatedAt   time.Time
}

// NewEntry creates a tracking log entry. AgentID is optional and identifies
// the acting operator when a human drove the change.
func NewEntry(orderID kernel.UUID, stage order.Stage, status order.Status, description, agentID string, at time.Time) (Entry, error) {
	if err := orderID.Validate(); err != nil {
		return Entry{}, err
	}
	if err := stage.Validate(); err != nil {
		return Entry{}, err
	}
	if err := status.Validate(); err != nil {
		return Entry{}, err
	}
	if description == "" {
		return Entry{}, errs.NewValueIsRequiredError("tracking description")
	}

	return Entry{
		ID:          kernel.NewUUID(),
		OrderID:     orderID,
		Stage:       stage,
		Status:      status,
		Description: description,
		AgentID:     agentID,
		CreatedAt:   at,
	}, nil
}
