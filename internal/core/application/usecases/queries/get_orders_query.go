package queries

import (
	"errors"
	"math"
	"time"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/order"
	"codship/internal/pkg/errs"
	"codship/internal/pkg/guard"
)

var (
	ErrGetOrdersQueryIsNotConstructed = errors.New(
		"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
	)
)

const (
	defaultOrdersLimit = 50
	maxOrdersLimit     = 200
)

// GetOrdersQuery lists orders newest first with optional stage and status
// filters. An empty filter string means no filter on that dimension.
type GetOrdersQuery struct {
	guard  guard.ConstructorGuard
	limit  int
	offset int
	status string
	stage  string
}

// NewGetOrdersQuery creates an order listing query. A non-positive limit
// falls back to the default page size; limits above the maximum are capped.
func NewGetOrdersQuery(limit, offset int, status, stage string) (GetOrdersQuery, error) {
	if offset < 0 {
		return GetOrdersQuery{}, errs.NewValueIsOutOfRangeError("offset", offset, 0, math.MaxInt)
	}
	if limit <= 0 {
		limit = defaultOrdersLimit
	}
	if limit > maxOrdersLimit {
		limit = maxOrdersLimit
	}

	if status != "" {
		if _, err := order.ParseStatus(status); err != nil {
			return GetOrdersQuery{}, err
		}
	}
	if stage != "" {
		if _, err := order.ParseStage(stage); err != nil {
			return GetOrdersQuery{}, err
		}
	}

	return GetOrdersQuery{
		guard:  guard.NewConstructorGuard(),
		limit:  limit,
		offset: offset,
		status: status,
		stage:  stage,
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

// Limit returns the page size.
func (q GetOrdersQuery) Limit() int {
	return q.limit
}

// Offset returns the page offset.
func (q GetOrdersQuery) Offset() int {
	return q.offset
}

// Status returns the status filter, empty when unfiltered.
func (q GetOrdersQuery) Status() string {
	return q.status
}

// Stage returns the stage filter, empty when unfiltered.
func (q GetOrdersQuery) Stage() string {
	return q.stage
}

// GetOrdersQueryResponse is one order row in the listing read model.
type GetOrdersQueryResponse struct {
	ID           kernel.UUID
	Reference    string
	CustomerName string
	Region       string
	CODAmount    float64
	Stage        string
	Status       string
	PartnerID    *kernel.UUID
	CreatedAt    time.Time
}
