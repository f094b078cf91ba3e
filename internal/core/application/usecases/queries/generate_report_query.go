package queries

import (
	"errors"
	"time"

	"codship/internal/pkg/errs"
	"codship/internal/pkg/guard"
)

var (
	ErrGenerateReportQueryIsNotConstructed = errors.New(
		"GenerateReportQuery must be created via NewGenerateReportQuery constructor",
	)
)

// GenerateReportQuery computes aggregate fulfillment statistics over a date
// range: order counts per stage and status, the total COD value in flight,
// and the collection and settlement rates.
type GenerateReportQuery struct {
	guard guard.ConstructorGuard
	from  time.Time
	to    time.Time
}

// NewGenerateReportQuery creates a report query for orders created in
// [from, to).
func NewGenerateReportQuery(from, to time.Time) (GenerateReportQuery, error) {
	if from.IsZero() {
		return GenerateReportQuery{}, errs.NewValueIsRequiredError("report start date")
	}
	if to.IsZero() {
		return GenerateReportQuery{}, errs.NewValueIsRequiredError("report end date")
	}
	if !to.After(from) {
		return GenerateReportQuery{}, errs.NewValueIsInvalidErrorWithCause("report range",
			errors.New("end date must be after start date"))
	}

	return GenerateReportQuery{
		guard: guard.NewConstructorGuard(),
		from:  from,
		to:    to,
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GenerateReportQuery) Validate() error {
	return q.guard.Validate(ErrGenerateReportQueryIsNotConstructed)
}

// From returns the inclusive range start.
func (q GenerateReportQuery) From() time.Time {
	return q.from
}

// To returns the exclusive range end.
func (q GenerateReportQuery) To() time.Time {
	return q.to
}

// GenerateReportQueryResponse is the aggregate report read model.
// CollectionRate is the percentage of orders with cash collected;
// SettlementRate is the percentage of collected orders settled back to the
// merchant. Both are 0 when their denominator is 0.
type GenerateReportQueryResponse struct {
	From           time.Time
	To             time.Time
	TotalOrders    int
	OrdersByStage  map[string]int
	OrdersByStatus map[string]int
	TotalCODValue  float64
	CollectionRate float64
	SettlementRate float64
}
