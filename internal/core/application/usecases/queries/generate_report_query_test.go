package queries_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codship/internal/core/application/usecases/queries"
)

func TestNewGenerateReportQuery_Valid(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	query, err := queries.NewGenerateReportQuery(from, to)

	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, from, query.From())
	assert.Equal(t, to, query.To())
}

func TestNewGenerateReportQuery_ZeroStart(t *testing.T) {
	_, err := queries.NewGenerateReportQuery(time.Time{}, time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "report start date")
}

func TestNewGenerateReportQuery_ZeroEnd(t *testing.T) {
	_, err := queries.NewGenerateReportQuery(time.Now(), time.Time{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "report end date")
}

func TestNewGenerateReportQuery_EndNotAfterStart(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := queries.NewGenerateReportQuery(at, at)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "end date must be after start date")
}

func TestGenerateReportQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GenerateReportQuery{}

	err := query.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGenerateReportQueryIsNotConstructed)
}
