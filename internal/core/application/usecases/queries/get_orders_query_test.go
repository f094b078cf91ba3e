package queries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codship/internal/core/application/usecases/queries"
)

func TestNewGetOrdersQuery_Valid(t *testing.T) {
	query, err := queries.NewGetOrdersQuery(20, 40, "in_progress", "shipping")

	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, 20, query.Limit())
	assert.Equal(t, 40, query.Offset())
	assert.Equal(t, "in_progress", query.Status())
	assert.Equal(t, "shipping", query.Stage())
}

func TestNewGetOrdersQuery_DefaultsLimit(t *testing.T) {
	query, err := queries.NewGetOrdersQuery(0, 0, "", "")

	require.NoError(t, err)
	assert.Equal(t, 50, query.Limit())
}

func TestNewGetOrdersQuery_CapsLimit(t *testing.T) {
	query, err := queries.NewGetOrdersQuery(5000, 0, "", "")

	require.NoError(t, err)
	assert.Equal(t, 200, query.Limit())
}

func TestNewGetOrdersQuery_NegativeOffset(t *testing.T) {
	_, err := queries.NewGetOrdersQuery(10, -1, "", "")

	require.Error(t, err)
}

func TestNewGetOrdersQuery_UnknownStatus(t *testing.T) {
	_, err := queries.NewGetOrdersQuery(10, 0, "unheard_of", "")

	require.Error(t, err)
}

func TestNewGetOrdersQuery_UnknownStage(t *testing.T) {
	_, err := queries.NewGetOrdersQuery(10, 0, "", "teleportation")

	require.Error(t, err)
}

func TestGetOrdersQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetOrdersQuery{}

	err := query.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetOrdersQueryIsNotConstructed)
}
