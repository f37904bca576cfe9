package domain

import (
	"errors"
	"testing"

	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidTransition_AcceptsExactlyTheTable(t *testing.T) {
	allowed := map[OrderStatus]map[OrderStatus]bool{
		StatusPending:    {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed:  {StatusProcessing: true, StatusCancelled: true},
		StatusProcessing: {StatusShipped: true, StatusCancelled: true},
		StatusShipped:    {StatusDelivered: true},
	}

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			want := allowed[from][to]
			assert.Equalf(t, want, IsValidTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestIsValidTransition_TerminalSelfTransitions(t *testing.T) {
	assert.False(t, IsValidTransition(StatusDelivered, StatusDelivered))
	assert.False(t, IsValidTransition(StatusCancelled, StatusCancelled))
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusShipped.IsTerminal())
}

func TestIsValidTransition_UnknownStatusFailsClosed(t *testing.T) {
	assert.False(t, IsValidTransition(OrderStatus("refunded"), StatusCancelled))
	assert.False(t, IsValidTransition(OrderStatus(""), StatusPending))
	assert.False(t, IsValidTransition(StatusPending, OrderStatus("refunded")))
	assert.False(t, OrderStatus("refunded").IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus(" Shipped ")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, s)

	_, err = ParseOrderStatus("lost")
	assert.True(t, errors.Is(err, e.ErrInvalidStatus))
}
