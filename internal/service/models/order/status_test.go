package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, label := range []string{"pending", "confirmed", "preparing", "delivering", "completed", "cancelled"} {
		parsed, err := ParseStatus(label)
		require.NoError(t, err)
		assert.Equal(t, label, parsed.String())
	}
}

func TestParseStatus_RejectsUnknownLabels(t *testing.T) {
	for _, label := range []string{"", "shipped", "PENDING", "paid"} {
		_, err := ParseStatus(label)
		assert.ErrorIs(t, err, ErrInvalidStatus, "label %q", label)
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())

	for _, s := range []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusDelivering} {
		assert.False(t, s.Terminal(), "status %s", s)
	}
}

func TestOrder_ItemsTotal(t *testing.T) {
	o := Order{
		Items: []LineItem{
			{ProductID: 1, PriceCents: 50000, Quantity: 1},
			{ProductID: 2, PriceCents: 10000, Quantity: 2},
		},
	}

	assert.Equal(t, int64(70000), o.ItemsTotal())
}
