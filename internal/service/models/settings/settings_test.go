package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettings_TypedAccessors(t *testing.T) {
	s := Settings{
		KeyShopName:       "Мой магазин",
		KeyMinOrderAmount: "50000",
		KeyDeliveryCost:   "15000",
	}

	assert.Equal(t, "Мой магазин", s.ShopName())
	assert.Equal(t, int64(50000), s.MinOrderAmount())
	assert.Equal(t, int64(15000), s.DeliveryCost())
}

func TestSettings_MalformedOrMissingAmountsFallBackToZero(t *testing.T) {
	s := Settings{KeyMinOrderAmount: "free"}

	assert.Zero(t, s.MinOrderAmount())
	assert.Zero(t, s.FreeDeliveryFrom())
}
