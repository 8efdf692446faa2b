package settings

import "strconv"

// Well-known settings keys.
const (
	KeyShopName         = "shop_name"
	KeyWorkingHours     = "working_hours"
	KeyMinOrderAmount   = "min_order_amount"
	KeyDeliveryCost     = "delivery_cost"
	KeyFreeDeliveryFrom = "free_delivery_from"
)

// Settings is the flat key/value shop configuration. There is no schema
// beyond key uniqueness; typed accessors parse the values they need and
// fall back to zero on absent or malformed entries.
type Settings map[string]string

func (s Settings) Get(key string) string {
	return s[key]
}

func (s Settings) amount(key string) int64 {
	v, err := strconv.ParseInt(s[key], 10, 64)
	if err != nil {
		return 0
	}

	return v
}

// MinOrderAmount returns the configured minimum order total in minor
// currency units, or 0 when no minimum is configured.
func (s Settings) MinOrderAmount() int64 {
	return s.amount(KeyMinOrderAmount)
}

// DeliveryCost returns the configured delivery cost.
func (s Settings) DeliveryCost() int64 {
	return s.amount(KeyDeliveryCost)
}

// FreeDeliveryFrom returns the total starting from which delivery is free.
func (s Settings) FreeDeliveryFrom() int64 {
	return s.amount(KeyFreeDeliveryFrom)
}

func (s Settings) ShopName() string {
	return s[KeyShopName]
}

func (s Settings) WorkingHours() string {
	return s[KeyWorkingHours]
}
