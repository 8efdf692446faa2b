package order

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when an order lookup by id or number misses.
	ErrNotFound = errors.New("order not found")
	// ErrEmptyCart is returned when an order is placed with no line items.
	ErrEmptyCart = errors.New("order has no items")
	// ErrBelowMinimum is returned when the order total is below the
	// configured minimum order amount.
	ErrBelowMinimum = errors.New("order total below minimum")
	// ErrTotalMismatch is returned when the declared total does not equal
	// the sum of the line item snapshots.
	ErrTotalMismatch = errors.New("declared total does not match items")
	// ErrInvalidItem is returned when a line item has a bad product
	// reference or a non-positive quantity.
	ErrInvalidItem = errors.New("invalid line item")
	// ErrMissingContact is returned when an order is placed without a
	// phone number or delivery address.
	ErrMissingContact = errors.New("phone and address are required")
)

// LineItem is an immutable snapshot of a product at order-creation time.
// It is embedded in the order row, not a live reference to the catalog,
// so later catalog edits never change what was agreed.
type LineItem struct {
	ProductID  int64  `json:"productId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
}

// Subtotal returns the item price multiplied by its quantity.
func (i LineItem) Subtotal() int64 {
	return i.PriceCents * int64(i.Quantity)
}

// Order represents a placed order. The total and line items are a financial
// record of what was agreed and are immutable after creation; only the
// fulfillment status and the payment status change afterwards.
type Order struct {
	ID            int64         `json:"id"`
	Number        string        `json:"orderNumber"`
	UserID        int64         `json:"userId"`
	Items         []LineItem    `json:"items"`
	TotalCents    int64         `json:"totalCents"`
	PaymentMethod string        `json:"paymentMethod"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	Comment       string        `json:"comment"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ItemsTotal sums the line item snapshots.
func (o *Order) ItemsTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}

	return total
}

// CustomerInfo carries denormalized user display fields joined onto an
// order for the admin list.
type CustomerInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
}

// AdminOrder is an order together with its customer's display fields.
type AdminOrder struct {
	Order
	Customer CustomerInfo `json:"customer"`
}
