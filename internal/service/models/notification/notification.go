package notification

import (
	"github.com/titanshop/shop-svc/internal/service/models/order"
)

// Kind discriminates notification events on the wire.
type Kind string

const (
	KindOrderCreated    Kind = "order_created"
	KindStatusChanged   Kind = "status_changed"
	KindPaymentReceived Kind = "payment_received"
)

// Event is the envelope queued to the notification sink after an order
// transition commits. Delivery is best-effort: the transition never waits
// for it and never fails because of it.
type Event struct {
	Kind       Kind         `json:"kind"`
	Order      order.Order  `json:"order"`
	PrevStatus order.Status `json:"prevStatus,omitempty"`
	PaymentRef string       `json:"paymentRef,omitempty"`
}
