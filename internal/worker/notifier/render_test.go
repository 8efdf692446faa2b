package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/titanshop/shop-svc/internal/service/models/notification"
	"github.com/titanshop/shop-svc/internal/service/models/order"
	"github.com/titanshop/shop-svc/internal/service/models/user"
)

func testOrder() order.Order {
	return order.Order{
		Number: "ORD-1-00001",
		UserID: 42,
		Items: []order.LineItem{
			{ProductID: 1, Name: "Пицца Маргарита", PriceCents: 50000, Quantity: 1},
		},
		TotalCents:    50000,
		PaymentMethod: "Онлайн-оплата",
		Phone:         "+79990001122",
		Address:       "ул. Ленина, 1",
		Status:        order.StatusPending,
	}
}

func TestRenderCustomer_OrderCreated(t *testing.T) {
	text := renderCustomer(notification.Event{
		Kind:  notification.KindOrderCreated,
		Order: testOrder(),
	})

	assert.Contains(t, text, "ORD-1-00001")
	assert.Contains(t, text, "Пицца Маргарита")
	assert.Contains(t, text, "500.00 ₽")
}

func TestRenderCustomer_StatusChanged(t *testing.T) {
	o := testOrder()
	o.Status = order.StatusDelivering

	text := renderCustomer(notification.Event{
		Kind:  notification.KindStatusChanged,
		Order: o,
	})

	assert.Contains(t, text, "🚚")
	assert.Contains(t, text, "передан в доставку")
}

func TestRenderCustomer_PaymentReceived(t *testing.T) {
	text := renderCustomer(notification.Event{
		Kind:  notification.KindPaymentReceived,
		Order: testOrder(),
	})

	assert.Contains(t, text, "Оплата")
	assert.Contains(t, text, "ORD-1-00001")
}

func TestRenderCustomer_UnknownKindIsSilent(t *testing.T) {
	text := renderCustomer(notification.Event{Kind: "unknown", Order: testOrder()})

	assert.Empty(t, text)
}

func TestRenderAdmin_IncludesCustomerAndDeliveryDetails(t *testing.T) {
	text := renderAdmin(notification.Event{
		Kind:  notification.KindOrderCreated,
		Order: testOrder(),
	}, user.User{FirstName: "Иван", Username: "ivan"})

	assert.Contains(t, text, "Новый заказ")
	assert.Contains(t, text, "Иван")
	assert.Contains(t, text, "+79990001122")
	assert.Contains(t, text, "ул. Ленина, 1")
	assert.Contains(t, text, "Онлайн-оплата")
}

func TestRenderAdmin_UnknownCustomerFallsBack(t *testing.T) {
	text := renderAdmin(notification.Event{
		Kind:  notification.KindOrderCreated,
		Order: testOrder(),
	}, user.User{TelegramID: 42})

	assert.Contains(t, text, "клиент")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "500.00 ₽", formatAmount(50000))
	assert.Equal(t, "0.05 ₽", formatAmount(5))
	assert.Equal(t, "123.45 ₽", formatAmount(12345))
}
