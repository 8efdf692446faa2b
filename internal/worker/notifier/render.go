package notifier

import (
	"fmt"
	"strings"

	"github.com/titanshop/shop-svc/internal/service/models/notification"
	"github.com/titanshop/shop-svc/internal/service/models/order"
	"github.com/titanshop/shop-svc/internal/service/models/user"
)

// renderCustomer builds the message sent to the order's owner. An empty
// string means the event carries nothing the customer needs to hear.
func renderCustomer(event notification.Event) string {
	o := event.Order

	switch event.Kind {
	case notification.KindOrderCreated:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("✅ Заказ <b>%s</b> оформлен!\n\n", o.Number))
		writeItems(&sb, o.Items)
		sb.WriteString(fmt.Sprintf("\nИтого: <b>%s</b>\nМы сообщим, когда заказ подтвердят.",
			formatAmount(o.TotalCents)))

		return sb.String()
	case notification.KindStatusChanged:
		return fmt.Sprintf("%s Заказ <b>%s</b>: %s",
			statusEmoji(o.Status), o.Number, statusTitle(o.Status))
	case notification.KindPaymentReceived:
		return fmt.Sprintf("💳 Оплата заказа <b>%s</b> получена, спасибо!", o.Number)
	default:
		return ""
	}
}

// renderAdmin builds the new-order alert fanned out to administrators.
func renderAdmin(event notification.Event, customer user.User) string {
	o := event.Order

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔔 Новый заказ <b>%s</b>\n", o.Number))
	sb.WriteString(fmt.Sprintf("👤 %s\n\n", customer.DisplayName()))
	writeItems(&sb, o.Items)
	sb.WriteString(fmt.Sprintf("\nИтого: <b>%s</b>\nОплата: %s\n",
		formatAmount(o.TotalCents), o.PaymentMethod))
	if o.Phone != "" {
		sb.WriteString("📱 " + o.Phone + "\n")
	}
	if o.Address != "" {
		sb.WriteString("📍 " + o.Address + "\n")
	}
	if o.Comment != "" {
		sb.WriteString("💬 " + o.Comment + "\n")
	}

	return sb.String()
}

func writeItems(sb *strings.Builder, items []order.LineItem) {
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("• %s x%d — %s\n",
			item.Name, item.Quantity, formatAmount(item.Subtotal())))
	}
}

func statusEmoji(s order.Status) string {
	switch s {
	case order.StatusPending:
		return "⏳"
	case order.StatusConfirmed, order.StatusCompleted:
		return "✅"
	case order.StatusPreparing:
		return "👨‍🍳"
	case order.StatusDelivering:
		return "🚚"
	case order.StatusCancelled:
		return "❌"
	default:
		return "📦"
	}
}

func statusTitle(s order.Status) string {
	switch s {
	case order.StatusPending:
		return "ожидает подтверждения"
	case order.StatusConfirmed:
		return "подтверждён"
	case order.StatusPreparing:
		return "готовится"
	case order.StatusDelivering:
		return "передан в доставку"
	case order.StatusCompleted:
		return "выполнен"
	case order.StatusCancelled:
		return "отменён"
	default:
		return string(s)
	}
}

func formatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d ₽", cents/100, cents%100)
}
