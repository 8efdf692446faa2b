package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tg "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/spf13/viper"
	"github.com/titanshop/shop-svc/internal/service/models/catalog"
	"github.com/titanshop/shop-svc/internal/service/models/order"
	"github.com/titanshop/shop-svc/internal/service/models/settings"
	"github.com/titanshop/shop-svc/internal/service/models/user"
	"github.com/titanshop/shop-svc/internal/service/services/ordersvc"
)

const (
	buttonCatalog  = "🛍 Каталог"
	buttonMyOrders = "📦 Мои заказы"
	buttonAbout    = "ℹ️ О магазине"
	buttonContacts = "📞 Контакты"
)

// orderService is an interface for the order service layer.
type orderService interface {
	PlaceOrder(ctx context.Context, model ordersvc.PlaceOrderModel) (*order.Order, error)
	ConfirmPayment(ctx context.Context, orderNumber, paymentRef string) (*order.Order, error)
	ListUserOrders(ctx context.Context, userID int64) ([]order.Order, error)
}

// catalogService is an interface for the catalog service layer.
type catalogService interface {
	PaymentMethodByName(ctx context.Context, name string) (*catalog.PaymentMethod, error)
}

// settingsService is an interface for the settings service layer.
type settingsService interface {
	GetAll(ctx context.Context) (settings.Settings, error)
}

// userService is an interface for the user service layer.
type userService interface {
	SyncUser(ctx context.Context, u user.User) error
}

// Gateway is the Telegram transport: it serves the chat menu, accepts
// mini-app checkouts, and completes native invoice payments.
type Gateway struct {
	bot           *tg.Bot
	orderSvc      orderService
	catalogSvc    catalogService
	settingsSvc   settingsService
	userSvc       userService
	webAppURL     string
	providerToken string
	currency      string
}

// MustNewGateway creates a new Gateway or panics when the bot token is
// missing or rejected.
func MustNewGateway(
	orderSvc orderService,
	catalogSvc catalogService,
	settingsSvc settingsService,
	userSvc userService,
) *Gateway {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		panic("bot: TELEGRAM_BOT_TOKEN is not set")
	}

	g := &Gateway{
		orderSvc:      orderSvc,
		catalogSvc:    catalogSvc,
		settingsSvc:   settingsSvc,
		userSvc:       userSvc,
		webAppURL:     viper.GetString("telegram.webapp_url"),
		providerToken: os.Getenv("PAYMENT_PROVIDER_TOKEN"),
		currency:      viper.GetString("telegram.currency"),
	}
	if g.currency == "" {
		g.currency = "RUB"
	}

	b, err := tg.New(token, tg.WithDefaultHandler(g.handleUpdate))
	if err != nil {
		panic("bot: " + err.Error())
	}
	g.bot = b

	return g
}

// Run polls updates until the context is cancelled.
func (g *Gateway) Run(ctx context.Context) {
	g.bot.Start(ctx)
}

// SendText delivers a plain HTML-formatted message to a chat. The notifier
// worker uses it as its delivery sink.
func (g *Gateway) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := g.bot.SendMessage(ctx, &tg.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeHTML,
	})

	return err
}

func (g *Gateway) handleUpdate(ctx context.Context, _ *tg.Bot, update *tgmodels.Update) {
	if update.PreCheckoutQuery != nil {
		g.handlePreCheckout(ctx, update.PreCheckoutQuery)

		return
	}

	msg := update.Message
	if msg == nil {
		return
	}

	if msg.From != nil {
		g.syncUser(ctx, msg.From)
	}

	switch {
	case msg.SuccessfulPayment != nil:
		g.handleSuccessfulPayment(ctx, msg)
	case msg.WebAppData != nil:
		g.handleWebAppOrder(ctx, msg)
	case msg.Text == buttonMyOrders:
		g.handleMyOrders(ctx, msg.Chat.ID)
	case msg.Text == buttonAbout:
		g.handleAbout(ctx, msg.Chat.ID)
	case msg.Text == buttonContacts:
		g.handleContacts(ctx, msg.Chat.ID)
	default:
		g.sendMenu(ctx, msg.Chat.ID)
	}
}

func (g *Gateway) syncUser(ctx context.Context, from *tgmodels.User) {
	err := g.userSvc.SyncUser(ctx, user.User{
		TelegramID: from.ID,
		Username:   from.Username,
		FirstName:  from.FirstName,
		LastName:   from.LastName,
	})
	if err != nil {
		slog.Error("Failed to sync user", "telegram_id", from.ID, "error", err)
	}
}

func (g *Gateway) sendMenu(ctx context.Context, chatID int64) {
	catalogButton := tgmodels.KeyboardButton{Text: buttonCatalog}
	if g.webAppURL != "" {
		catalogButton.WebApp = &tgmodels.WebAppInfo{URL: g.webAppURL}
	}

	keyboard := &tgmodels.ReplyKeyboardMarkup{
		Keyboard: [][]tgmodels.KeyboardButton{
			{catalogButton},
			{{Text: buttonMyOrders}, {Text: buttonAbout}},
			{{Text: buttonContacts}},
		},
		ResizeKeyboard: true,
	}

	_, err := g.bot.SendMessage(ctx, &tg.SendMessageParams{
		ChatID:      chatID,
		Text:        "Добро пожаловать! Откройте каталог, чтобы сделать заказ 👇",
		ReplyMarkup: keyboard,
	})
	if err != nil {
		slog.Error("Failed to send menu", "chat_id", chatID, "error", err)
	}
}

// webAppOrder mirrors the checkout payload of the mini app.
type webAppOrder struct {
	Cart []struct {
		ProductID int64  `json:"productId"`
		Name      string `json:"name"`
		Price     int64  `json:"price"`
		Quantity  int    `json:"quantity"`
	} `json:"cart"`
	Total         int64  `json:"total"`
	PaymentMethod string `json:"paymentMethod"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Comment       string `json:"comment"`
}

func (g *Gateway) handleWebAppOrder(ctx context.Context, msg *tgmodels.Message) {
	chatID := msg.Chat.ID

	var payload webAppOrder
	if err := json.Unmarshal([]byte(msg.WebAppData.Data), &payload); err != nil {
		slog.Error("Failed to decode mini-app checkout", "chat_id", chatID, "error", err)
		g.reply(ctx, chatID, "Не удалось обработать заказ, попробуйте ещё раз.")

		return
	}

	items := make([]order.LineItem, 0, len(payload.Cart))
	for _, item := range payload.Cart {
		items = append(items, order.LineItem{
			ProductID:  item.ProductID,
			Name:       item.Name,
			PriceCents: item.Price,
			Quantity:   item.Quantity,
		})
	}

	created, err := g.orderSvc.PlaceOrder(ctx, ordersvc.PlaceOrderModel{
		UserID:        chatID,
		Items:         items,
		TotalCents:    payload.Total,
		PaymentMethod: payload.PaymentMethod,
		Phone:         payload.Phone,
		Address:       payload.Address,
		Comment:       payload.Comment,
	})
	if err != nil {
		slog.Error("Failed to place mini-app order", "chat_id", chatID, "error", err)
		g.reply(ctx, chatID, placeOrderFailureText(err))

		return
	}

	if g.sendInvoiceIfOnline(ctx, chatID, created) {
		return
	}

	g.reply(ctx, chatID, orderAcceptedText(created))
}

// sendInvoiceIfOnline issues a native Telegram invoice for online payment
// methods. Returns false when the order settles outside the chat, or when
// no payment provider is configured.
func (g *Gateway) sendInvoiceIfOnline(ctx context.Context, chatID int64, o *order.Order) bool {
	if g.providerToken == "" {
		return false
	}

	method, err := g.catalogSvc.PaymentMethodByName(ctx, o.PaymentMethod)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			slog.Error("Failed to resolve payment method",
				"method", o.PaymentMethod, "error", err)
		}

		return false
	}
	if method.Type != catalog.MethodOnline {
		return false
	}

	prices := make([]tgmodels.LabeledPrice, 0, len(o.Items))
	for _, item := range o.Items {
		prices = append(prices, tgmodels.LabeledPrice{
			Label:  fmt.Sprintf("%s x%d", item.Name, item.Quantity),
			Amount: int(item.Subtotal()),
		})
	}

	_, err = g.bot.SendInvoice(ctx, &tg.SendInvoiceParams{
		ChatID:        chatID,
		Title:         "Заказ " + o.Number,
		Description:   fmt.Sprintf("Оплата заказа %s на сумму %s", o.Number, formatAmount(o.TotalCents)),
		Payload:       o.Number,
		ProviderToken: g.providerToken,
		Currency:      g.currency,
		Prices:        prices,
	})
	if err != nil {
		slog.Error("Failed to send invoice", "order_number", o.Number, "error", err)
		g.reply(ctx, chatID, orderAcceptedText(o))

		return true
	}

	return true
}

// handlePreCheckout approves the pre-checkout handshake. The order was
// validated when it was placed; the invoice payload carries its number.
func (g *Gateway) handlePreCheckout(ctx context.Context, q *tgmodels.PreCheckoutQuery) {
	_, err := g.bot.AnswerPreCheckoutQuery(ctx, &tg.AnswerPreCheckoutQueryParams{
		PreCheckoutQueryID: q.ID,
		OK:                 true,
	})
	if err != nil {
		slog.Error("Failed to answer pre-checkout query",
			"order_number", q.InvoicePayload, "error", err)
	}
}

// handleSuccessfulPayment confirms the order as paid. Confirmation is
// idempotent, so a redelivered payment update is harmless. The customer is
// notified through the notification pipeline, not from here.
func (g *Gateway) handleSuccessfulPayment(ctx context.Context, msg *tgmodels.Message) {
	payment := msg.SuccessfulPayment

	_, err := g.orderSvc.ConfirmPayment(ctx, payment.InvoicePayload, payment.TelegramPaymentChargeID)
	if err != nil {
		slog.Error("Failed to confirm payment",
			"order_number", payment.InvoicePayload, "error", err)
		g.reply(ctx, msg.Chat.ID,
			"Оплата получена, но заказ не найден. Свяжитесь с магазином.")
	}
}

func (g *Gateway) handleMyOrders(ctx context.Context, chatID int64) {
	orders, err := g.orderSvc.ListUserOrders(ctx, chatID)
	if err != nil {
		slog.Error("Failed to list user orders", "chat_id", chatID, "error", err)
		g.reply(ctx, chatID, "Не удалось загрузить заказы, попробуйте позже.")

		return
	}

	if len(orders) == 0 {
		g.reply(ctx, chatID, "У вас пока нет заказов.")

		return
	}

	var sb strings.Builder
	sb.WriteString("📦 Ваши заказы:\n")
	for _, o := range orders {
		sb.WriteString(fmt.Sprintf("\n%s <b>%s</b>\n%s, %s\n",
			statusEmoji(o.Status), o.Number, statusTitle(o.Status), formatAmount(o.TotalCents)))
	}

	g.reply(ctx, chatID, sb.String())
}

func (g *Gateway) handleAbout(ctx context.Context, chatID int64) {
	cfg, err := g.settingsSvc.GetAll(ctx)
	if err != nil {
		slog.Error("Failed to load settings", "error", err)
		g.reply(ctx, chatID, "Информация временно недоступна.")

		return
	}

	var sb strings.Builder
	if name := cfg.ShopName(); name != "" {
		sb.WriteString("<b>" + name + "</b>\n")
	}
	if hours := cfg.WorkingHours(); hours != "" {
		sb.WriteString("🕒 Часы работы: " + hours + "\n")
	}
	if min := cfg.MinOrderAmount(); min > 0 {
		sb.WriteString("💰 Минимальный заказ: " + formatAmount(min) + "\n")
	}
	if cost := cfg.DeliveryCost(); cost > 0 {
		sb.WriteString("🚚 Доставка: " + formatAmount(cost) + "\n")
	}
	if free := cfg.FreeDeliveryFrom(); free > 0 {
		sb.WriteString("🎁 Бесплатная доставка от " + formatAmount(free) + "\n")
	}
	if sb.Len() == 0 {
		sb.WriteString("Информация о магазине пока не заполнена.")
	}

	g.reply(ctx, chatID, sb.String())
}

func (g *Gateway) handleContacts(ctx context.Context, chatID int64) {
	cfg, err := g.settingsSvc.GetAll(ctx)
	if err != nil {
		slog.Error("Failed to load settings", "error", err)
		g.reply(ctx, chatID, "Информация временно недоступна.")

		return
	}

	contacts := cfg.Get("contacts")
	if contacts == "" {
		contacts = "Контакты пока не указаны."
	}

	g.reply(ctx, chatID, "📞 "+contacts)
}

func (g *Gateway) reply(ctx context.Context, chatID int64, text string) {
	if err := g.SendText(ctx, chatID, text); err != nil {
		slog.Error("Failed to send message", "chat_id", chatID, "error", err)
	}
}

func orderAcceptedText(o *order.Order) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ Заказ <b>%s</b> принят!\n\n", o.Number))
	for _, item := range o.Items {
		sb.WriteString(fmt.Sprintf("• %s x%d — %s\n",
			item.Name, item.Quantity, formatAmount(item.Subtotal())))
	}
	sb.WriteString(fmt.Sprintf("\nИтого: <b>%s</b>\nОплата: %s",
		formatAmount(o.TotalCents), o.PaymentMethod))

	return sb.String()
}

func placeOrderFailureText(err error) string {
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		return "Корзина пуста, добавьте товары и попробуйте снова."
	case errors.Is(err, order.ErrBelowMinimum):
		return "Сумма заказа меньше минимальной."
	case errors.Is(err, order.ErrMissingContact):
		return "Укажите телефон и адрес доставки."
	case errors.Is(err, order.ErrTotalMismatch), errors.Is(err, order.ErrInvalidItem):
		return "Не удалось оформить заказ, проверьте корзину и попробуйте снова."
	default:
		return "Не удалось оформить заказ, попробуйте позже."
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
		return "в доставке"
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
