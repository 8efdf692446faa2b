package ordersvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/titanshop/shop-svc/internal/service/models/notification"
	"github.com/titanshop/shop-svc/internal/service/models/order"
	"github.com/titanshop/shop-svc/internal/service/models/settings"
	"go.opentelemetry.io/otel"
)

const (
	userOrdersLimit  = 10
	adminOrdersLimit = 100
)

// orderRepository is the persistence contract consumed by the lifecycle
// manager. All mutating operations are atomic single-row writes; the
// conditional ones report whether a row actually changed.
type orderRepository interface {
	Insert(ctx context.Context, o order.Order) (*order.Order, error)
	GetByID(ctx context.Context, id int64) (*order.Order, error)
	GetByNumber(ctx context.Context, number string) (*order.Order, error)
	UpdateStatus(ctx context.Context, id int64, status order.Status) (*order.Order, bool, error)
	MarkPaid(ctx context.Context, number string) (*order.Order, bool, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]order.Order, error)
	ListAll(ctx context.Context, limit int) ([]order.AdminOrder, error)
}

// settingsProvider exposes the shop configuration, consumed read-only for
// order validation.
type settingsProvider interface {
	GetAll(ctx context.Context) (settings.Settings, error)
}

// publisher queues notification events after a transition commits.
type publisher interface {
	Publish(ctx context.Context, event notification.Event) error
}

// OrderService is the sole authority for order lifecycle transitions.
type OrderService struct {
	orderRepo orderRepository
	settings  settingsProvider
	publisher publisher
	numbers   numberGenerator
	clock     func() time.Time
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.orderRepo == nil {
		panic("ordersvc: order repository is required")
	}
	if s.settings == nil {
		panic("ordersvc: settings provider is required")
	}
	if s.publisher == nil {
		panic("ordersvc: notification publisher is required")
	}

	return s
}

// WithOrderRepository sets the order repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo orderRepository) option {
	return func(s *OrderService) {
		s.orderRepo = repo
	}
}

// WithSettingsProvider sets the settings provider for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSettingsProvider(provider settingsProvider) option {
	return func(s *OrderService) {
		s.settings = provider
	}
}

// WithPublisher sets the notification publisher for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPublisher(p publisher) option {
	return func(s *OrderService) {
		s.publisher = p
	}
}

// WithClock overrides the time source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(clock func() time.Time) option {
	return func(s *OrderService) {
		s.clock = clock
	}
}

// PlaceOrderModel is the input of PlaceOrder. Items carry the price
// snapshot resolved at cart-assembly time.
type PlaceOrderModel struct {
	UserID        int64
	Items         []order.LineItem
	TotalCents    int64
	PaymentMethod string
	Phone         string
	Address       string
	Comment       string
}

// PlaceOrder validates the submission, persists the order in a single
// atomic write, and queues creation notifications. The total is recomputed
// server-side from the line item snapshots; a client-declared total is
// never trusted and must match the sum exactly.
func (s *OrderService) PlaceOrder(ctx context.Context, model PlaceOrderModel) (*order.Order, error) {
	ctx, span := otel.Tracer("ordersvc").Start(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if len(model.Items) == 0 {
		return nil, order.ErrEmptyCart
	}
	if model.Phone == "" || model.Address == "" {
		return nil, order.ErrMissingContact
	}
	for _, item := range model.Items {
		if item.ProductID <= 0 || item.Quantity <= 0 || item.PriceCents < 0 {
			return nil, fmt.Errorf("%w: product %d", order.ErrInvalidItem, item.ProductID)
		}
	}

	now := s.clock()
	o := order.Order{
		Number:        s.numbers.next(now),
		UserID:        model.UserID,
		Items:         model.Items,
		TotalCents:    model.TotalCents,
		PaymentMethod: model.PaymentMethod,
		Phone:         model.Phone,
		Address:       model.Address,
		Comment:       model.Comment,
		Status:        order.StatusPending,
		PaymentStatus: order.PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if itemsTotal := o.ItemsTotal(); itemsTotal != model.TotalCents {
		return nil, fmt.Errorf("%w: declared %d, items sum to %d",
			order.ErrTotalMismatch, model.TotalCents, itemsTotal)
	}

	cfg, err := s.settings.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if min := cfg.MinOrderAmount(); min > 0 && model.TotalCents < min {
		return nil, fmt.Errorf("%w: minimum is %d", order.ErrBelowMinimum, min)
	}

	created, err := s.orderRepo.Insert(ctx, o)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, notification.Event{
		Kind:  notification.KindOrderCreated,
		Order: *created,
	})

	return created, nil
}

// UpdateStatus applies an admin-driven fulfillment transition. Setting the
// current status again, or any transition out of a terminal state, is a
// no-op that still reports success and triggers no notification.
func (s *OrderService) UpdateStatus(
	ctx context.Context,
	id int64,
	statusLabel string,
) (*order.Order, error) {
	ctx, span := otel.Tracer("ordersvc").Start(ctx, "OrderService.UpdateStatus")
	defer span.End()

	target, err := order.ParseStatus(statusLabel)
	if err != nil {
		return nil, err
	}

	current, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.Status == target || current.Status.Terminal() {
		return current, nil
	}

	updated, applied, err := s.orderRepo.UpdateStatus(ctx, id, target)
	if err != nil {
		return nil, err
	}
	if !applied {
		// A concurrent writer got there first; report the stored state.
		return s.orderRepo.GetByID(ctx, id)
	}

	s.emit(ctx, notification.Event{
		Kind:       notification.KindStatusChanged,
		Order:      *updated,
		PrevStatus: current.Status,
	})

	return updated, nil
}

// ConfirmPayment marks the order identified by its external number as paid.
// Payment callbacks may be redelivered, so the operation is idempotent: the
// conditional write lets exactly one of concurrent confirmations apply, and
// every other caller gets the already-paid record back with no duplicate
// notification. Fulfillment advances pending -> confirmed only.
func (s *OrderService) ConfirmPayment(
	ctx context.Context,
	orderNumber string,
	paymentRef string,
) (*order.Order, error) {
	ctx, span := otel.Tracer("ordersvc").Start(ctx, "OrderService.ConfirmPayment")
	defer span.End()

	updated, applied, err := s.orderRepo.MarkPaid(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Zero rows: either the number is unknown or the order is
		// already paid. Only the lookup can tell the two apart.
		existing, err := s.orderRepo.GetByNumber(ctx, orderNumber)
		if err != nil {
			return nil, err
		}

		return existing, nil
	}

	s.emit(ctx, notification.Event{
		Kind:       notification.KindPaymentReceived,
		Order:      *updated,
		PaymentRef: paymentRef,
	})

	return updated, nil
}

// ListUserOrders returns the user's most recent orders, newest first.
func (s *OrderService) ListUserOrders(ctx context.Context, userID int64) ([]order.Order, error) {
	ctx, span := otel.Tracer("ordersvc").Start(ctx, "OrderService.ListUserOrders")
	defer span.End()

	return s.orderRepo.ListByUser(ctx, userID, userOrdersLimit)
}

// ListAllOrders returns the most recent orders with customer display
// fields for the admin panel.
func (s *OrderService) ListAllOrders(ctx context.Context) ([]order.AdminOrder, error) {
	ctx, span := otel.Tracer("ordersvc").Start(ctx, "OrderService.ListAllOrders")
	defer span.End()

	return s.orderRepo.ListAll(ctx, adminOrdersLimit)
}

// emit queues a notification event. Delivery is best-effort: failures are
// logged and never surface as operation failures.
func (s *OrderService) emit(ctx context.Context, event notification.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Warn("Failed to queue notification",
			"kind", event.Kind,
			"order_number", event.Order.Number,
			"error", err,
		)
	}
}
