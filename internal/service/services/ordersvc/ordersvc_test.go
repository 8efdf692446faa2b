package ordersvc

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/titanshop/shop-svc/internal/service/models/notification"
	"github.com/titanshop/shop-svc/internal/service/models/order"
	"github.com/titanshop/shop-svc/internal/service/models/settings"
)

// fakeOrderRepo reproduces the conditional-write contract of the Postgres
// repository: mutations are atomic under the mutex and report whether a row
// actually changed.
type fakeOrderRepo struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]*order.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int64]*order.Order)}
}

func (r *fakeOrderRepo) Insert(_ context.Context, o order.Order) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	o.ID = r.nextID
	stored := o
	r.orders[o.ID] = &stored
	copied := o

	return &copied, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id int64) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	copied := *stored

	return &copied, nil
}

func (r *fakeOrderRepo) GetByNumber(_ context.Context, number string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.findByNumber(number)
	if stored == nil {
		return nil, order.ErrNotFound
	}
	copied := *stored

	return &copied, nil
}

func (r *fakeOrderRepo) UpdateStatus(
	_ context.Context,
	id int64,
	status order.Status,
) (*order.Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[id]
	if !ok || stored.Status == status || stored.Status.Terminal() {
		return nil, false, nil
	}

	stored.Status = status
	stored.UpdatedAt = time.Now()
	copied := *stored

	return &copied, true, nil
}

func (r *fakeOrderRepo) MarkPaid(_ context.Context, number string) (*order.Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.findByNumber(number)
	if stored == nil || stored.PaymentStatus == order.PaymentPaid {
		return nil, false, nil
	}

	stored.PaymentStatus = order.PaymentPaid
	if stored.Status == order.StatusPending {
		stored.Status = order.StatusConfirmed
	}
	stored.UpdatedAt = time.Now()
	copied := *stored

	return &copied, true, nil
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID int64, limit int) ([]order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []order.Order
	for _, stored := range r.orders {
		if stored.UserID == userID && len(result) < limit {
			result = append(result, *stored)
		}
	}

	return result, nil
}

func (r *fakeOrderRepo) ListAll(_ context.Context, limit int) ([]order.AdminOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []order.AdminOrder
	for _, stored := range r.orders {
		if len(result) < limit {
			result = append(result, order.AdminOrder{Order: *stored})
		}
	}

	return result, nil
}

func (r *fakeOrderRepo) findByNumber(number string) *order.Order {
	for _, stored := range r.orders {
		if stored.Number == number {
			return stored
		}
	}

	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []notification.Event
}

func (p *fakePublisher) Publish(_ context.Context, event notification.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return nil
}

func (p *fakePublisher) byKind(kind notification.Kind) []notification.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	var result []notification.Event
	for _, event := range p.events {
		if event.Kind == kind {
			result = append(result, event)
		}
	}

	return result
}

type fakeSettings struct {
	values settings.Settings
}

func (s *fakeSettings) GetAll(_ context.Context) (settings.Settings, error) {
	if s.values == nil {
		return settings.Settings{}, nil
	}

	return s.values, nil
}

func newTestService(t *testing.T, repo *fakeOrderRepo, pub *fakePublisher, cfg settings.Settings) *OrderService {
	t.Helper()

	return MustNewOrderService(
		WithOrderRepository(repo),
		WithSettingsProvider(&fakeSettings{values: cfg}),
		WithPublisher(pub),
	)
}

func placeModel(userID int64) PlaceOrderModel {
	return PlaceOrderModel{
		UserID: userID,
		Items: []order.LineItem{
			{ProductID: 1, Name: "Пицца Маргарита", PriceCents: 50000, Quantity: 1},
			{ProductID: 2, Name: "Кола", PriceCents: 10000, Quantity: 2},
		},
		TotalCents:    70000,
		PaymentMethod: "Наличными при получении",
		Phone:         "+79990001122",
		Address:       "ул. Ленина, 1",
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	svc := newTestService(t, newFakeOrderRepo(), &fakePublisher{}, nil)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderModel{UserID: 1})

	assert.ErrorIs(t, err, order.ErrEmptyCart)
}

func TestPlaceOrder_InvalidItem(t *testing.T) {
	svc := newTestService(t, newFakeOrderRepo(), &fakePublisher{}, nil)

	model := placeModel(1)
	model.Items[0].Quantity = 0

	_, err := svc.PlaceOrder(context.Background(), model)

	assert.ErrorIs(t, err, order.ErrInvalidItem)
}

func TestPlaceOrder_MissingContact(t *testing.T) {
	svc := newTestService(t, newFakeOrderRepo(), &fakePublisher{}, nil)

	missingPhone := placeModel(1)
	missingPhone.Phone = ""
	_, err := svc.PlaceOrder(context.Background(), missingPhone)
	assert.ErrorIs(t, err, order.ErrMissingContact)

	missingAddress := placeModel(1)
	missingAddress.Address = ""
	_, err = svc.PlaceOrder(context.Background(), missingAddress)
	assert.ErrorIs(t, err, order.ErrMissingContact)
}

func TestPlaceOrder_TotalMismatch(t *testing.T) {
	svc := newTestService(t, newFakeOrderRepo(), &fakePublisher{}, nil)

	model := placeModel(1)
	model.TotalCents = 100

	_, err := svc.PlaceOrder(context.Background(), model)

	assert.ErrorIs(t, err, order.ErrTotalMismatch)
}

func TestPlaceOrder_BelowMinimum(t *testing.T) {
	cfg := settings.Settings{settings.KeyMinOrderAmount: "100000"}
	svc := newTestService(t, newFakeOrderRepo(), &fakePublisher{}, cfg)

	_, err := svc.PlaceOrder(context.Background(), placeModel(1))

	assert.ErrorIs(t, err, order.ErrBelowMinimum)
}

func TestPlaceOrder_MinimumBoundaryPasses(t *testing.T) {
	cfg := settings.Settings{settings.KeyMinOrderAmount: "70000"}
	svc := newTestService(t, newFakeOrderRepo(), &fakePublisher{}, cfg)

	created, err := svc.PlaceOrder(context.Background(), placeModel(1))

	require.NoError(t, err)
	assert.Equal(t, int64(70000), created.TotalCents)
}

func TestPlaceOrder_CreatesPendingUnpaid(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(t, newFakeOrderRepo(), pub, nil)

	created, err := svc.PlaceOrder(context.Background(), placeModel(42))

	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, created.Status)
	assert.Equal(t, order.PaymentUnpaid, created.PaymentStatus)
	assert.Contains(t, created.Number, "ORD-")

	events := pub.byKind(notification.KindOrderCreated)
	require.Len(t, events, 1)
	assert.Equal(t, created.Number, events[0].Order.Number)
}

func TestPlaceOrder_ConcurrentNumbersDistinct(t *testing.T) {
	svc := newTestService(t, newFakeOrderRepo(), &fakePublisher{}, nil)

	const n = 100
	numbers := make(chan string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := svc.PlaceOrder(context.Background(), placeModel(1))
			if assert.NoError(t, err) {
				numbers <- created.Number
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]struct{}, n)
	for number := range numbers {
		_, dup := seen[number]
		assert.False(t, dup, "duplicate order number %s", number)
		seen[number] = struct{}{}
	}
	assert.Len(t, seen, n)
}

func TestUpdateStatus_InvalidLabel(t *testing.T) {
	svc := newTestService(t, newFakeOrderRepo(), &fakePublisher{}, nil)

	_, err := svc.UpdateStatus(context.Background(), 1, "shipped")

	assert.ErrorIs(t, err, order.ErrInvalidStatus)
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	svc := newTestService(t, newFakeOrderRepo(), &fakePublisher{}, nil)

	_, err := svc.UpdateStatus(context.Background(), 404, "confirmed")

	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestUpdateStatus_EmitsEventWithPrevStatus(t *testing.T) {
	repo := newFakeOrderRepo()
	pub := &fakePublisher{}
	svc := newTestService(t, repo, pub, nil)

	created, err := svc.PlaceOrder(context.Background(), placeModel(1))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), created.ID, "confirmed")

	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, updated.Status)

	events := pub.byKind(notification.KindStatusChanged)
	require.Len(t, events, 1)
	assert.Equal(t, order.StatusPending, events[0].PrevStatus)
	assert.Equal(t, order.StatusConfirmed, events[0].Order.Status)
}

func TestUpdateStatus_SameStatusIsNoop(t *testing.T) {
	repo := newFakeOrderRepo()
	pub := &fakePublisher{}
	svc := newTestService(t, repo, pub, nil)

	created, err := svc.PlaceOrder(context.Background(), placeModel(1))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), created.ID, "pending")

	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, updated.Status)
	assert.Empty(t, pub.byKind(notification.KindStatusChanged))
}

// interceptRepo runs a hook right before the conditional status write,
// after the service has already read the order.
type interceptRepo struct {
	*fakeOrderRepo
	beforeUpdate func()
}

func (r *interceptRepo) UpdateStatus(
	ctx context.Context,
	id int64,
	status order.Status,
) (*order.Order, bool, error) {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}

	return r.fakeOrderRepo.UpdateStatus(ctx, id, status)
}

func TestUpdateStatus_CancelCommittedAfterReadIsNotOverwritten(t *testing.T) {
	inner := newFakeOrderRepo()
	pub := &fakePublisher{}
	repo := &interceptRepo{fakeOrderRepo: inner}
	svc := MustNewOrderService(
		WithOrderRepository(repo),
		WithSettingsProvider(&fakeSettings{}),
		WithPublisher(pub),
	)

	created, err := svc.PlaceOrder(context.Background(), placeModel(1))
	require.NoError(t, err)

	repo.beforeUpdate = func() {
		repo.beforeUpdate = nil
		_, applied, err := inner.UpdateStatus(context.Background(), created.ID, order.StatusCancelled)
		require.NoError(t, err)
		require.True(t, applied)
	}

	updated, err := svc.UpdateStatus(context.Background(), created.ID, "delivering")

	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, updated.Status)

	stored, err := inner.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, stored.Status)

	assert.Empty(t, pub.byKind(notification.KindStatusChanged))
}

func TestUpdateStatus_TerminalStateIsFrozen(t *testing.T) {
	repo := newFakeOrderRepo()
	pub := &fakePublisher{}
	svc := newTestService(t, repo, pub, nil)

	created, err := svc.PlaceOrder(context.Background(), placeModel(1))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID, "cancelled")
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), created.ID, "delivering")

	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, updated.Status)
	assert.Len(t, pub.byKind(notification.KindStatusChanged), 1)
}

func TestConfirmPayment_UnknownOrder(t *testing.T) {
	svc := newTestService(t, newFakeOrderRepo(), &fakePublisher{}, nil)

	_, err := svc.ConfirmPayment(context.Background(), "ORD-unknown", "charge-1")

	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestConfirmPayment_AdvancesPendingToConfirmed(t *testing.T) {
	repo := newFakeOrderRepo()
	pub := &fakePublisher{}
	svc := newTestService(t, repo, pub, nil)

	created, err := svc.PlaceOrder(context.Background(), placeModel(1))
	require.NoError(t, err)

	paid, err := svc.ConfirmPayment(context.Background(), created.Number, "charge-1")

	require.NoError(t, err)
	assert.Equal(t, order.PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, order.StatusConfirmed, paid.Status)

	events := pub.byKind(notification.KindPaymentReceived)
	require.Len(t, events, 1)
	assert.Equal(t, "charge-1", events[0].PaymentRef)
}

func TestConfirmPayment_LeavesAdvancedFulfillmentUntouched(t *testing.T) {
	repo := newFakeOrderRepo()
	pub := &fakePublisher{}
	svc := newTestService(t, repo, pub, nil)

	created, err := svc.PlaceOrder(context.Background(), placeModel(1))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID, "preparing")
	require.NoError(t, err)

	paid, err := svc.ConfirmPayment(context.Background(), created.Number, "charge-1")

	require.NoError(t, err)
	assert.Equal(t, order.PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, order.StatusPreparing, paid.Status)
}

func TestConfirmPayment_RedeliveryIsIdempotent(t *testing.T) {
	repo := newFakeOrderRepo()
	pub := &fakePublisher{}
	svc := newTestService(t, repo, pub, nil)

	created, err := svc.PlaceOrder(context.Background(), placeModel(1))
	require.NoError(t, err)

	first, err := svc.ConfirmPayment(context.Background(), created.Number, "charge-1")
	require.NoError(t, err)

	second, err := svc.ConfirmPayment(context.Background(), created.Number, "charge-1")
	require.NoError(t, err)

	assert.Equal(t, first.PaymentStatus, second.PaymentStatus)
	assert.Equal(t, first.Status, second.Status)
	assert.Len(t, pub.byKind(notification.KindPaymentReceived), 1)
}

func TestConfirmPayment_ConcurrentCallersSingleEvent(t *testing.T) {
	repo := newFakeOrderRepo()
	pub := &fakePublisher{}
	svc := newTestService(t, repo, pub, nil)

	created, err := svc.PlaceOrder(context.Background(), placeModel(1))
	require.NoError(t, err)

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.ConfirmPayment(context.Background(), created.Number, fmt.Sprintf("charge-%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, pub.byKind(notification.KindPaymentReceived), 1)

	stored, err := repo.GetByNumber(context.Background(), created.Number)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentPaid, stored.PaymentStatus)
}
