package confirmpayment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/titanshop/shop-svc/internal/service/models/order"
)

type fakeService struct {
	gotNumber string
	gotRef    string
	result    *order.Order
	err       error
}

func (s *fakeService) ConfirmPayment(_ context.Context, orderNumber, paymentRef string) (*order.Order, error) {
	s.gotNumber = orderNumber
	s.gotRef = paymentRef

	return s.result, s.err
}

func TestConfirmPayment_OK(t *testing.T) {
	svc := &fakeService{result: &order.Order{
		Number:        "ORD-1-00001",
		Status:        order.StatusConfirmed,
		PaymentStatus: order.PaymentPaid,
	}}

	body := `{"orderNumber":"ORD-1-00001","paymentReference":"charge-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments/callback", strings.NewReader(body))
	rec := httptest.NewRecorder()

	ConfirmPayment(rec, req, svc)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ORD-1-00001", svc.gotNumber)
	assert.Equal(t, "charge-1", svc.gotRef)

	var got order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, order.PaymentPaid, got.PaymentStatus)
}

func TestConfirmPayment_MissingOrderNumber(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/callback", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	ConfirmPayment(rec, req, &fakeService{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfirmPayment_UnknownOrder(t *testing.T) {
	svc := &fakeService{err: order.ErrNotFound}

	body := `{"orderNumber":"ORD-missing"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments/callback", strings.NewReader(body))
	rec := httptest.NewRecorder()

	ConfirmPayment(rec, req, svc)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfirmPayment_BadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/callback", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	ConfirmPayment(rec, req, &fakeService{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
