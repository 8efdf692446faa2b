package updatestatus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/titanshop/shop-svc/internal/service/models/order"
)

type fakeService struct {
	gotID     int64
	gotStatus string
	result    *order.Order
	err       error
}

func (s *fakeService) UpdateStatus(_ context.Context, id int64, statusLabel string) (*order.Order, error) {
	s.gotID = id
	s.gotStatus = statusLabel

	return s.result, s.err
}

func do(svc *fakeService, target, body string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Put("/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		UpdateStatus(w, r, svc)
	})

	req := httptest.NewRequest(http.MethodPut, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestUpdateStatus_OK(t *testing.T) {
	svc := &fakeService{result: &order.Order{ID: 7, Status: order.StatusPreparing}}

	rec := do(svc, "/orders/7/status", `{"status":"preparing"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), svc.gotID)
	assert.Equal(t, "preparing", svc.gotStatus)
}

func TestUpdateStatus_InvalidID(t *testing.T) {
	rec := do(&fakeService{}, "/orders/abc/status", `{"status":"preparing"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatus_InvalidLabel(t *testing.T) {
	svc := &fakeService{err: order.ErrInvalidStatus}

	rec := do(svc, "/orders/7/status", `{"status":"shipped"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	svc := &fakeService{err: order.ErrNotFound}

	rec := do(svc, "/orders/404/status", `{"status":"confirmed"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
