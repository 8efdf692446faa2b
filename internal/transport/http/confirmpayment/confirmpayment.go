package confirmpayment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/titanshop/shop-svc/internal/service/models/order"
	"github.com/titanshop/shop-svc/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	ConfirmPayment(ctx context.Context, orderNumber, paymentRef string) (*order.Order, error)
}

type request struct {
	OrderNumber      string `json:"orderNumber"`
	PaymentReference string `json:"paymentReference"`
}

// ConfirmPayment handles the payment-provider callback. The callback may be
// redelivered; the service layer makes the confirmation idempotent, so this
// handler always answers 200 for a known order.
func ConfirmPayment(w http.ResponseWriter, r *http.Request, service service) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body for payment callback", "error", err)

		return
	}

	if req.OrderNumber == "" {
		http.Error(w, "orderNumber is required", http.StatusBadRequest)

		return
	}

	updated, err := service.ConfirmPayment(r.Context(), req.OrderNumber, req.PaymentReference)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error confirming payment", "order_number", req.OrderNumber, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, updated)
}
