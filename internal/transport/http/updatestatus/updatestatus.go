package updatestatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/titanshop/shop-svc/internal/service/models/order"
	"github.com/titanshop/shop-svc/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	UpdateStatus(ctx context.Context, id int64, statusLabel string) (*order.Order, error)
}

type request struct {
	Status string `json:"status"`
}

// UpdateStatus handles the admin fulfillment-status transition.
func UpdateStatus(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)

		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body for status update", "error", err)

		return
	}

	updated, err := service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error updating order status", "order_id", id, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, updated)
}
