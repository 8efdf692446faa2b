package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/titanshop/shop-svc/internal/service/models/catalog"
	"github.com/titanshop/shop-svc/internal/service/models/order"
)

// JSON writes v as a JSON response body.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// Error maps service-layer sentinel errors to HTTP status codes so that
// validation misses and lookup misses stay distinguishable to clients.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, order.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrBelowMinimum),
		errors.Is(err, order.ErrTotalMismatch),
		errors.Is(err, order.ErrInvalidItem),
		errors.Is(err, order.ErrMissingContact):
		status = http.StatusBadRequest
	}

	JSON(w, status, errorBody{Error: err.Error()})
}
