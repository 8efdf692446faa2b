package listorders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/titanshop/shop-svc/internal/service/models/order"
	"github.com/titanshop/shop-svc/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	ListAllOrders(ctx context.Context) ([]order.AdminOrder, error)
}

// ListOrders handles the admin order list request.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	orders, err := service.ListAllOrders(r.Context())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing orders", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, orders)
}
