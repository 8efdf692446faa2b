package placeorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/titanshop/shop-svc/internal/service/models/order"
	"github.com/titanshop/shop-svc/internal/service/services/ordersvc"
	"github.com/titanshop/shop-svc/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	PlaceOrder(ctx context.Context, model ordersvc.PlaceOrderModel) (*order.Order, error)
}

type cartItem struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

type request struct {
	UserID        int64      `json:"userId"`
	Cart          []cartItem `json:"cart"`
	Total         int64      `json:"total"`
	PaymentMethod string     `json:"paymentMethod"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	Comment       string     `json:"comment"`
}

// PlaceOrder handles the mini-app order submission.
func PlaceOrder(w http.ResponseWriter, r *http.Request, service service) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body for place order", "error", err)

		return
	}

	items := make([]order.LineItem, 0, len(req.Cart))
	for _, item := range req.Cart {
		items = append(items, order.LineItem{
			ProductID:  item.ProductID,
			Name:       item.Name,
			PriceCents: item.Price,
			Quantity:   item.Quantity,
		})
	}

	created, err := service.PlaceOrder(r.Context(), ordersvc.PlaceOrderModel{
		UserID:        req.UserID,
		Items:         items,
		TotalCents:    req.Total,
		PaymentMethod: req.PaymentMethod,
		Phone:         req.Phone,
		Address:       req.Address,
		Comment:       req.Comment,
	})
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error placing order", "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, created)
}
