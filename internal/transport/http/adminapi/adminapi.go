package adminapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/titanshop/shop-svc/internal/service/models/catalog"
	"github.com/titanshop/shop-svc/internal/service/models/settings"
	"github.com/titanshop/shop-svc/internal/service/services/statssvc"
	"github.com/titanshop/shop-svc/internal/transport/http/respond"
)

// catalogService is an interface for the catalog service layer.
type catalogService interface {
	AllCategories(ctx context.Context) ([]catalog.Category, error)
	CreateCategory(ctx context.Context, c catalog.Category) (*catalog.Category, error)
	UpdateCategory(ctx context.Context, c catalog.Category) (*catalog.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	AllProducts(ctx context.Context) ([]catalog.Product, error)
	CreateProduct(ctx context.Context, p catalog.Product) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, p catalog.Product) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	AllPaymentMethods(ctx context.Context) ([]catalog.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, m catalog.PaymentMethod) (*catalog.PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, m catalog.PaymentMethod) (*catalog.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, id int64) error
}

// settingsService is an interface for the settings service layer.
type settingsService interface {
	GetAll(ctx context.Context) (settings.Settings, error)
	Update(ctx context.Context, values map[string]string) error
}

// statsService is an interface for the statistics service layer.
type statsService interface {
	Collect(ctx context.Context) (*statssvc.Statistics, error)
}

// userService is an interface for the user service layer.
type userService interface {
	SetAdmin(ctx context.Context, telegramID int64, isAdmin bool) error
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	return id, err == nil
}

func decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body", "path", r.URL.Path, "error", err)

		return v, false
	}

	return v, true
}

// Categories handles the admin category list.
func Categories(w http.ResponseWriter, r *http.Request, service catalogService) {
	categories, err := service.AllCategories(r.Context())
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, categories)
}

// CreateCategory handles admin category creation.
func CreateCategory(w http.ResponseWriter, r *http.Request, service catalogService) {
	c, ok := decode[catalog.Category](w, r)
	if !ok {
		return
	}

	created, err := service.CreateCategory(r.Context(), c)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

// UpdateCategory handles admin category updates.
func UpdateCategory(w http.ResponseWriter, r *http.Request, service catalogService) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid category id", http.StatusBadRequest)

		return
	}

	c, ok := decode[catalog.Category](w, r)
	if !ok {
		return
	}
	c.ID = id

	updated, err := service.UpdateCategory(r.Context(), c)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, updated)
}

// DeleteCategory handles admin category deletion.
func DeleteCategory(w http.ResponseWriter, r *http.Request, service catalogService) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid category id", http.StatusBadRequest)

		return
	}

	if err := service.DeleteCategory(r.Context(), id); err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}

// Products handles the admin product list.
func Products(w http.ResponseWriter, r *http.Request, service catalogService) {
	products, err := service.AllProducts(r.Context())
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, products)
}

// CreateProduct handles admin product creation.
func CreateProduct(w http.ResponseWriter, r *http.Request, service catalogService) {
	p, ok := decode[catalog.Product](w, r)
	if !ok {
		return
	}

	created, err := service.CreateProduct(r.Context(), p)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

// UpdateProduct handles admin product updates.
func UpdateProduct(w http.ResponseWriter, r *http.Request, service catalogService) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid product id", http.StatusBadRequest)

		return
	}

	p, ok := decode[catalog.Product](w, r)
	if !ok {
		return
	}
	p.ID = id

	updated, err := service.UpdateProduct(r.Context(), p)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, updated)
}

// DeleteProduct handles admin product deletion.
func DeleteProduct(w http.ResponseWriter, r *http.Request, service catalogService) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid product id", http.StatusBadRequest)

		return
	}

	if err := service.DeleteProduct(r.Context(), id); err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// PaymentMethods handles the admin payment method list.
func PaymentMethods(w http.ResponseWriter, r *http.Request, service catalogService) {
	methods, err := service.AllPaymentMethods(r.Context())
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, methods)
}

// CreatePaymentMethod handles admin payment method creation.
func CreatePaymentMethod(w http.ResponseWriter, r *http.Request, service catalogService) {
	m, ok := decode[catalog.PaymentMethod](w, r)
	if !ok {
		return
	}

	created, err := service.CreatePaymentMethod(r.Context(), m)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

// UpdatePaymentMethod handles admin payment method updates.
func UpdatePaymentMethod(w http.ResponseWriter, r *http.Request, service catalogService) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid payment method id", http.StatusBadRequest)

		return
	}

	m, ok := decode[catalog.PaymentMethod](w, r)
	if !ok {
		return
	}
	m.ID = id

	updated, err := service.UpdatePaymentMethod(r.Context(), m)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, updated)
}

// DeletePaymentMethod handles admin payment method deletion.
func DeletePaymentMethod(w http.ResponseWriter, r *http.Request, service catalogService) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid payment method id", http.StatusBadRequest)

		return
	}

	if err := service.DeletePaymentMethod(r.Context(), id); err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Payment method deleted"})
}

// Settings handles the admin settings read.
func Settings(w http.ResponseWriter, r *http.Request, service settingsService) {
	cfg, err := service.GetAll(r.Context())
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, cfg)
}

// UpdateSettings handles the admin settings upsert.
func UpdateSettings(w http.ResponseWriter, r *http.Request, service settingsService) {
	values, ok := decode[map[string]string](w, r)
	if !ok {
		return
	}

	if err := service.Update(r.Context(), values); err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Settings updated"})
}

// Statistics handles the admin dashboard summary.
func Statistics(w http.ResponseWriter, r *http.Request, service statsService) {
	stats, err := service.Collect(r.Context())
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, stats)
}

type setAdminRequest struct {
	IsAdmin bool `json:"isAdmin"`
}

// SetAdmin handles toggling a user's administrator flag.
func SetAdmin(w http.ResponseWriter, r *http.Request, service userService) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid user id", http.StatusBadRequest)

		return
	}

	req, ok := decode[setAdminRequest](w, r)
	if !ok {
		return
	}

	if err := service.SetAdmin(r.Context(), id, req.IsAdmin); err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Admin flag updated"})
}
