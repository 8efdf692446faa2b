package shopapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/titanshop/shop-svc/internal/service/models/catalog"
	"github.com/titanshop/shop-svc/internal/service/models/settings"
	"github.com/titanshop/shop-svc/internal/transport/http/respond"
)

// catalogService is an interface for the catalog service layer.
type catalogService interface {
	Categories(ctx context.Context) ([]catalog.Category, error)
	Products(ctx context.Context) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
	ProductsByCategory(ctx context.Context, categoryID int64) ([]catalog.Product, error)
	PaymentMethods(ctx context.Context) ([]catalog.PaymentMethod, error)
}

// settingsService is an interface for the settings service layer.
type settingsService interface {
	GetAll(ctx context.Context) (settings.Settings, error)
}

// Categories handles the storefront category list.
func Categories(w http.ResponseWriter, r *http.Request, service catalogService) {
	categories, err := service.Categories(r.Context())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing categories", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, categories)
}

// Products handles the storefront product list.
func Products(w http.ResponseWriter, r *http.Request, service catalogService) {
	products, err := service.Products(r.Context())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing products", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, products)
}

// Product handles a single storefront product read.
func Product(w http.ResponseWriter, r *http.Request, service catalogService) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid product id", http.StatusBadRequest)

		return
	}

	product, err := service.GetProduct(r.Context(), id)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, product)
}

// CategoryProducts handles the storefront per-category product list.
func CategoryProducts(w http.ResponseWriter, r *http.Request, service catalogService) {
	categoryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid category id", http.StatusBadRequest)

		return
	}

	products, err := service.ProductsByCategory(r.Context(), categoryID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing category products", "category_id", categoryID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, products)
}

// PaymentMethods handles the storefront payment method list.
func PaymentMethods(w http.ResponseWriter, r *http.Request, service catalogService) {
	methods, err := service.PaymentMethods(r.Context())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing payment methods", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, methods)
}

// Settings handles the storefront settings read.
func Settings(w http.ResponseWriter, r *http.Request, service settingsService) {
	cfg, err := service.GetAll(r.Context())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error loading settings", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, cfg)
}
