package catalogsvc

import (
	"context"

	"github.com/titanshop/shop-svc/internal/service/models/catalog"
	"go.opentelemetry.io/otel"
)

// catalogRepository is the persistence contract for catalog entities.
type catalogRepository interface {
	ListCategories(ctx context.Context, onlyActive bool) ([]catalog.Category, error)
	CreateCategory(ctx context.Context, c catalog.Category) (*catalog.Category, error)
	UpdateCategory(ctx context.Context, c catalog.Category) (*catalog.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListProducts(ctx context.Context, onlyActive bool) ([]catalog.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID int64, onlyActive bool) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
	CreateProduct(ctx context.Context, p catalog.Product) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, p catalog.Product) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListPaymentMethods(ctx context.Context, onlyActive bool) ([]catalog.PaymentMethod, error)
	GetPaymentMethodByName(ctx context.Context, name string) (*catalog.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, m catalog.PaymentMethod) (*catalog.PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, m catalog.PaymentMethod) (*catalog.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, id int64) error
}

// CatalogService serves the read-mostly catalog: storefront reads see only
// active entries, the admin panel sees everything.
type CatalogService struct {
	repo catalogRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo catalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Categories returns active categories for the storefront.
func (s *CatalogService) Categories(ctx context.Context) ([]catalog.Category, error) {
	return s.repo.ListCategories(ctx, true)
}

// AllCategories returns every category for the admin panel.
func (s *CatalogService) AllCategories(ctx context.Context) ([]catalog.Category, error) {
	return s.repo.ListCategories(ctx, false)
}

func (s *CatalogService) CreateCategory(ctx context.Context, c catalog.Category) (*catalog.Category, error) {
	return s.repo.CreateCategory(ctx, c)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, c catalog.Category) (*catalog.Category, error) {
	return s.repo.UpdateCategory(ctx, c)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}

// Products returns active products with category names for the storefront.
func (s *CatalogService) Products(ctx context.Context) ([]catalog.Product, error) {
	ctx, span := otel.Tracer("catalogsvc").Start(ctx, "CatalogService.Products")
	defer span.End()

	return s.repo.ListProducts(ctx, true)
}

// AllProducts returns every product for the admin panel.
func (s *CatalogService) AllProducts(ctx context.Context) ([]catalog.Product, error) {
	return s.repo.ListProducts(ctx, false)
}

// ProductsByCategory returns a category's active products.
func (s *CatalogService) ProductsByCategory(ctx context.Context, categoryID int64) ([]catalog.Product, error) {
	return s.repo.ListProductsByCategory(ctx, categoryID, true)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, p catalog.Product) (*catalog.Product, error) {
	return s.repo.CreateProduct(ctx, p)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p catalog.Product) (*catalog.Product, error) {
	return s.repo.UpdateProduct(ctx, p)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.repo.DeleteProduct(ctx, id)
}

// PaymentMethods returns active payment methods for checkout.
func (s *CatalogService) PaymentMethods(ctx context.Context) ([]catalog.PaymentMethod, error) {
	return s.repo.ListPaymentMethods(ctx, true)
}

// AllPaymentMethods returns every payment method for the admin panel.
func (s *CatalogService) AllPaymentMethods(ctx context.Context) ([]catalog.PaymentMethod, error) {
	return s.repo.ListPaymentMethods(ctx, false)
}

// PaymentMethodByName resolves a method from its name snapshot.
func (s *CatalogService) PaymentMethodByName(ctx context.Context, name string) (*catalog.PaymentMethod, error) {
	return s.repo.GetPaymentMethodByName(ctx, name)
}

func (s *CatalogService) CreatePaymentMethod(ctx context.Context, m catalog.PaymentMethod) (*catalog.PaymentMethod, error) {
	return s.repo.CreatePaymentMethod(ctx, m)
}

func (s *CatalogService) UpdatePaymentMethod(ctx context.Context, m catalog.PaymentMethod) (*catalog.PaymentMethod, error) {
	return s.repo.UpdatePaymentMethod(ctx, m)
}

func (s *CatalogService) DeletePaymentMethod(ctx context.Context, id int64) error {
	return s.repo.DeletePaymentMethod(ctx, id)
}
