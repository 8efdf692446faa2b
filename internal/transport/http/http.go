package httptransport

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	"github.com/titanshop/shop-svc/internal/service/models/catalog"
	"github.com/titanshop/shop-svc/internal/service/models/order"
	"github.com/titanshop/shop-svc/internal/service/models/settings"
	"github.com/titanshop/shop-svc/internal/service/services/ordersvc"
	"github.com/titanshop/shop-svc/internal/service/services/statssvc"
	"github.com/titanshop/shop-svc/internal/transport/http/adminapi"
	"github.com/titanshop/shop-svc/internal/transport/http/confirmpayment"
	"github.com/titanshop/shop-svc/internal/transport/http/listorders"
	"github.com/titanshop/shop-svc/internal/transport/http/placeorder"
	"github.com/titanshop/shop-svc/internal/transport/http/shopapi"
	"github.com/titanshop/shop-svc/internal/transport/http/updatestatus"
	"github.com/titanshop/shop-svc/pkg/http/middleware/trace"
	"github.com/titanshop/shop-svc/pkg/logger"
)

type orderService interface {
	PlaceOrder(ctx context.Context, model ordersvc.PlaceOrderModel) (*order.Order, error)
	UpdateStatus(ctx context.Context, id int64, statusLabel string) (*order.Order, error)
	ConfirmPayment(ctx context.Context, orderNumber, paymentRef string) (*order.Order, error)
	ListAllOrders(ctx context.Context) ([]order.AdminOrder, error)
}

type catalogService interface {
	Categories(ctx context.Context) ([]catalog.Category, error)
	Products(ctx context.Context) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
	ProductsByCategory(ctx context.Context, categoryID int64) ([]catalog.Product, error)
	PaymentMethods(ctx context.Context) ([]catalog.PaymentMethod, error)

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

type settingsService interface {
	GetAll(ctx context.Context) (settings.Settings, error)
	Update(ctx context.Context, values map[string]string) error
}

type statsService interface {
	Collect(ctx context.Context) (*statssvc.Statistics, error)
}

type userService interface {
	SetAdmin(ctx context.Context, telegramID int64, isAdmin bool) error
}

type HTTPTransport struct {
	server      *http.Server
	router      *chi.Mux
	orderSvc    orderService
	catalogSvc  catalogService
	settingsSvc settingsService
	statsSvc    statsService
	userSvc     userService
}

func NewHTTPTransport(
	orderSvc orderService,
	catalogSvc catalogService,
	settingsSvc settingsService,
	statsSvc statsService,
	userSvc userService,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:      server,
		router:      router,
		orderSvc:    orderSvc,
		catalogSvc:  catalogSvc,
		settingsSvc: settingsSvc,
		statsSvc:    statsSvc,
		userSvc:     userSvc,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Get("/categories", h.categories)
		r.Get("/categories/{id}/products", h.categoryProducts)
		r.Get("/products", h.products)
		r.Get("/products/{id}", h.product)
		r.Get("/payment-methods", h.paymentMethods)
		r.Get("/settings", h.settings)
		r.Post("/orders", h.placeOrder)
		r.Post("/payments/callback", h.confirmPayment)

		r.Route("/admin", func(r chi.Router) {
			r.Use(adminAuth)
			r.Get("/orders", h.listOrders)
			r.Put("/orders/{id}/status", h.updateStatus)
			r.Get("/statistics", h.statistics)
			r.Get("/settings", h.adminSettings)
			r.Put("/settings", h.updateSettings)
			r.Put("/users/{id}/admin", h.setAdmin)

			r.Get("/categories", h.adminCategories)
			r.Post("/categories", h.createCategory)
			r.Put("/categories/{id}", h.updateCategory)
			r.Delete("/categories/{id}", h.deleteCategory)

			r.Get("/products", h.adminProducts)
			r.Post("/products", h.createProduct)
			r.Put("/products/{id}", h.updateProduct)
			r.Delete("/products/{id}", h.deleteProduct)

			r.Get("/payment-methods", h.adminPaymentMethods)
			r.Post("/payment-methods", h.createPaymentMethod)
			r.Put("/payment-methods/{id}", h.updatePaymentMethod)
			r.Delete("/payment-methods/{id}", h.deletePaymentMethod)
		})
	})
}

func (h *HTTPTransport) placeOrder(w http.ResponseWriter, r *http.Request) {
	placeorder.PlaceOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) confirmPayment(w http.ResponseWriter, r *http.Request) {
	confirmpayment.ConfirmPayment(w, r, h.orderSvc)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orderSvc)
}

func (h *HTTPTransport) updateStatus(w http.ResponseWriter, r *http.Request) {
	updatestatus.UpdateStatus(w, r, h.orderSvc)
}

func (h *HTTPTransport) categories(w http.ResponseWriter, r *http.Request) {
	shopapi.Categories(w, r, h.catalogSvc)
}

func (h *HTTPTransport) categoryProducts(w http.ResponseWriter, r *http.Request) {
	shopapi.CategoryProducts(w, r, h.catalogSvc)
}

func (h *HTTPTransport) products(w http.ResponseWriter, r *http.Request) {
	shopapi.Products(w, r, h.catalogSvc)
}

func (h *HTTPTransport) product(w http.ResponseWriter, r *http.Request) {
	shopapi.Product(w, r, h.catalogSvc)
}

func (h *HTTPTransport) paymentMethods(w http.ResponseWriter, r *http.Request) {
	shopapi.PaymentMethods(w, r, h.catalogSvc)
}

func (h *HTTPTransport) settings(w http.ResponseWriter, r *http.Request) {
	shopapi.Settings(w, r, h.settingsSvc)
}

func (h *HTTPTransport) statistics(w http.ResponseWriter, r *http.Request) {
	adminapi.Statistics(w, r, h.statsSvc)
}

func (h *HTTPTransport) adminSettings(w http.ResponseWriter, r *http.Request) {
	adminapi.Settings(w, r, h.settingsSvc)
}

func (h *HTTPTransport) updateSettings(w http.ResponseWriter, r *http.Request) {
	adminapi.UpdateSettings(w, r, h.settingsSvc)
}

func (h *HTTPTransport) setAdmin(w http.ResponseWriter, r *http.Request) {
	adminapi.SetAdmin(w, r, h.userSvc)
}

func (h *HTTPTransport) adminCategories(w http.ResponseWriter, r *http.Request) {
	adminapi.Categories(w, r, h.catalogSvc)
}

func (h *HTTPTransport) createCategory(w http.ResponseWriter, r *http.Request) {
	adminapi.CreateCategory(w, r, h.catalogSvc)
}

func (h *HTTPTransport) updateCategory(w http.ResponseWriter, r *http.Request) {
	adminapi.UpdateCategory(w, r, h.catalogSvc)
}

func (h *HTTPTransport) deleteCategory(w http.ResponseWriter, r *http.Request) {
	adminapi.DeleteCategory(w, r, h.catalogSvc)
}

func (h *HTTPTransport) adminProducts(w http.ResponseWriter, r *http.Request) {
	adminapi.Products(w, r, h.catalogSvc)
}

func (h *HTTPTransport) createProduct(w http.ResponseWriter, r *http.Request) {
	adminapi.CreateProduct(w, r, h.catalogSvc)
}

func (h *HTTPTransport) updateProduct(w http.ResponseWriter, r *http.Request) {
	adminapi.UpdateProduct(w, r, h.catalogSvc)
}

func (h *HTTPTransport) deleteProduct(w http.ResponseWriter, r *http.Request) {
	adminapi.DeleteProduct(w, r, h.catalogSvc)
}

func (h *HTTPTransport) adminPaymentMethods(w http.ResponseWriter, r *http.Request) {
	adminapi.PaymentMethods(w, r, h.catalogSvc)
}

func (h *HTTPTransport) createPaymentMethod(w http.ResponseWriter, r *http.Request) {
	adminapi.CreatePaymentMethod(w, r, h.catalogSvc)
}

func (h *HTTPTransport) updatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	adminapi.UpdatePaymentMethod(w, r, h.catalogSvc)
}

func (h *HTTPTransport) deletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	adminapi.DeletePaymentMethod(w, r, h.catalogSvc)
}

// adminAuth restricts the admin surface. The lifecycle manager trusts its
// caller; this boundary is where the restriction lives.
func adminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := os.Getenv("ADMIN_API_TOKEN")
		provided := r.Header.Get("X-Admin-Token")
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(provided)) != 1 {
			http.Error(w, "Forbidden", http.StatusForbidden)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
