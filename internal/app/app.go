package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/titanshop/shop-svc/internal/dal/postgres"
	"github.com/titanshop/shop-svc/internal/dal/rabbitmq"
	catalogrepo "github.com/titanshop/shop-svc/internal/dal/repositories/catalog/postgres"
	orderrepo "github.com/titanshop/shop-svc/internal/dal/repositories/order/postgres"
	outboxrepo "github.com/titanshop/shop-svc/internal/dal/repositories/outbox/postgres"
	settingsrepo "github.com/titanshop/shop-svc/internal/dal/repositories/settings/postgres"
	userrepo "github.com/titanshop/shop-svc/internal/dal/repositories/user/postgres"
	"github.com/titanshop/shop-svc/internal/notify"
	"github.com/titanshop/shop-svc/internal/otel"
	"github.com/titanshop/shop-svc/internal/service/services/catalogsvc"
	"github.com/titanshop/shop-svc/internal/service/services/ordersvc"
	"github.com/titanshop/shop-svc/internal/service/services/settingssvc"
	"github.com/titanshop/shop-svc/internal/service/services/statssvc"
	"github.com/titanshop/shop-svc/internal/service/services/usersvc"
	"github.com/titanshop/shop-svc/internal/transport/bot"
	httptransport "github.com/titanshop/shop-svc/internal/transport/http"
	"github.com/titanshop/shop-svc/internal/worker/notifier"
	"github.com/titanshop/shop-svc/internal/worker/outbox"
)

// App represents the application.
type App struct {
	transport      *httptransport.HTTPTransport
	gateway        *bot.Gateway
	outboxWorker   *outbox.Worker
	notifierWorker *notifier.Worker
	otelController *otel.OtelController
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()

	postgresClient := postgres.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()

	orderRepo := orderrepo.NewPostgresOrderRepository(postgresClient)
	catalogRepo := catalogrepo.NewPostgresCatalogRepository(postgresClient)
	settingsRepo := settingsrepo.NewPostgresSettingsRepository(postgresClient)
	userRepo := userrepo.NewPostgresUserRepository(postgresClient)
	outboxRepo := outboxrepo.NewOutboxRepository(postgresClient)

	settingsSvc := settingssvc.NewSettingsService(settingsRepo)
	publisher := notify.NewPublisher(rabbitClient, outboxRepo)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(orderRepo),
		ordersvc.WithSettingsProvider(settingsSvc),
		ordersvc.WithPublisher(publisher),
	)
	catalogSvc := catalogsvc.NewCatalogService(catalogRepo)
	userSvc := usersvc.NewUserService(userRepo)
	statsSvc := statssvc.NewStatsService(orderRepo, catalogRepo, userRepo)

	gateway := bot.MustNewGateway(orderSvc, catalogSvc, settingsSvc, userSvc)

	transport := httptransport.NewHTTPTransport(orderSvc, catalogSvc, settingsSvc, statsSvc, userSvc)
	transport.RegisterRoutes()

	outboxWorker := outbox.NewWorker(outboxRepo, rabbitClient)
	notifierWorker := notifier.NewWorker(rabbitClient, gateway, userSvc)

	return &App{
		transport:      transport,
		gateway:        gateway,
		outboxWorker:   outboxWorker,
		notifierWorker: notifierWorker,
		otelController: otelController,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting bot gateway")
		a.gateway.Run(workerCtx)
	}()

	go a.outboxWorker.Start(workerCtx)

	go func() {
		if err := a.notifierWorker.Run(workerCtx); err != nil {
			slog.Error("Notifier error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	a.gracefulShutdown(cancelWorkers)
}

func (a *App) gracefulShutdown(cancelWorkers context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.notifierWorker.Shutdown(); err != nil {
		slog.Error("Notifier shutdown error", "error", err)
	}

	a.outboxWorker.Stop()
	cancelWorkers()

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Trace provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
