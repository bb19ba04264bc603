package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	storefrontserver "github.com/Apurer/storefront-api/go"

	accountsmemory "github.com/Apurer/storefront-api/internal/domains/accounts/adapters/memory"
	accountsnotifications "github.com/Apurer/storefront-api/internal/domains/accounts/adapters/notifications"
	accountsobs "github.com/Apurer/storefront-api/internal/domains/accounts/adapters/observability"
	accountspostgres "github.com/Apurer/storefront-api/internal/domains/accounts/adapters/persistence/postgres"
	accountsapp "github.com/Apurer/storefront-api/internal/domains/accounts/application"
	accountsports "github.com/Apurer/storefront-api/internal/domains/accounts/ports"
	catalogmemory "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/storefront-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-api/internal/domains/notifications/adapters/logmailer"
	"github.com/Apurer/storefront-api/internal/domains/notifications/adapters/smtp"
	notificationsapp "github.com/Apurer/storefront-api/internal/domains/notifications/application"
	notificationsports "github.com/Apurer/storefront-api/internal/domains/notifications/ports"
	"github.com/Apurer/storefront-api/internal/domains/orders/adapters/directory"
	orderskafka "github.com/Apurer/storefront-api/internal/domains/orders/adapters/events/kafka"
	ordersmemory "github.com/Apurer/storefront-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/storefront-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/storefront-api/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/Apurer/storefront-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/storefront-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/storefront-api/internal/domains/reports/adapters/xlsx"
	"github.com/Apurer/storefront-api/internal/platform/kafka"
	"github.com/Apurer/storefront-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/storefront-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/storefront-api/internal/platform/postgres"
	"github.com/Apurer/storefront-api/internal/platform/taskqueue"
)

const serviceName = "storefront-api"

// Run boots the storefront HTTP API with observability, repositories, background
// delivery and event publishing wired. It returns once ctx is cancelled and the
// server and receipt queue have drained.
func Run(ctx context.Context) error {
	if err := LoadEnvFile(); err != nil {
		return err
	}
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability(serviceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repos, cleanupRepos := buildRepositories(ctx, cfg, logger)
	defer cleanupRepos()

	queue := taskqueue.New(
		taskqueue.WithWorkers(cfg.ReceiptWorkers),
		taskqueue.WithCapacity(cfg.ReceiptQueueSize),
		taskqueue.WithLogger(logger),
	)
	notifier := NewNotifier(cfg, logger)

	catalogService := catalogobs.New(
		catalogapp.NewService(repos.catalog),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	accountService := accountsobs.New(
		accountsapp.NewService(repos.accounts,
			accountsapp.WithVerificationNotifier(accountsnotifications.NewQueuedConfirmation(queue, notifier)),
			accountsapp.WithRegistrationNotifier(registrationNotifier(cfg, queue)),
			accountsapp.WithLogger(logger),
		),
		accountsobs.WithLogger(logger),
		accountsobs.WithTracer(instruments.Tracer("internal.accounts.application")),
		accountsobs.WithMeter(instruments.Meter("internal.accounts.application")),
	)

	var dispatcher ordersports.ReceiptDispatcher = ordersworkflows.NewQueuedReceiptDispatcher(queue, notifier)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, delivering receipts in-process", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		dispatcher = ordersworkflows.NewTemporalReceiptDispatcher(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	var events ordersports.EventPublisher = ordersports.NoopEventPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaOrderTopic, serviceName, logger)
		if err != nil {
			logger.Warn("kafka producer unavailable, order events disabled", slog.String("error", err.Error()))
		} else {
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := producer.Close(closeCtx); err != nil {
					logger.Warn("failed to flush kafka producer", slog.String("error", err.Error()))
				}
			}()
			events = orderskafka.NewPublisher(producer)
			logger.Info("order events published to kafka", slog.String("topic", cfg.KafkaOrderTopic))
		}
	}

	orderService := ordersobs.New(
		ordersapp.NewService(repos.orders,
			directory.NewCatalog(catalogService),
			directory.NewAccounts(accountService),
			ordersapp.WithReceiptDispatcher(dispatcher),
			ordersapp.WithEventPublisher(events),
			ordersapp.WithNotifier(notifier),
			ordersapp.WithReportCompiler(xlsx.NewCompiler(cfg.Currency)),
			ordersapp.WithPricingPolicy(cfg.PricingPolicy),
			ordersapp.WithIdempotencyStore(repos.idempotency),
			ordersapp.WithLogger(logger),
		),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	storefrontserver.UseLogger(logger)
	handlers := storefrontserver.ApiHandleFunctions{
		CatalogAPI: storefrontserver.NewCatalogAPI(catalogService),
		AccountAPI: storefrontserver.NewAccountAPI(accountService),
		OrderAPI:   storefrontserver.NewOrderAPI(orderService),
		AdminAPI:   storefrontserver.NewAdminAPI(orderService, accountService, catalogService),
	}
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), otelgin.Middleware(serviceName))
	router := storefrontserver.NewRouterWithGinEngine(engine, handlers)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("storefront API listening", slog.String("addr", srv.Addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("storefront API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
			_ = queue.Close(context.Background())
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down storefront API")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
	if err := queue.Close(shutdownCtx); err != nil {
		logger.Warn("receipt queue did not drain", slog.Int("pending", queue.Len()), slog.String("error", err.Error()))
	}
	return nil
}

type repositories struct {
	catalog  catalogports.Repository
	accounts accountsports.Repository
	orders   ordersports.Repository

	idempotency ordersports.IdempotencyStore
}

// buildRepositories prefers PostgreSQL and falls back to linked in-memory
// stores when no database is reachable.
func buildRepositories(ctx context.Context, cfg Config, logger *slog.Logger) (repositories, func()) {
	db, cleanup := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
	if db != nil {
		if err := migrations.Run(db.WithContext(ctx)); err != nil {
			logger.Warn("failed to migrate postgres schema, falling back to memory", slog.String("error", err.Error()))
			cleanup()
		} else {
			logger.Info("repositories configured with postgres")
			return repositories{
				catalog:  catalogpostgres.NewRepository(db),
				accounts: accountspostgres.NewRepository(db),
				orders:   orderspostgres.NewRepository(db),

				idempotency: orderspostgres.NewIdempotencyStore(db),
			}, cleanup
		}
	}
	products := catalogmemory.NewRepository()
	accounts := accountsmemory.NewRepository()
	orders := ordersmemory.NewRepository(products, accounts)
	products.UseReferenceCheck(orders.ReferencesProduct)
	accounts.UseDeleteHook(orders.DeleteByUser)
	return repositories{
		catalog:     products,
		accounts:    accounts,
		orders:      orders,
		idempotency: ordersmemory.NewIdempotencyStore(),
	}, func() {}
}

// NewNotifier sends through SMTP when configured and logs messages otherwise.
func NewNotifier(cfg Config, logger *slog.Logger) notificationsports.Notifier {
	var mailer notificationsports.Mailer = logmailer.New(logger)
	if cfg.SMTP.Enabled() {
		smtpMailer, err := smtp.NewMailer(cfg.SMTP)
		if err != nil {
			logger.Warn("smtp mailer unavailable, logging emails instead", slog.String("error", err.Error()))
		} else {
			mailer = smtpMailer
			logger.Info("smtp mailer configured", slog.String("host", cfg.SMTP.Host))
		}
	} else {
		logger.Warn("SMTP_HOST or SMTP_FROM not set, logging emails instead")
	}
	return notificationsapp.NewService(mailer,
		notificationsapp.WithBrand(cfg.Brand),
		notificationsapp.WithCurrency(cfg.Currency),
	)
}

// registrationNotifier returns nil when no webhook is configured, which keeps
// the service's no-op default.
func registrationNotifier(cfg Config, queue *taskqueue.Queue) accountsports.RegistrationNotifier {
	if cfg.RegistrationWebhookURL == "" {
		return nil
	}
	return accountsnotifications.NewRegistrationWebhook(queue, cfg.RegistrationWebhookURL, nil)
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Log()),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
