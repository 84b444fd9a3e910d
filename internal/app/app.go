// Package app wires the notification service together: Postgres audit store,
// Kafka consumers and producer, Redis-backed consumer idempotency, upstream
// HTTP clients, the SMTP mail sender, and the HTTP API.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/shopforge/notification-service/internal/assembler"
	"github.com/shopforge/notification-service/internal/attachments"
	"github.com/shopforge/notification-service/internal/config"
	"github.com/shopforge/notification-service/internal/dispatch"
	"github.com/shopforge/notification-service/internal/event"
	handler "github.com/shopforge/notification-service/internal/handler/http"
	"github.com/shopforge/notification-service/internal/mail"
	"github.com/shopforge/notification-service/internal/repository/postgres"
	"github.com/shopforge/notification-service/internal/service"
	"github.com/shopforge/notification-service/internal/templates"
	"github.com/shopforge/notification-service/internal/upstream"
	"github.com/shopforge/notification-service/migrations"
	"github.com/shopforge/notification-service/pkg/database"
	"github.com/shopforge/notification-service/pkg/health"
	"github.com/shopforge/notification-service/pkg/httpclient"
	pkgkafka "github.com/shopforge/notification-service/pkg/kafka"
)

// idempotencyTTL bounds how long processed event IDs are remembered. Events
// older than this are past the broker's redelivery horizon anyway.
const idempotencyTTL = 24 * time.Hour

// App wires together all dependencies and runs the notification service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *redis.Client
	producer   *pkgkafka.Producer
	consumers  []*pkgkafka.Consumer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}

	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	database.RegisterPoolMetrics(pool, "notification")

	// Redis backs consumer idempotency.
	redisClient, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// Initialize Kafka producer for outcome events.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Upstream domain service clients share one retrying HTTP client behind a
	// circuit breaker. A tripped breaker fails assembly fast, which surfaces
	// as a retryable dispatch error rather than a half-assembled email.
	baseClient := httpclient.New(httpclient.Config{
		Timeout:         10 * time.Second,
		MaxRetries:      3,
		RetryWaitMin:    500 * time.Millisecond,
		RetryWaitMax:    5 * time.Second,
		MaxConnsPerHost: 100,
	})
	cbClient := httpclient.NewCircuitBreakerClient(
		baseClient,
		httpclient.DefaultCircuitBreakerConfig("notification-upstream"),
		logger,
	)
	upstreamServices := upstream.NewServices(cbClient, upstream.BaseURLs{
		Order:       cfg.OrderServiceURL,
		Return:      cfg.ReturnServiceURL,
		Swap:        cfg.SwapServiceURL,
		Claim:       cfg.ClaimServiceURL,
		Fulfillment: cfg.FulfillmentServiceURL,
		Cart:        cfg.CartServiceURL,
		GiftCard:    cfg.GiftCardServiceURL,
		Variant:     cfg.VariantServiceURL,
		Totals:      cfg.TotalsServiceURL,
		Provider:    cfg.ProviderServiceURL,
	})

	// Mail delivery.
	templateStore := mail.NewTemplateStore(cfg.TemplatePath)
	smtpSender := mail.NewSMTPSender(mail.SMTPConfig{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		Username:   cfg.SMTPUser,
		Password:   cfg.SMTPPass,
		Encryption: cfg.SMTPEncryption,
		FromEmail:  cfg.FromEmail,
	}, templateStore, logger)

	// Dispatch pipeline.
	templateMap := cfg.TemplateMap
	if len(templateMap) == 0 {
		templateMap = templates.Defaults()
	}
	templateResolver := templates.NewResolver(templateMap)
	dataAssembler := assembler.New(upstreamServices, cfg.EnvSnapshot(), logger)
	attachmentResolver := attachments.NewResolver(upstreamServices.Documents, logger)
	dispatcher := dispatch.New(templateResolver, dataAssembler, attachmentResolver, smtpSender, logger)

	repo := postgres.NewDispatchRepository(pool)
	eventProducer := event.NewProducer(kafkaProducer, logger)
	notificationService := service.NewNotificationService(repo, dispatcher, templateResolver, eventProducer, nil, logger)

	// Kafka event consumers with Redis-backed deduplication.
	consumerHandler := event.NewConsumerHandler(notificationService, logger)
	idempotencyStore := event.NewRedisIdempotencyStore(redisClient, idempotencyTTL)
	consumers := event.NewConsumers(
		cfg.KafkaBrokers,
		pkgkafka.IdempotentHandler(idempotencyStore, consumerHandler.Handle, logger),
		logger,
	)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", kafkaProducer.Ping)

	// HTTP router.
	router := handler.NewRouter(notificationService, healthHandler, logger, cfg.PprofAllowedCIDRs)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		redis:      redisClient,
		producer:   kafkaProducer,
		consumers:  consumers,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and Kafka consumers, then blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	// Start Kafka consumers.
	for _, consumer := range a.consumers {
		c := consumer
		go func() {
			if err := c.Start(ctx); err != nil {
				a.logger.Error("kafka consumer error", slog.String("error", err.Error()))
			}
		}()
	}

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Close Kafka consumers.
	for _, consumer := range a.consumers {
		if err := consumer.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
		}
	}

	// Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	// Close Redis client.
	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	// Close PostgreSQL pool.
	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
