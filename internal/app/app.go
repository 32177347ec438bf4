package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goldendrop/storefront/internal/brevo"
	"github.com/goldendrop/storefront/internal/catalog"
	"github.com/goldendrop/storefront/internal/config"
	"github.com/goldendrop/storefront/internal/event"
	handler "github.com/goldendrop/storefront/internal/handler/http"
	"github.com/goldendrop/storefront/internal/payment"
	redisrepo "github.com/goldendrop/storefront/internal/repository/redis"
	"github.com/goldendrop/storefront/internal/service"
	"github.com/goldendrop/storefront/internal/shipping"
	"github.com/goldendrop/storefront/pkg/health"
	"github.com/goldendrop/storefront/pkg/httpclient"
	pkgkafka "github.com/goldendrop/storefront/pkg/kafka"
	"github.com/goldendrop/storefront/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize tracing.
	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "storefront",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRate:   cfg.TraceSample,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Initialize Redis client.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Upstream clients: single-shot, behind circuit breakers.
	clientCfg := httpclient.SingleShotConfig()
	stripeCB := httpclient.NewCircuitBreakerClient(httpclient.New(clientCfg),
		httpclient.DefaultCircuitBreakerConfig("stripe"), logger)
	brevoCB := httpclient.NewCircuitBreakerClient(httpclient.New(clientCfg),
		httpclient.DefaultCircuitBreakerConfig("brevo"), logger)

	stripeClient := payment.NewClient(stripeCB, cfg.StripeAPIBaseURL,
		cfg.StripeSecretKey, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)
	brevoClient := brevo.NewClient(brevoCB, cfg.BrevoAPIBaseURL, cfg.BrevoAPIKey, cfg.BrevoListIDs)

	// Build the dependency graph.
	cartTTL := time.Duration(cfg.CartTTL) * time.Hour
	newsletterTTL := time.Duration(cfg.NewsletterTTL) * time.Hour

	cartRepo := redisrepo.NewCartRepository(rdb, cartTTL, logger)
	newsletterRepo := redisrepo.NewNewsletterRepository(rdb, newsletterTTL)
	eventProducer := event.NewProducer(producer, logger)
	cat := catalog.GoldenDrop()

	cartService := service.NewCartService(cartRepo, cat, shipping.Default(), eventProducer, logger, cartTTL)
	checkoutService := service.NewCheckoutService(cfg, cartService, stripeClient, brevoClient, eventProducer, logger)
	newsletterService := service.NewNewsletterService(cfg, newsletterRepo, brevoClient, eventProducer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", producer.Ping)

	// HTTP router.
	router := handler.NewRouter(cfg, cat, cartService, checkoutService, newsletterService, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

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

	// Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	// Close Redis client.
	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	// Flush traces.
	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
