package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/redis/go-redis/v9"

	"github.com/jschof1/val-des-roses/internal/cart"
	"github.com/jschof1/val-des-roses/internal/catalog"
	"github.com/jschof1/val-des-roses/internal/commerce"
	"github.com/jschof1/val-des-roses/internal/config"
	"github.com/jschof1/val-des-roses/internal/event"
	handler "github.com/jschof1/val-des-roses/internal/handler/http"
	"github.com/jschof1/val-des-roses/internal/repository"
	"github.com/jschof1/val-des-roses/internal/repository/badgerdb"
	redisrepo "github.com/jschof1/val-des-roses/internal/repository/redis"
	"github.com/jschof1/val-des-roses/pkg/health"
	"github.com/jschof1/val-des-roses/pkg/httpclient"
	pkgkafka "github.com/jschof1/val-des-roses/pkg/kafka"
	"github.com/jschof1/val-des-roses/pkg/middleware"
	"github.com/jschof1/val-des-roses/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	badgerDB       *badger.DB
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	// OpenTelemetry tracing. Disabled by default; the request middleware
	// falls back to the no-op global provider.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = tracerShutdown

	// Cart snapshot storage. Redis is the default; Badger serves
	// single-node deployments without external infrastructure.
	var repo repository.CartRepository
	cartTTL := time.Duration(cfg.CartTTL) * time.Hour

	switch cfg.StorageBackend {
	case "redis":
		a.rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err := a.rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		repo = redisrepo.NewCartRepository(a.rdb, cartTTL)
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
	case "badger":
		db, err := badgerdb.Open(cfg.BadgerPath)
		if err != nil {
			return nil, fmt.Errorf("open badger store: %w", err)
		}
		a.badgerDB = db
		repo = badgerdb.NewCartRepository(db, cartTTL)
		logger.Info("opened Badger store", slog.String("path", cfg.BadgerPath))
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.StorageBackend)
	}

	// Kafka producer for the cart event stream.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	a.producer = pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Commerce platform client behind a retrying HTTP client and a
	// circuit breaker. Unconfigured credentials select the demo catalog.
	commerceCfg := commerce.Config{
		Domain:      cfg.StoreDomain,
		AccessToken: cfg.StoreAccessToken,
		APIVersion:  cfg.StoreAPIVersion,
	}
	baseClient := httpclient.New(httpclient.DefaultConfig())
	cbClient := httpclient.NewCircuitBreakerClient(
		baseClient,
		httpclient.DefaultCircuitBreakerConfig("commerce-platform"),
		logger,
	)
	commerceClient := commerce.New(commerceCfg, cbClient, logger)

	// Catalog read path. The Redis cache is only available on the redis
	// backend; Badger deployments fetch directly.
	catalogCacheTTL := time.Duration(cfg.CatalogCacheTTL) * time.Second
	catalogSvc := catalog.NewService(commerceClient, a.rdb, catalogCacheTTL, logger)

	// Per-session cart stores.
	eventProducer := event.NewProducer(a.producer, logger)
	manager := cart.NewManager(cart.Deps{
		Repo:     repo,
		Commerce: commerceClient,
		Producer: eventProducer,
		Logger:   logger,
		CartTTL:  cartTTL,
	})

	// Health checks. Storage is critical; Kafka only degrades the event
	// stream, cart mutations still work without it.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("storage", repo.Ping)
	healthHandler.RegisterNonCritical("kafka", a.producer.Ping)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(handler.RouterConfig{
		Manager:       manager,
		Catalog:       catalogSvc,
		HealthHandler: healthHandler,
		Logger:        logger,
		CORS:          corsCfg,
		PprofCIDRs:    cfg.PprofAllowedCIDRs,
	})

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if a.badgerDB != nil {
		if err := a.badgerDB.Close(); err != nil {
			a.logger.Error("badger close error", slog.String("error", err.Error()))
		}
	}

	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
