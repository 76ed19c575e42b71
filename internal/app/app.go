package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/ShopHub/internal/catalog"
	"github.com/utafrali/ShopHub/internal/config"
	"github.com/utafrali/ShopHub/internal/converter"
	"github.com/utafrali/ShopHub/internal/event"
	"github.com/utafrali/ShopHub/internal/game"
	handler "github.com/utafrali/ShopHub/internal/handler/http"
	"github.com/utafrali/ShopHub/internal/persist"
	"github.com/utafrali/ShopHub/internal/repository"
	"github.com/utafrali/ShopHub/internal/repository/postgres"
	redisrepo "github.com/utafrali/ShopHub/internal/repository/redis"
	"github.com/utafrali/ShopHub/internal/service"
	"github.com/utafrali/ShopHub/internal/session"
	"github.com/utafrali/ShopHub/migrations"
	"github.com/utafrali/ShopHub/pkg/database"
	"github.com/utafrali/ShopHub/pkg/health"
	"github.com/utafrali/ShopHub/pkg/httpclient"
	pkgkafka "github.com/utafrali/ShopHub/pkg/kafka"
	"github.com/utafrali/ShopHub/pkg/middleware"
	"github.com/utafrali/ShopHub/pkg/tracing"
)

const serviceName = "shophub"

// stateStore is a key-value backend for shopper state.
type stateStore interface {
	repository.KeyValueStore
	Ping(ctx context.Context) error
}

// App wires together all dependencies and runs the ShopHub service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	pool       *pgxpool.Pool
	producer   *pkgkafka.Producer
	writer     *persist.Writer
	sessions   *session.Registry
	games      *game.Registry
	refresher  *converter.Refresher
	router     http.Handler
	httpServer *http.Server

	// stopRouter ends background work owned by the router.
	stopRouter     context.CancelFunc
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing(serviceName))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = tracerShutdown

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded", slog.Int("products", cat.Len()))

	kv, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	// Kafka is optional; without it domain events are not published.
	var publisher event.Publisher
	if cfg.KafkaEnabled {
		kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		kafkaCfg.Async = true
		a.producer = pkgkafka.NewProducer(kafkaCfg, logger)
		publisher = a.producer
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	repo := repository.NewStateRepository(kv)
	a.writer = persist.NewWriter(kv, persist.Config{WriteTimeout: cfg.WriteTimeout}, logger)
	a.sessions = session.NewRegistry(repo, a.writer, cat, session.Config{
		IdleTimeout:    cfg.SessionIdleTimeout,
		SweepInterval:  cfg.SessionSweepInterval,
		HydrateTimeout: cfg.HydrateTimeout,
	}, logger)
	a.games = game.NewRegistry(cfg.GameTTL)

	conv := converter.Default()
	var rates *httpclient.CircuitBreakerClient
	if cfg.RatesURL != "" {
		rates = httpclient.NewCircuitBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultCircuitBreakerConfig("rates"),
			logger,
		)
		a.refresher = converter.NewRefresher(rates, cfg.RatesURL, conv, cfg.RatesRefreshInterval, logger)
	}

	eventProducer := event.NewProducer(publisher, logger)
	svcs := handler.Services{
		Catalog:  service.NewCatalogService(cat, a.sessions, logger),
		Cart:     service.NewCartService(a.sessions, cat, eventProducer, logger, cfg.ReadyWait),
		Wishlist: service.NewWishlistService(a.sessions, cat, eventProducer, logger, cfg.ReadyWait),
		Game:     service.NewGameService(a.games, logger),
		Tools:    service.NewToolsService(conv),
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical(cfg.StorageBackend, kv.Ping)
	if a.producer != nil {
		healthHandler.RegisterNonCritical("kafka", a.producer.Ping)
	}
	if rates != nil {
		healthHandler.RegisterNonCritical("rates", rates.Check)
	}

	// HTTP router.
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSOrigins
	routerCtx, stopRouter := context.WithCancel(context.Background())
	a.stopRouter = stopRouter
	a.router = handler.NewRouter(routerCtx, svcs, healthHandler, logger, handler.RouterConfig{
		PprofCIDRs:     cfg.PprofAllowedCIDRs,
		CORS:           cors,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		CacheMaxAge:    cfg.CacheMaxAge,
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           a.router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// Handler returns the HTTP handler serving the API.
func (a *App) Handler() http.Handler {
	return a.router
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		cat, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("load embedded catalog: %w", err)
		}
		return cat, nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return cat, nil
}

// openStorage connects the configured state backend.
func (a *App) openStorage(ctx context.Context) (stateStore, error) {
	cfg := a.cfg
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pgCfg := cfg.Postgres()
		pool, err := database.NewPostgresPool(ctx, &pgCfg, a.logger)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		a.logger.Info("connected to PostgreSQL",
			slog.String("host", cfg.PostgresHost),
			slog.Int("port", cfg.PostgresPort),
			slog.String("database", cfg.PostgresDB),
		)
		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, config.BackendPostgres, func() database.PoolStats {
			return database.PostgresPoolStats(pool)
		}); err != nil {
			a.logger.Warn("failed to register pool metrics", slog.String("error", err.Error()))
		}

		// Run database migrations.
		if err := database.RunMigrations(ctx, pool, migrations.FS, a.logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		a.logger.Info("database migrations completed")

		// Configure slow query logging.
		if cfg.SlowQueryThresholdMs > 0 {
			database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, a.logger)
		}
		return postgres.NewStateStore(pool), nil

	default:
		rdb, err := database.NewRedisClient(ctx, cfg.Redis(), a.logger)
		if err != nil {
			return nil, err
		}
		a.rdb = rdb
		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, config.BackendRedis, func() database.PoolStats {
			return database.RedisPoolStats(rdb)
		}); err != nil {
			a.logger.Warn("failed to register pool metrics", slog.String("error", err.Error()))
		}
		a.logger.Info("connected to Redis",
			slog.String("addr", cfg.Redis().Addr()),
			slog.Int("db", cfg.RedisDB),
		)
		return redisrepo.NewStateStore(rdb, cfg.StateTTL), nil
	}
}

// Run starts the HTTP server and background jobs, then blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	// Start HTTP server.
	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	a.startBackground(ctx)

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return errors.Join(err, a.Shutdown())
	}

	return a.Shutdown()
}

// startBackground launches the session sweeper, the game sweeper and the
// rate refresher. They stop when ctx is canceled.
func (a *App) startBackground(ctx context.Context) {
	go a.sessions.Run(ctx)
	go a.runGameSweep(ctx)
	if a.refresher != nil {
		go a.refresher.Run(ctx)
	}
}

// runGameSweep periodically drops abandoned games.
func (a *App) runGameSweep(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.SessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := a.games.Sweep(); removed > 0 {
				a.logger.Info("stale games removed", slog.Int("removed", removed))
			}
		}
	}
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Persist writer (flush pending shopper state)
// 3. Tracer (flush pending spans)
// 4. Kafka producer
// 5. Storage connections
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// 1. Drain in-flight HTTP requests.
	httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	if a.stopRouter != nil {
		a.stopRouter()
	}

	// 2. Flush snapshots written by the drained requests.
	writerCtx, writerCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer writerCancel()
	if err := a.writer.Close(writerCtx); err != nil {
		a.logger.Error("persist writer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 3. Flush pending spans.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	// 4. Close Kafka producer.
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	// 5. Close storage.
	a.closeStorage()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

func (a *App) closeStorage() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
