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
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/JobPortal/pkg/database"
	"github.com/utafrali/JobPortal/pkg/health"
	pkgkafka "github.com/utafrali/JobPortal/pkg/kafka"
	"github.com/utafrali/JobPortal/pkg/middleware"
	"github.com/utafrali/JobPortal/pkg/tracing"
	"github.com/utafrali/JobPortal/services/jobboard/internal/auth"
	"github.com/utafrali/JobPortal/services/jobboard/internal/config"
	"github.com/utafrali/JobPortal/services/jobboard/internal/event"
	handler "github.com/utafrali/JobPortal/services/jobboard/internal/handler/http"
	"github.com/utafrali/JobPortal/services/jobboard/internal/ratelimit"
	"github.com/utafrali/JobPortal/services/jobboard/internal/repository/postgres"
	"github.com/utafrali/JobPortal/services/jobboard/internal/service"
	"github.com/utafrali/JobPortal/services/jobboard/migrations"
)

// App wires together all dependencies and runs the jobboard service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    handler.ServiceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	a := &App{cfg: cfg, logger: logger, tracerShutdown: tracerShutdown}
	if err := a.build(ctx); err != nil {
		a.closeResources()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// PostgreSQL is the only hard dependency.
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	a.pool = pool
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	if err := database.RegisterPoolMetrics(reg, pool, handler.ServiceName); err != nil {
		return fmt.Errorf("register pool metrics: %w", err)
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	// Login limiter. An unreachable Redis leaves the limiter failing open.
	var limiter service.LoginLimiter
	if cfg.LoginRateLimitEnabled {
		client, err := database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			logger.Warn("redis unavailable, login limiter will fail open", slog.String("error", err.Error()))
		} else {
			logger.Info("connected to Redis", slog.String("addr", cfg.Redis().Addr()))
		}
		a.redis = client
		limiter = ratelimit.NewLoginLimiter(client, cfg.LoginMaxAttempts, cfg.LoginWindow)
		healthHandler.RegisterNonCritical("redis", database.RedisChecker(client))
	}

	// Domain events.
	var publisher event.Publisher
	if cfg.KafkaEnabled {
		producerMetrics, err := pkgkafka.NewProducerMetrics(reg)
		if err != nil {
			return fmt.Errorf("register kafka metrics: %w", err)
		}
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), producerMetrics, logger)
		publisher = a.producer
		healthHandler.RegisterNonCritical("kafka", a.producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}
	events := event.NewProducer(publisher)

	// Build the dependency graph.
	hasher, err := auth.NewHasher(cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("create password hasher: %w", err)
	}
	tokens, err := auth.NewJWTManager(cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	if err != nil {
		return fmt.Errorf("create token manager: %w", err)
	}
	authMetrics, err := service.NewAuthMetrics(reg)
	if err != nil {
		return fmt.Errorf("register auth metrics: %w", err)
	}

	queryTracer := database.NewQueryTracer(cfg.SlowQueryThreshold(), logger)
	userRepo := postgres.NewUserRepository(pool, queryTracer)
	jobRepo := postgres.NewJobRepository(pool, queryTracer)
	appRepo := postgres.NewApplicationRepository(pool, queryTracer)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins

	router := handler.NewRouter(handler.RouterDeps{
		Auth:         service.NewAuthService(userRepo, hasher, tokens, limiter, events, authMetrics, logger),
		Jobs:         service.NewJobService(jobRepo, events, logger),
		Applications: service.NewApplicationService(jobRepo, appRepo, events, logger),
		Tokens:       tokens,
		Health:       healthHandler,
		Metrics:      middleware.NewHTTPMetrics(reg, handler.ServiceName),
		Gatherer:     reg,
		CORS:         cors,
		PprofCIDRs:   cfg.PprofAllowedCIDRs,
		Logger:       logger,
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return errors.Join(err, a.Shutdown())
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka producer, Redis client and PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.closeResources(); err != nil {
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// closeResources releases everything NewApp acquired. Nil resources are
// skipped so it also cleans up after a partial build.
func (a *App) closeResources() error {
	var errs []error

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	return errors.Join(errs...)
}
