// Package main is the entry point for the service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/boostclient/boostclient-service/internal/adapters/cache"
	"github.com/boostclient/boostclient-service/internal/adapters/http"
	"github.com/boostclient/boostclient-service/internal/adapters/http/handlers"
	"github.com/boostclient/boostclient-service/internal/adapters/persistence"
	"github.com/boostclient/boostclient-service/internal/app"
	"github.com/boostclient/boostclient-service/internal/platform/config"
	"github.com/boostclient/boostclient-service/internal/platform/logging"
	"github.com/boostclient/boostclient-service/internal/platform/telemetry"
	"github.com/boostclient/boostclient-service/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Open the database and bring the schema up to date
	db, err := openDatabase(&cfg.Database, telProvider, logger)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := persistence.Close(db); closeErr != nil {
			logger.Error("database close error", slog.Any("error", closeErr))
		}
	}()

	// 6. Health checks and database pool metrics
	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(persistence.HealthChecker(db)); err != nil {
		return fmt.Errorf("registering database health check: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("getting sql.DB: %w", err)
	}

	if err := prometheus.Register(collectors.NewDBStatsCollector(sqlDB, cfg.App.Name)); err != nil {
		return fmt.Errorf("registering database metrics: %w", err)
	}

	// 7. Entity cache (optional)
	var repoOpts []persistence.RepositoryOption

	entityCache, closeCache, err := openCache(&cfg.Cache, healthRegistry, logger)
	if err != nil {
		return err
	}

	defer closeCache()

	if entityCache != nil {
		repoOpts = append(repoOpts, persistence.WithCache(entityCache))
	}

	// 8. Repositories and application services
	metrics, err := telemetry.NewEntityMetrics()
	if err != nil {
		return fmt.Errorf("creating entity metrics: %w", err)
	}

	opts := app.Options{Logger: logger, Metrics: metrics}
	tx := persistence.NewTransactor(db)
	employers := persistence.NewEmployerRepository(db, repoOpts...)

	employerService := app.NewEmployerService(employers, tx, opts)
	quoteService := app.NewQuoteService(persistence.NewQuoteRepository(db, repoOpts...), employers, tx, opts)
	employeeService := app.NewEmployeeService(persistence.NewEmployeeRepository(db, repoOpts...), employers, tx, opts)

	// 9. Handlers and resources
	buildInfo := handlers.NewBuildInfo(cfg.App.Name, Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)

	// 10. Create HTTP server
	server := http.New(&cfg.Server, logger)

	// 11. Setup router with all middleware and routes
	routerCfg := http.NewDefaultRouterConfig(logger, &cfg.App, &cfg.Auth, healthHandler,
		http.NewEmployerResource(cfg.App.Name, employerService),
		http.NewQuoteResource(cfg.App.Name, quoteService),
		http.NewEmployeeResource(cfg.App.Name, employeeService),
	)
	routerCfg.Timeout = cfg.Server.RequestTimeout
	http.SetupRouter(server.Engine(), routerCfg)

	// 12. Start server (non-blocking)
	serverErr := server.Start()

	// 13. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

func openDatabase(cfg *config.DatabaseConfig, tel *telemetry.Provider, logger *slog.Logger) (*gorm.DB, error) {
	db, err := persistence.Open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if tel.Enabled() {
		if err := persistence.EnableTracing(db, cfg.Driver); err != nil {
			_ = persistence.Close(db)
			return nil, fmt.Errorf("enabling database tracing: %w", err)
		}
	}

	if cfg.AutoMigrate {
		if err := persistence.Migrate(db, cfg.Driver, logger); err != nil {
			_ = persistence.Close(db)
			return nil, fmt.Errorf("migrating database: %w", err)
		}
	}

	return db, nil
}

// openCache returns nil when caching is disabled. The returned func closes
// the backing store.
func openCache(
	cfg *config.CacheConfig,
	registry *ports.DefaultHealthRegistry,
	logger *slog.Logger,
) (*persistence.EntityCache, func(), error) {
	var store interface {
		ports.Cache
		Close() error
	}

	switch cfg.Driver {
	case config.CacheMemory:
		store = cache.NewMemoryCache()

	case config.CacheRedis:
		redisCache, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}

		if err := registry.Register(redisCache.HealthChecker()); err != nil {
			_ = redisCache.Close()
			return nil, nil, fmt.Errorf("registering cache health check: %w", err)
		}

		store = redisCache

	default:
		return nil, func() {}, nil
	}

	logger.Info("entity cache enabled",
		slog.String("driver", cfg.Driver),
		slog.Duration("ttl", cfg.TTL),
	)

	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.Error("cache close error", slog.Any("error", err))
		}
	}

	return persistence.NewEntityCache(store, cfg.TTL, logger), closeFn, nil
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
