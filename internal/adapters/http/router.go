package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/boostclient/boostclient-service/internal/adapters/http/handlers"
	"github.com/boostclient/boostclient-service/internal/adapters/http/middleware"
	"github.com/boostclient/boostclient-service/internal/platform/config"
	"github.com/boostclient/boostclient-service/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AuthConfig contains authentication header configuration.
	AuthConfig *config.AuthConfig

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// Resources are mounted under /api.
	Resources []Routes

	// Timeout is the request deadline applied under /api.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Context logger - seed the request logger
//  3. Request ID - generate/extract request ID
//  4. Correlation ID - handle distributed tracing correlation
//  5. OpenTelemetry - tracing, then metrics
//  6. Logging - request logging (skips health endpoints)
//
// Route groups:
//   - /-/ (internal): Health endpoints, no auth required
//   - /api/ (public API): entity resources with a request timeout and,
//     when enabled, gateway header auth
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.ContextLogger(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(serviceName(cfg.AppConfig)),
		telemetry.Middleware(),
		middleware.Logging(cfg.Logger),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	api := engine.Group("/api")
	if cfg.Timeout > 0 {
		api.Use(middleware.Timeout(cfg.Timeout))
	}

	var write []gin.HandlerFunc

	if cfg.AuthConfig != nil && cfg.AuthConfig.Enabled {
		api.Use(middleware.RequireAuth(cfg.AuthConfig))
		write = append(write, middleware.RequireWriteRole(cfg.AuthConfig))
	}

	for _, resource := range cfg.Resources {
		resource.Register(api, write...)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with sensible defaults.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	authCfg *config.AuthConfig,
	healthHandler *handlers.HealthHandler,
	resources ...Routes,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AuthConfig:    authCfg,
		AppConfig:     appCfg,
		HealthHandler: healthHandler,
		Resources:     resources,
		Timeout:       DefaultRequestTimeout,
	}
}

func serviceName(appCfg *config.AppConfig) string {
	if appCfg == nil || appCfg.Name == "" {
		return "boostclient"
	}

	return appCfg.Name
}
