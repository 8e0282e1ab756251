package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/insurance-quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/insurance-quote-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/insurance-quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/insurance-quote-service/internal/platform/telemetry"
)

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// ServiceName names the otelgin server spans.
	ServiceName string

	// Logger is seeded into every request context.
	Logger *slog.Logger

	// HealthHandler serves /-/live, /-/ready, /-/build and /-/metrics.
	HealthHandler *handlers.HealthHandler

	// QuoteHandler serves /api/v1/quotes.
	QuoteHandler *handlers.QuoteHandler

	// Timeout bounds /api/v1 requests; zero disables it.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery
//  2. Context logger
//  3. Request ID
//  4. Correlation ID
//  5. OpenTelemetry tracing and metrics
//  6. Logging (skips /-/ probes)
//  7. Timeout, on /api/v1 only
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	engine.HandleMethodNotAllowed = true

	engine.Use(
		middleware.Recovery(),
		middleware.ContextLogger(logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
		telemetry.Middleware(),
		middleware.Logging(),
	)

	engine.NoRoute(func(c *gin.Context) {
		dto.AbortWithCode(c, dto.ErrorCodeNotFound, "route not found")
	})
	engine.NoMethod(func(c *gin.Context) {
		dto.AbortWithCode(c, dto.ErrorCodeMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(apiV1)
	}
}
