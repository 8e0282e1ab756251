// Package middleware provides HTTP middleware components for the Gin server.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/insurance-quote-service/internal/platform/logging"
)

const (
	// HeaderRequestID identifies a single HTTP request.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID tracks a business transaction across services.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin.Context key holding the request ID.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin.Context key holding the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// idMiddlewareConfig configures the ID middleware behavior.
type idMiddlewareConfig struct {
	headerName string
	contextKey string
	enrich     func(ctx context.Context, id string) context.Context
}

// RequestID returns middleware that takes the request ID from X-Request-ID,
// or generates a UUID v4, then echoes it and adds it to the context logger.
func RequestID() gin.HandlerFunc {
	return idMiddleware(idMiddlewareConfig{
		headerName: HeaderRequestID,
		contextKey: ContextKeyRequestID,
		enrich:     logging.WithRequestID,
	})
}

// CorrelationID is RequestID for X-Correlation-ID. An incoming value is
// propagated unchanged; a missing one marks this request as the origin.
func CorrelationID() gin.HandlerFunc {
	return idMiddleware(idMiddlewareConfig{
		headerName: HeaderCorrelationID,
		contextKey: ContextKeyCorrelationID,
		enrich:     logging.WithCorrelationID,
	})
}

// GetRequestID returns the request ID, or "" when RequestID did not run.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID, or "" when CorrelationID did not run.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

func idMiddleware(cfg idMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(cfg.headerName)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(cfg.contextKey, id)
		c.Header(cfg.headerName, id)
		c.Request = c.Request.WithContext(cfg.enrich(c.Request.Context(), id))

		c.Next()
	}
}
