package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Attribute keys the request-scoped enrichers add.
const (
	KeyRequestID     = "request_id"
	KeyCorrelationID = "correlation_id"
	KeyTraceID       = "trace_id"
)

type ctxKey struct{}

var fallback atomic.Pointer[slog.Logger]

func init() {
	fallback.Store(slog.Default())
}

// FromContext returns the request logger stored in ctx, or the process logger
// installed by SetDefault.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
			return logger
		}
	}

	return fallback.Load()
}

// WithContext stores a logger in the context.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// With returns ctx carrying its logger enriched with args.
func With(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}

	return WithContext(ctx, FromContext(ctx).With(args...))
}

// WithRequestID tags every later log line of the request with its request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return With(ctx, slog.String(KeyRequestID, requestID))
}

// WithTraceID tags every later log line of the request with the OTel trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return With(ctx, slog.String(KeyTraceID, traceID))
}

// WithCorrelationID tags every later log line with the caller's correlation ID.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return With(ctx, slog.String(KeyCorrelationID, correlationID))
}

// SetDefault installs logger as the process logger, for slog and FromContext.
func SetDefault(logger *slog.Logger) {
	fallback.Store(logger)
	slog.SetDefault(logger)
}
