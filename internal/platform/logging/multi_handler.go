package logging

import (
	"context"
	"errors"
	"log/slog"
)

// Tee returns a handler that writes every record to each of handlers, so the
// terminal format and the rolling JSON file see the same lines. Nil handlers
// are skipped; a single handler is returned as is.
func Tee(handlers ...slog.Handler) slog.Handler {
	sinks := make([]slog.Handler, 0, len(handlers))

	for _, h := range handlers {
		if h != nil {
			sinks = append(sinks, h)
		}
	}

	if len(sinks) == 1 {
		return sinks[0]
	}

	return &teeHandler{sinks: sinks}
}

type teeHandler struct {
	sinks []slog.Handler
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.sinks {
		if h.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

// Handle passes a clone of r to every sink enabled for its level and joins
// their errors.
func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	var errs []error

	for _, h := range t.sinks {
		if !h.Enabled(ctx, r.Level) {
			continue
		}

		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	return t.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (t *teeHandler) derive(fn func(slog.Handler) slog.Handler) slog.Handler {
	sinks := make([]slog.Handler, len(t.sinks))
	for i, h := range t.sinks {
		sinks[i] = fn(h)
	}

	return &teeHandler{sinks: sinks}
}
