// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic with cross-cutting concerns such as logging, tracing and metrics.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/insurance-quote-service/internal/domain"
	"github.com/jsamuelsen/insurance-quote-service/internal/domain/pricing"
)

const tracerName = "github.com/jsamuelsen/insurance-quote-service/app"

// Health check failures.
var (
	errEmptyPipeline = errors.New("pricing pipeline has no stages")
	errBelowBase     = errors.New("reference quote is below the base price")
)

// QuoteService prices a Person with the configured pricing pipeline.
// It holds no per-request state and is safe for concurrent use.
type QuoteService struct {
	pipeline *pricing.Pipeline
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
}

// QuoteServiceConfig contains the dependencies of the quote service.
type QuoteServiceConfig struct {
	// Pipeline is required.
	Pipeline *pricing.Pipeline

	// Clock supplies the current date. Defaults to the real clock.
	Clock clockwork.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics is optional.
	Metrics *Metrics
}

// NewQuoteService creates a new quote service. It panics without a pipeline.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Pipeline == nil {
		panic("app: QuoteServiceConfig.Pipeline is required")
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		pipeline: cfg.Pipeline,
		clock:    clock,
		logger:   logger.With(slog.String("component", "app.QuoteService")),
		metrics:  cfg.Metrics,
		tracer:   otel.Tracer(tracerName),
	}
}

// ComputeQuote validates p and prices it against the current date.
// The exact pipeline total is rounded half-even to cents only once, here.
func (s *QuoteService) ComputeQuote(ctx context.Context, p domain.Person) (*domain.Quote, error) {
	ctx, span := s.tracer.Start(ctx, "QuoteService.ComputeQuote")
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, "context done")
		return nil, fmt.Errorf("computing quote: %w", err)
	}

	now := s.clock.Now()

	if err := p.Validate(now); err != nil {
		s.logger.WarnContext(ctx, "rejected quote request", slog.Any("error", err))
		span.SetStatus(codes.Error, "invalid input")
		s.metrics.observeRejected()

		return nil, fmt.Errorf("validating person: %w", err)
	}

	exact, breakdown := s.pipeline.ComputeWithBreakdown(p, now)
	quote := &domain.Quote{
		Amount:     pricing.Round(exact),
		Exact:      exact,
		Breakdown:  breakdown,
		ComputedAt: now,
	}

	span.SetAttributes(
		attribute.String("quote.amount", quote.Amount.StringFixed(pricing.CentPlaces)),
		attribute.Int("quote.stages", len(breakdown)),
	)
	s.metrics.observeComputed(quote.Amount)

	s.logger.InfoContext(ctx, "computed quote",
		slog.String("amount", quote.Amount.StringFixed(pricing.CentPlaces)),
		slog.String("exact", exact.String()),
	)

	return quote, nil
}

// Stages returns the configured stage names in application order.
func (s *QuoteService) Stages() []string {
	return s.pipeline.Stages()
}

// BasePrice returns the amount every quote starts from.
func (s *QuoteService) BasePrice() decimal.Decimal {
	return s.pipeline.Base()
}

// Name implements ports.HealthChecker.
func (s *QuoteService) Name() string {
	return "pricing-pipeline"
}

// Check implements ports.HealthChecker. Besides requiring stages it prices a
// reference driver, a 40 year old in a 2010 Honda Civic, and fails if the
// pipeline returns less than the base price.
func (s *QuoteService) Check(context.Context) error {
	if s.pipeline.Len() == 0 {
		return errEmptyPipeline
	}

	now := s.clock.Now()
	reference := domain.Person{
		DateOfBirth: now.AddDate(-40, 0, 0),
		CarYear:     2010,
		CarMake:     "Honda",
		CarModel:    "Civic",
	}

	if got := s.pipeline.Compute(reference, now); got.LessThan(s.pipeline.Base()) {
		return fmt.Errorf("%w: got %s", errBelowBase, got)
	}

	return nil
}
