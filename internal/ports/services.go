// Package ports defines the interfaces the outer layers depend on.
// Adapters (HTTP, CLI) call the application through these ports rather than
// through concrete services, keeping them testable with mocks.
package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/insurance-quote-service/internal/domain"
)

// QuoteCalculator computes insurance quotes.
type QuoteCalculator interface {
	// ComputeQuote prices p against the current date.
	// Returns a domain.ErrValidation error when p is outside the valid domain;
	// a quote is never partially computed.
	ComputeQuote(ctx context.Context, p domain.Person) (*domain.Quote, error)

	// Stages returns the pricing stage names in application order.
	Stages() []string

	// BasePrice returns the amount every quote starts from.
	BasePrice() decimal.Decimal
}
