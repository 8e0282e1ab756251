package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/insurance-quote-service/internal/domain"
	"github.com/jsamuelsen/insurance-quote-service/internal/domain/pricing"
)

// DateLayout is the wire format for dates of birth.
const DateLayout = time.DateOnly

// QuoteRequest is the body of POST /api/v1/quotes.
type QuoteRequest struct {
	DateOfBirth     string `json:"dateOfBirth"     validate:"required,datetime=2006-01-02"`
	CarYear         int    `json:"carYear"         validate:"required,gt=0"`
	CarMake         string `json:"carMake"         validate:"required,notblank,max=64"`
	CarModel        string `json:"carModel"        validate:"required,notblank,max=64"`
	SpeedingTickets int    `json:"speedingTickets" validate:"gte=0"`
	HasDUI          bool   `json:"hasDui"`
	HasFullCoverage bool   `json:"hasFullCoverage"`
}

// ToPerson converts the request into a domain.Person.
// The date of birth is interpreted as midnight UTC.
func (r *QuoteRequest) ToPerson() (domain.Person, error) {
	dob, err := time.Parse(DateLayout, r.DateOfBirth)
	if err != nil {
		return domain.Person{}, domain.NewValidationErrorWithValue(
			"dateOfBirth", "must be a date in YYYY-MM-DD format", r.DateOfBirth)
	}

	return domain.Person{
		DateOfBirth:     dob,
		CarYear:         r.CarYear,
		CarMake:         r.CarMake,
		CarModel:        r.CarModel,
		SpeedingTickets: r.SpeedingTickets,
		HasDUI:          r.HasDUI,
		HasFullCoverage: r.HasFullCoverage,
	}, nil
}

// QuoteResponse is the result of a quote computation.
// Money is rendered as JSON strings to keep it exact.
type QuoteResponse struct {
	// Amount is the quote rounded to cents, always with two decimals.
	Amount string `json:"amount"`

	// Exact is the unrounded total.
	Exact         decimal.Decimal      `json:"exact"`
	Currency      string               `json:"currency"`
	Breakdown     []AdjustmentResponse `json:"breakdown"`
	ComputedAt    time.Time            `json:"computedAt"`
	RequestID     string               `json:"requestId,omitempty"`
	CorrelationID string               `json:"correlationId,omitempty"`
}

// AdjustmentResponse is one stage of the breakdown.
type AdjustmentResponse struct {
	Stage  string          `json:"stage"`
	Before decimal.Decimal `json:"before"`
	After  decimal.Decimal `json:"after"`
}

// NewQuoteResponse builds the response body for q.
func NewQuoteResponse(q *domain.Quote, currency string) *QuoteResponse {
	breakdown := make([]AdjustmentResponse, len(q.Breakdown))
	for i, adj := range q.Breakdown {
		breakdown[i] = AdjustmentResponse{Stage: adj.Stage, Before: adj.Before, After: adj.After}
	}

	return &QuoteResponse{
		Amount:     q.Amount.StringFixed(pricing.CentPlaces),
		Exact:      q.Exact,
		Currency:   currency,
		Breakdown:  breakdown,
		ComputedAt: q.ComputedAt,
	}
}

// StagesResponse describes the configured pipeline.
type StagesResponse struct {
	Base   decimal.Decimal `json:"base"`
	Stages []string        `json:"stages"`
}
