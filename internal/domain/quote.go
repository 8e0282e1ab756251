package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the outcome of pricing a Person.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// Amount is the final price rounded to cents.
	Amount decimal.Decimal

	// Exact is the unrounded total produced by the pipeline.
	Exact decimal.Decimal

	// Breakdown lists the running total before and after each stage, in order.
	Breakdown []Adjustment

	// ComputedAt is the "current date" the quote was computed against.
	ComputedAt time.Time
}

// Adjustment records the effect of one pricing stage on the running total.
type Adjustment struct {
	Stage  string
	Before decimal.Decimal
	After  decimal.Decimal
}

// Delta returns the amount the stage added to the running total.
func (a Adjustment) Delta() decimal.Decimal {
	return a.After.Sub(a.Before)
}
