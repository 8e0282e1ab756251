// Package pricing composes insurance quotes from an ordered list of pricing stages.
//
// A Pipeline starts from a base price and folds each Stage over the running
// total in the configured order. Stages only see the running total and the
// Person being priced, so rules can be added, removed or reordered without
// touching one another.
//
// All arithmetic uses exact decimals. Rounding happens once, at the output
// boundary, via Round.
package pricing

import "github.com/shopspring/decimal"

// Money is an exact decimal monetary amount.
type Money = decimal.Decimal

// CentPlaces is the number of fraction digits a final quote is rounded to.
const CentPlaces = 2

// BasePrice is the starting amount every quote is built on.
var BasePrice = decimal.RequireFromString("50.00")

// Round applies the final rounding policy: round-half-even to cents.
// Call it on the pipeline output only, never between stages.
func Round(m Money) Money {
	return m.RoundBank(CentPlaces)
}

func amount(s string) Money {
	return decimal.RequireFromString(s)
}
