package domain

import (
	"strings"
	"time"
)

// Person is the insured party a quote is computed for.
// It is supplied fully populated by the caller and is never mutated while pricing.
type Person struct {
	// DateOfBirth is used to derive the age band.
	DateOfBirth time.Time

	// CarYear is the model year of the insured vehicle.
	CarYear int

	// CarMake is the manufacturer, compared case-insensitively.
	CarMake string

	// CarModel is the model name, compared case-insensitively.
	CarModel string

	// SpeedingTickets is the number of speeding tickets on record.
	SpeedingTickets int

	// HasDUI reports whether the driver has a DUI on record.
	HasDUI bool

	// HasFullCoverage reports whether full coverage was requested.
	HasFullCoverage bool
}

// EarliestDateOfBirth is the oldest birth date accepted. The zero time.Time
// falls before it, so an unset date of birth is rejected too.
var EarliestDateOfBirth = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Validate checks that p is within the domain the pricing rules assume.
// now is the date the quote is computed on; a birth date after it is rejected.
// The first failing field is reported as a *ValidationError.
func (p *Person) Validate(now time.Time) error {
	switch {
	case p.DateOfBirth.Before(EarliestDateOfBirth):
		return NewValidationErrorWithValue("dateOfBirth",
			"must not be before "+EarliestDateOfBirth.Format(time.DateOnly),
			p.DateOfBirth.Format(time.DateOnly))
	case p.DateOfBirth.After(now):
		return NewValidationErrorWithValue("dateOfBirth", "must not be in the future",
			p.DateOfBirth.Format(time.DateOnly))
	case p.CarYear <= 0:
		return NewValidationErrorWithValue("carYear", "must be positive", p.CarYear)
	case strings.TrimSpace(p.CarMake) == "":
		return NewValidationError("carMake", "must not be empty")
	case strings.TrimSpace(p.CarModel) == "":
		return NewValidationError("carModel", "must not be empty")
	case p.SpeedingTickets < 0:
		return NewValidationErrorWithValue("speedingTickets", "must not be negative", p.SpeedingTickets)
	}

	return nil
}
