package pricing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/insurance-quote-service/internal/domain"
)

// Stage names, also used as the keys of the default Registry.
const (
	StageAge            = "age"
	StageVehicle        = "vehicle"
	StageDrivingHistory = "driving_history"
	StageCoverage       = "coverage"
)

const (
	daysPerYear = 365

	teenMaxAge       = 18
	youngAdultMaxAge = 25

	minStandardYear = 2000
	maxStandardYear = 2015
	surchargedMake  = "porsche"
	surchargedModel = "911 carrera"
)

var (
	teenSurcharge       = amount("100.00")
	youngAdultSurcharge = amount("50.00")
	adultSurcharge      = amount("25.00")

	vehicleSurcharge = amount("25.00")

	perTicketSurcharge = amount("10.00")
	duiFactor          = amount("1.25")
	fullCoverageFactor = amount("1.5")
)

// AgeInYears returns the whole number of 365-day years between dob and now.
// Leap days are not accounted for; the day count is truncated, then divided
// with integer division.
func AgeInYears(dob, now time.Time) int {
	days := int(now.Sub(dob) / (24 * time.Hour))
	return days / daysPerYear
}

// AgeStage adds a surcharge by age band: up to 18, up to 25, and older.
type AgeStage struct{}

// Name implements Stage.
func (AgeStage) Name() string { return StageAge }

// Apply implements Stage.
func (AgeStage) Apply(total Money, p domain.Person, now time.Time) Money {
	age := AgeInYears(p.DateOfBirth, now)

	switch {
	case age <= teenMaxAge:
		return total.Add(teenSurcharge)
	case age <= youngAdultMaxAge:
		return total.Add(youngAdultSurcharge)
	default:
		return total.Add(adultSurcharge)
	}
}

// VehicleStage adds surcharges for vehicles outside the standard model years
// and for Porsches, with a further surcharge for the 911 Carrera.
type VehicleStage struct{}

// Name implements Stage.
func (VehicleStage) Name() string { return StageVehicle }

// Apply implements Stage.
func (VehicleStage) Apply(total Money, p domain.Person, _ time.Time) Money {
	if p.CarYear < minStandardYear || p.CarYear > maxStandardYear {
		total = total.Add(vehicleSurcharge)
	}

	// The model surcharge only applies to the surcharged make.
	if strings.EqualFold(p.CarMake, surchargedMake) {
		total = total.Add(vehicleSurcharge)

		if strings.EqualFold(p.CarModel, surchargedModel) {
			total = total.Add(vehicleSurcharge)
		}
	}

	return total
}

// DrivingHistoryStage adds a per-ticket surcharge, then scales the whole
// running total when the driver has a DUI.
type DrivingHistoryStage struct{}

// Name implements Stage.
func (DrivingHistoryStage) Name() string { return StageDrivingHistory }

// Apply implements Stage.
func (DrivingHistoryStage) Apply(total Money, p domain.Person, _ time.Time) Money {
	total = total.Add(perTicketSurcharge.Mul(decimal.NewFromInt(int64(p.SpeedingTickets))))

	if p.HasDUI {
		total = total.Mul(duiFactor)
	}

	return total
}

// CoverageStage scales the running total for full coverage.
type CoverageStage struct{}

// Name implements Stage.
func (CoverageStage) Name() string { return StageCoverage }

// Apply implements Stage.
func (CoverageStage) Apply(total Money, p domain.Person, _ time.Time) Money {
	if p.HasFullCoverage {
		return total.Mul(fullCoverageFactor)
	}

	return total
}
