/*
rate.go - Rate normalization across pay frequencies

PURPOSE:
  Converts an employee's configured rate (hourly, daily, or monthly) into
  the two canonical figures every downstream calculator works from:
  - an hourly rate, for pricing classified hours
  - a monthly-equivalent salary, for statutory contribution lookups

WORKING CALENDAR:
  26 working days per month, 8 hours per working day (standard 6-day,
  no-Sunday labor calendar).

ROUNDING:
  The hourly rate carries 4 decimal digits so rounding error does not
  compound across hour categories; only final monetary outputs are
  rounded to cents.
*/
package payroll

import "github.com/shopspring/decimal"

// Working calendar assumptions. Changing these changes every pay figure,
// so they are package constants, not per-call knobs.
var (
	workingDaysPerMonth = decimal.NewFromInt(26)
	hoursPerWorkingDay  = decimal.NewFromInt(8)
)

// hourlyRatePrecision is the scale kept on the normalized hourly rate.
const hourlyRatePrecision = 4

// NormalizedRate is the canonical form of a compensation profile.
type NormalizedRate struct {
	Hourly            decimal.Decimal // 4 decimal places
	MonthlyEquivalent decimal.Decimal
}

// NormalizeRate converts a compensation profile into its canonical hourly
// rate and monthly-equivalent salary. An unknown rate type or non-positive
// base rate is a fatal configuration error: silently defaulting would
// corrupt every downstream monetary figure.
func NormalizeRate(profile CompensationProfile) (NormalizedRate, error) {
	if err := profile.Validate(); err != nil {
		return NormalizedRate{}, err
	}

	var hourly, monthly decimal.Decimal
	switch profile.RateType {
	case RateMonthly:
		hourly = profile.BaseRate.Div(workingDaysPerMonth).Div(hoursPerWorkingDay)
		monthly = profile.BaseRate
	case RateDaily:
		hourly = profile.BaseRate.Div(hoursPerWorkingDay)
		monthly = profile.BaseRate.Mul(workingDaysPerMonth)
	case RateHourly:
		hourly = profile.BaseRate
		monthly = profile.BaseRate.Mul(hoursPerWorkingDay).Mul(workingDaysPerMonth)
	}

	return NormalizedRate{
		Hourly:            hourly.Round(hourlyRatePrecision),
		MonthlyEquivalent: RoundCents(monthly),
	}, nil
}
