/*
Package statutory implements the statutory deduction calculators.

PURPOSE:
  Four independent, stateless calculators - social insurance, health
  insurance, housing fund, and progressive income tax - each a pure
  function of a monthly-equivalent salary (and, for tax, taxable income)
  to a contribution or tax amount.

TRANSPARENCY:
  Every calculator result carries a one-line, human-readable explanation
  (base amount, rate applied, resulting amount). The explanation feeds the
  payroll computation trail and is a first-class requirement: payslips are
  disputed, and the math must be auditable line by line.

TABLES:
  Calculators are driven entirely by configuration tables. The caller
  selects which table version is in effect; the calculators perform no
  effective-date lookup. Salaries outside all configured bands degrade to
  the nearest boundary band so every salary produces a defined amount.

ROUNDING:
  All returned amounts are rounded half-up to 2 decimals.

SEE ALSO:
  - socialinsurance.go: MSC band lookup
  - healthinsurance.go: Clamped-base premium
  - housingfund.go: Dual-cap fund contribution
  - incometax.go: Annualized progressive brackets
  - defaults.go: Built-in illustrative table set
*/
package statutory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONTRIBUTION - Common calculator result
// =============================================================================

// Contribution is the employee-side amount a calculator produced, together
// with the one-line explanation that goes into the computation trail.
type Contribution struct {
	Amount      decimal.Decimal
	Explanation string
}

// =============================================================================
// TABLE SET - One versioned bundle of all four tables
// =============================================================================

// TableSet bundles the four statutory tables that apply to one effective
// date. The serving layer stores table sets versioned by EffectiveAt and
// hands the engine the already-selected one.
type TableSet struct {
	Name        string
	EffectiveAt time.Time

	SocialInsurance SocialInsuranceTable
	HealthInsurance HealthInsuranceTable
	HousingFund     HousingFundTable
	IncomeTax       IncomeTaxTable
}

// Validate checks every table in the set.
func (ts TableSet) Validate() error {
	if err := ts.SocialInsurance.Validate(); err != nil {
		return fmt.Errorf("social insurance table: %w", err)
	}
	if err := ts.HealthInsurance.Validate(); err != nil {
		return fmt.Errorf("health insurance table: %w", err)
	}
	if err := ts.HousingFund.Validate(); err != nil {
		return fmt.Errorf("housing fund table: %w", err)
	}
	if err := ts.IncomeTax.Validate(); err != nil {
		return fmt.Errorf("income tax table: %w", err)
	}
	return nil
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// roundCents rounds half-up to 2 decimals. Amounts here are never negative,
// so decimal's half-away-from-zero rounding is exactly half-up.
func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// percent renders a fractional rate (0.045) as "4.50%" for explanations.
func percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
