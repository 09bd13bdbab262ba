/*
housingfund.go - Housing fund contribution with two independent caps

PURPOSE:
  The contribution base is min(salary, SalaryCap); the employee share is
  base x Rate, itself capped at ContributionCap. Both caps are honored:
  the base cap bounds what the rate applies to, and the peso cap bounds
  the resulting amount regardless of base.
*/
package statutory

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// HousingFundTable holds the fund rate and its two caps.
type HousingFundTable struct {
	SalaryCap       decimal.Decimal // cap on the contribution base
	Rate            decimal.Decimal // e.g. 0.02
	ContributionCap decimal.Decimal // fixed peso ceiling on the amount
}

// Validate checks the rate and caps are positive.
func (t HousingFundTable) Validate() error {
	if !t.Rate.IsPositive() {
		return errors.New("rate must be positive")
	}
	if !t.SalaryCap.IsPositive() || !t.ContributionCap.IsPositive() {
		return errors.New("caps must be positive")
	}
	return nil
}

// Compute applies the rate to the capped base, then caps the amount.
func (t HousingFundTable) Compute(monthlySalary decimal.Decimal) Contribution {
	base := monthlySalary
	if base.GreaterThan(t.SalaryCap) {
		base = t.SalaryCap
	}

	amount := roundCents(base.Mul(t.Rate))
	capped := ""
	if amount.GreaterThan(t.ContributionCap) {
		amount = t.ContributionCap
		capped = fmt.Sprintf(", capped at %s", t.ContributionCap.StringFixed(2))
	}

	return Contribution{
		Amount: amount,
		Explanation: fmt.Sprintf("Housing fund: base %s x %s = %s%s",
			base.StringFixed(2), percent(t.Rate), amount.StringFixed(2), capped),
	}
}
