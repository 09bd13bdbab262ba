/*
healthinsurance.go - Health insurance premium on a clamped salary base

PURPOSE:
  The contribution base is the salary clamped to [Floor, Ceiling]; the
  employee share is half the total premium rate on that base.
*/
package statutory

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// HealthInsuranceTable holds the salary clamp and the TOTAL premium rate.
// The employee pays half; the employer pays the other half.
type HealthInsuranceTable struct {
	Floor       decimal.Decimal
	Ceiling     decimal.Decimal
	PremiumRate decimal.Decimal // total premium, e.g. 0.05
}

// Validate checks the clamp is ordered and the rate positive.
func (t HealthInsuranceTable) Validate() error {
	if t.Ceiling.LessThan(t.Floor) {
		return fmt.Errorf("ceiling %s below floor %s", t.Ceiling, t.Floor)
	}
	if !t.PremiumRate.IsPositive() {
		return errors.New("premium rate must be positive")
	}
	return nil
}

var two = decimal.NewFromInt(2)

// Compute clamps the salary and applies the employee's half of the premium.
func (t HealthInsuranceTable) Compute(monthlySalary decimal.Decimal) Contribution {
	base := monthlySalary
	if base.LessThan(t.Floor) {
		base = t.Floor
	}
	if base.GreaterThan(t.Ceiling) {
		base = t.Ceiling
	}

	employeeRate := t.PremiumRate.Div(two)
	amount := roundCents(base.Mul(employeeRate))
	return Contribution{
		Amount: amount,
		Explanation: fmt.Sprintf("Health insurance: base %s x %s = %s",
			base.StringFixed(2), percent(employeeRate), amount.StringFixed(2)),
	}
}
