/*
incometax.go - Progressive income tax on annualized taxable income

PURPOSE:
  Given monthly taxable income: annualize (x12), locate the applicable
  bracket, compute annualTax = BaseTax + (annual - ExcessOver) x Rate,
  then de-annualize (/12).

BRACKET LOOKUP:
  Brackets are strictly ascending by Threshold. Lookup selects the HIGHEST
  threshold not exceeding the income, searching from the top down. Income
  at or below the first threshold yields zero tax. Negative or zero taxable
  income yields zero tax, never a negative number.

MONOTONICITY:
  A well-formed progressive table never taxes a smaller income more than a
  larger one; the bracket invariants in Validate guard the table shape this
  property depends on.
*/
package statutory

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxBracket is one row of the progressive annual tax table.
type TaxBracket struct {
	Threshold  decimal.Decimal // bracket applies to annual income >= Threshold
	BaseTax    decimal.Decimal // tax accumulated by the brackets below
	Rate       decimal.Decimal // marginal rate on the excess
	ExcessOver decimal.Decimal // the excess is measured over this amount
}

// IncomeTaxTable is a strictly ascending progressive bracket table.
type IncomeTaxTable struct {
	Brackets []TaxBracket
}

// Validate checks the table is non-empty and strictly ascending in both
// threshold and base tax.
func (t IncomeTaxTable) Validate() error {
	if len(t.Brackets) == 0 {
		return errors.New("no tax brackets configured")
	}
	for i, b := range t.Brackets {
		if b.Rate.IsNegative() || b.BaseTax.IsNegative() {
			return fmt.Errorf("bracket %d: negative rate or base tax", i)
		}
		if i > 0 {
			prev := t.Brackets[i-1]
			if !b.Threshold.GreaterThan(prev.Threshold) {
				return fmt.Errorf("bracket %d: threshold not strictly ascending", i)
			}
			if b.BaseTax.LessThan(prev.BaseTax) {
				return fmt.Errorf("bracket %d: base tax decreases", i)
			}
		}
	}
	return nil
}

var twelve = decimal.NewFromInt(12)

// Compute returns the monthly withholding tax for a monthly taxable income.
func (t IncomeTaxTable) Compute(monthlyTaxable decimal.Decimal) Contribution {
	if monthlyTaxable.LessThanOrEqual(decimal.Zero) {
		return Contribution{
			Amount:      decimal.Zero.Round(2),
			Explanation: "Income tax: taxable income is zero, no tax due",
		}
	}

	annual := monthlyTaxable.Mul(twelve)

	// Top-down lookup: highest threshold not exceeding the income.
	var bracket *TaxBracket
	for i := len(t.Brackets) - 1; i >= 0; i-- {
		if annual.GreaterThanOrEqual(t.Brackets[i].Threshold) {
			bracket = &t.Brackets[i]
			break
		}
	}
	if bracket == nil || annual.Equal(t.Brackets[0].Threshold) {
		// At or below the first threshold: zero tax.
		return Contribution{
			Amount: decimal.Zero.Round(2),
			Explanation: fmt.Sprintf("Income tax: annual %s at or below %s, no tax due",
				annual.StringFixed(2), t.Brackets[0].Threshold.StringFixed(2)),
		}
	}

	annualTax := bracket.BaseTax.Add(annual.Sub(bracket.ExcessOver).Mul(bracket.Rate))
	monthly := roundCents(annualTax.Div(twelve))

	return Contribution{
		Amount: monthly,
		Explanation: fmt.Sprintf("Income tax: annual %s -> %s + (%s - %s) x %s = %s / 12 = %s",
			annual.StringFixed(2), bracket.BaseTax.StringFixed(2), annual.StringFixed(2),
			bracket.ExcessOver.StringFixed(2), percent(bracket.Rate),
			annualTax.StringFixed(2), monthly.StringFixed(2)),
	}
}
