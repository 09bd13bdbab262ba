/*
socialinsurance.go - Social insurance contribution from MSC bands

PURPOSE:
  Looks up a Monthly Salary Credit (MSC) - a banded proxy salary - from an
  ascending band table, then applies the employee and employer rates to it.

BOUNDARY BEHAVIOR:
  A salary below the lowest band maps to the floor MSC; above the highest
  band maps to the ceiling MSC. A salary never falls through the table:
  every salary produces a defined contribution.
*/
package statutory

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MSCBand maps a salary range [From, To] to its Monthly Salary Credit.
type MSCBand struct {
	From decimal.Decimal
	To   decimal.Decimal
	MSC  decimal.Decimal
}

// SocialInsuranceTable is an ascending list of MSC bands plus the
// contribution rates applied to the looked-up MSC.
type SocialInsuranceTable struct {
	Bands        []MSCBand
	EmployeeRate decimal.Decimal // e.g. 0.045
	EmployerRate decimal.Decimal // e.g. 0.095
}

// Validate checks the table is non-empty, ascending, and has positive rates.
func (t SocialInsuranceTable) Validate() error {
	if len(t.Bands) == 0 {
		return errors.New("no MSC bands configured")
	}
	for i, b := range t.Bands {
		if b.To.LessThan(b.From) {
			return fmt.Errorf("band %d: To %s below From %s", i, b.To, b.From)
		}
		if i > 0 && b.From.LessThanOrEqual(t.Bands[i-1].To) {
			return fmt.Errorf("band %d: overlaps previous band", i)
		}
	}
	if !t.EmployeeRate.IsPositive() || !t.EmployerRate.IsPositive() {
		return errors.New("employee and employer rates must be positive")
	}
	return nil
}

// LookupMSC returns the Monthly Salary Credit for a salary, clamping to the
// floor band below the table and the ceiling band above it.
func (t SocialInsuranceTable) LookupMSC(monthlySalary decimal.Decimal) decimal.Decimal {
	if monthlySalary.LessThan(t.Bands[0].From) {
		return t.Bands[0].MSC
	}
	for _, b := range t.Bands {
		if monthlySalary.GreaterThanOrEqual(b.From) && monthlySalary.LessThanOrEqual(b.To) {
			return b.MSC
		}
	}
	return t.Bands[len(t.Bands)-1].MSC
}

// SocialInsuranceResult carries both shares; only the employee share is a
// payroll deduction, but the employer share is reported for remittance.
type SocialInsuranceResult struct {
	MSC         decimal.Decimal
	Employee    decimal.Decimal
	Employer    decimal.Decimal
	Explanation string
}

// Contribution returns the Contribution view (employee share) of the result.
func (r SocialInsuranceResult) Contribution() Contribution {
	return Contribution{Amount: r.Employee, Explanation: r.Explanation}
}

// Compute looks up the MSC for the salary and applies both rates.
func (t SocialInsuranceTable) Compute(monthlySalary decimal.Decimal) SocialInsuranceResult {
	msc := t.LookupMSC(monthlySalary)
	employee := roundCents(msc.Mul(t.EmployeeRate))
	employer := roundCents(msc.Mul(t.EmployerRate))
	return SocialInsuranceResult{
		MSC:      msc,
		Employee: employee,
		Employer: employer,
		Explanation: fmt.Sprintf("Social insurance: MSC %s x %s = %s",
			msc.StringFixed(2), percent(t.EmployeeRate), employee.StringFixed(2)),
	}
}
