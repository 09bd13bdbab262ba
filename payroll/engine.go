/*
engine.go - Payroll computation orchestration and the computation trail

PURPOSE:
  Orchestrates the whole pipeline for one employee and one pay period:
  normalize rate -> classify and aggregate hours -> price earnings ->
  statutory deductions and tax -> gross/net -> computation trail.

FAILURE SEMANTICS:
  An invalid compensation profile aborts the employee's computation with
  an error and no partial result. An unclassifiable attendance entry does
  NOT abort: it contributes zero hours and rides along as a data-quality
  flag inside the output.

THE TRAIL:
  The trail lists every intermediate figure - hourly rate, each hour
  category with its multiplier and resulting amount, each statutory
  calculator's explanation, and the gross/deduction/net summary. Its
  content is a contract: regenerating it from identical inputs must be
  byte-identical, because it is what gets pulled up when a payslip is
  disputed.
*/
package payroll

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// ENGINE CONFIGURATION
// =============================================================================

// Config holds the pay multipliers applied to classified hours.
type Config struct {
	OvertimeMultiplier decimal.Decimal // e.g. 1.25
	NightDiffRate      decimal.Decimal // premium ADD-ON rate, e.g. 0.10
	HolidayMultiplier  decimal.Decimal // e.g. 2.0
}

// DefaultConfig returns the standard multipliers.
func DefaultConfig() Config {
	return Config{
		OvertimeMultiplier: MustDecimal("1.25"),
		NightDiffRate:      MustDecimal("0.10"),
		HolidayMultiplier:  MustDecimal("2.0"),
	}
}

// Engine computes payroll breakdowns. It is stateless and safe for
// concurrent use: each Compute call is a pure function of its input.
type Engine struct {
	Tables statutory.TableSet
	Config Config
}

// NewEngine creates an engine with the given table set and default
// multipliers.
func NewEngine(tables statutory.TableSet) *Engine {
	return &Engine{Tables: tables, Config: DefaultConfig()}
}

// =============================================================================
// COMPUTE - The one logical operation this core exposes
// =============================================================================

// ComputeInput is everything one employee-period computation needs. The
// engine performs no I/O: entries are already filtered to the window and
// the table set is the already-selected version.
type ComputeInput struct {
	Profile         CompensationProfile
	Period          PayPeriod
	Entries         []AttendanceEntry
	Allowances      Allowances
	OtherDeductions decimal.Decimal
}

// Compute runs the full pipeline. Identical inputs always yield identical
// output, including the trail text.
func (e *Engine) Compute(in ComputeInput) (*PayrollBreakdown, error) {
	if err := e.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingTables, err)
	}

	// 1. Normalize the rate. Configuration errors are fatal for this
	// employee: no partial result, no silent zero-fill.
	rate, err := NormalizeRate(in.Profile)
	if err != nil {
		return nil, err
	}

	// 2. Classify and aggregate hours.
	totals := AggregatePeriod(in.Entries)

	// 3. Price each hour category. Night diff is a premium addition on
	// hours already counted in regular/overtime, not a replacement.
	basic := RoundCents(totals.Regular.Mul(rate.Hourly))
	overtime := RoundCents(totals.Overtime.Mul(rate.Hourly).Mul(e.Config.OvertimeMultiplier))
	nightDiff := RoundCents(totals.NightDiff.Mul(rate.Hourly).Mul(e.Config.NightDiffRate))
	holiday := RoundCents(totals.Holiday.Mul(rate.Hourly).Mul(e.Config.HolidayMultiplier))

	allowances := Allowances{
		Taxable:    RoundCents(in.Allowances.Taxable),
		NonTaxable: RoundCents(in.Allowances.NonTaxable),
	}

	gross := basic.Add(overtime).Add(nightDiff).Add(holiday).Add(allowances.Total())

	// 4. Statutory contributions from the monthly-equivalent salary.
	si := e.Tables.SocialInsurance.Compute(rate.MonthlyEquivalent)
	hi := e.Tables.HealthInsurance.Compute(rate.MonthlyEquivalent)
	hf := e.Tables.HousingFund.Compute(rate.MonthlyEquivalent)

	// 5. Taxable income: gross less non-taxable allowances and the
	// employee-side contributions, floored at zero.
	taxable := gross.Sub(allowances.NonTaxable).Sub(si.Employee).Sub(hi.Amount).Sub(hf.Amount)
	if taxable.IsNegative() {
		taxable = decimal.Zero.Round(2)
	}
	tax := e.Tables.IncomeTax.Compute(taxable)

	other := RoundCents(in.OtherDeductions)
	totalDeductions := si.Employee.Add(hi.Amount).Add(hf.Amount).Add(tax.Amount).Add(other)

	// 6. Net pay, floored at zero.
	net := gross.Sub(totalDeductions)
	if net.IsNegative() {
		net = decimal.Zero.Round(2)
	}

	bd := &PayrollBreakdown{
		HourlyRate:        rate.Hourly,
		MonthlyEquivalent: rate.MonthlyEquivalent,
		BasicPay:          basic,
		OvertimePay:       overtime,
		NightDiffPay:      nightDiff,
		HolidayPay:        holiday,
		Allowances:        allowances,
		GrossPay:          gross,
		SocialInsurance:   si.Employee,
		HealthInsurance:   hi.Amount,
		HousingFund:       hf.Amount,
		IncomeTax:         tax.Amount,
		OtherDeductions:   other,
		TotalDeductions:   totalDeductions,
		NetPay:            net,
		Totals:            totals,
	}
	bd.Trail = e.buildTrail(in, rate, bd, taxable, si, hi, hf, tax)

	return bd, nil
}

// =============================================================================
// COMPUTATION TRAIL
// =============================================================================

// buildTrail renders the deterministic itemization. No maps, no timestamps,
// no pointers: byte-identical output for identical inputs by construction.
func (e *Engine) buildTrail(
	in ComputeInput,
	rate NormalizedRate,
	bd *PayrollBreakdown,
	taxable decimal.Decimal,
	si statutory.SocialInsuranceResult,
	hi, hf, tax statutory.Contribution,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "PAYROLL COMPUTATION TRAIL\n")
	fmt.Fprintf(&b, "Period: %s\n", in.Period)
	fmt.Fprintf(&b, "Rate: %s base %s -> hourly %s, monthly equivalent %s\n",
		in.Profile.RateType, in.Profile.BaseRate.StringFixed(2),
		rate.Hourly.StringFixed(4), rate.MonthlyEquivalent.StringFixed(2))

	t := bd.Totals
	fmt.Fprintf(&b, "\nHOURS\n")
	fmt.Fprintf(&b, "Days worked: %d, days absent: %d\n", t.DaysWorked, t.DaysAbsent)
	fmt.Fprintf(&b, "Regular: %s h x %s = %s\n",
		t.Regular.StringFixed(2), rate.Hourly.StringFixed(4), bd.BasicPay.StringFixed(2))
	fmt.Fprintf(&b, "Overtime: %s h x %s x %s = %s\n",
		t.Overtime.StringFixed(2), rate.Hourly.StringFixed(4),
		e.Config.OvertimeMultiplier.String(), bd.OvertimePay.StringFixed(2))
	fmt.Fprintf(&b, "Night differential: %s h x %s x %s = %s\n",
		t.NightDiff.StringFixed(2), rate.Hourly.StringFixed(4),
		e.Config.NightDiffRate.String(), bd.NightDiffPay.StringFixed(2))
	fmt.Fprintf(&b, "Holiday: %s h x %s x %s = %s\n",
		t.Holiday.StringFixed(2), rate.Hourly.StringFixed(4),
		e.Config.HolidayMultiplier.String(), bd.HolidayPay.StringFixed(2))
	fmt.Fprintf(&b, "Late minutes: %d, undertime minutes: %d\n", t.LateMinutes, t.UndertimeMinutes)

	fmt.Fprintf(&b, "\nEARNINGS\n")
	fmt.Fprintf(&b, "Basic pay: %s\n", bd.BasicPay.StringFixed(2))
	fmt.Fprintf(&b, "Overtime pay: %s\n", bd.OvertimePay.StringFixed(2))
	fmt.Fprintf(&b, "Night differential premium: %s\n", bd.NightDiffPay.StringFixed(2))
	fmt.Fprintf(&b, "Holiday pay: %s\n", bd.HolidayPay.StringFixed(2))
	fmt.Fprintf(&b, "Allowances: taxable %s, non-taxable %s\n",
		bd.Allowances.Taxable.StringFixed(2), bd.Allowances.NonTaxable.StringFixed(2))
	fmt.Fprintf(&b, "Gross pay: %s\n", bd.GrossPay.StringFixed(2))

	fmt.Fprintf(&b, "\nDEDUCTIONS\n")
	fmt.Fprintf(&b, "%s\n", si.Explanation)
	fmt.Fprintf(&b, "%s\n", hi.Explanation)
	fmt.Fprintf(&b, "%s\n", hf.Explanation)
	fmt.Fprintf(&b, "Taxable income: %s\n", taxable.StringFixed(2))
	fmt.Fprintf(&b, "%s\n", tax.Explanation)
	fmt.Fprintf(&b, "Other deductions: %s\n", bd.OtherDeductions.StringFixed(2))
	fmt.Fprintf(&b, "Total deductions: %s\n", bd.TotalDeductions.StringFixed(2))

	fmt.Fprintf(&b, "\nSUMMARY\n")
	fmt.Fprintf(&b, "Gross pay: %s\n", bd.GrossPay.StringFixed(2))
	fmt.Fprintf(&b, "Total deductions: %s\n", bd.TotalDeductions.StringFixed(2))
	fmt.Fprintf(&b, "Net pay: %s\n", bd.NetPay.StringFixed(2))

	if len(t.Flags) > 0 {
		fmt.Fprintf(&b, "\nDATA QUALITY\n")
		for _, f := range t.Flags {
			fmt.Fprintf(&b, "%s\n", f)
		}
	}

	return b.String()
}
