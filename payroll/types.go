/*
Package payroll provides the core attendance-to-payroll computation engine.

PURPOSE:
  This package contains the pure computation pipeline that turns raw
  time-attendance data plus an employee's compensation profile into a
  fully itemized payroll breakdown. It has no I/O: attendance entries,
  statutory tables, and pass-through amounts are supplied as arguments,
  and the result is plain data.

KEY CONCEPTS IN THIS FILE (types.go):
  - TimeOfDay: A clock punch as minutes since midnight
  - CompensationProfile: Rate type + base rate, read-only input
  - AttendanceEntry: One day's punches and flags
  - HourBreakdown / PeriodTotals: Classified and aggregated hours
  - PayrollBreakdown: The engine's fully itemized output

DESIGN PRINCIPLES:
  1. Purity: Every computation is a function of its arguments only
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Reproducibility: Identical inputs always produce identical output,
     including the byte-identical computation trail
  4. Transparency: Every intermediate figure is surfaced, never hidden

SEE ALSO:
  - rate.go: Rate normalization across pay frequencies
  - classify.go: Punch classification into hour categories
  - aggregate.go: Period totals
  - engine.go: Orchestration and the computation trail
*/
package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TIME OF DAY - Clock punch as minutes since midnight
// =============================================================================

// TimeOfDay is a local clock time expressed as minutes since midnight.
// Punches arrive already parsed from whatever capture format is upstream;
// the core only needs minute arithmetic.
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from an hour (0-23) and minute (0-59).
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses "HH:MM" (24-hour clock).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time of day %q: out of range", s)
	}
	return NewTimeOfDay(hour, minute), nil
}

func (t TimeOfDay) Hour() int    { return int(t) / 60 }
func (t TimeOfDay) Minute() int  { return int(t) % 60 }
func (t TimeOfDay) Minutes() int { return int(t) }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Punch is an optional TimeOfDay. A nil Punch means the device recorded
// nothing for that slot.
type Punch = *TimeOfDay

// PunchAt is a convenience constructor for literal punches in callers and tests.
func PunchAt(hour, minute int) Punch {
	t := NewTimeOfDay(hour, minute)
	return &t
}

// =============================================================================
// COMPENSATION PROFILE - Rate type + base rate
// =============================================================================

// RateType identifies the pay frequency the base rate is expressed in.
type RateType string

const (
	RateHourly  RateType = "hourly"
	RateDaily   RateType = "daily"
	RateMonthly RateType = "monthly"
)

// CompensationProfile is the employee's configured pay rate. Owned by the
// employee record upstream; the core treats it as read-only.
type CompensationProfile struct {
	RateType RateType
	BaseRate decimal.Decimal
}

// Validate checks the joint invariant: a known rate type and a positive
// base rate. A violation is a configuration error that would corrupt every
// downstream monetary figure, so it is fatal for the employee's computation.
func (p CompensationProfile) Validate() error {
	switch p.RateType {
	case RateHourly, RateDaily, RateMonthly:
	default:
		return &ConfigurationError{Field: "rate_type", Detail: fmt.Sprintf("unknown rate type %q", p.RateType)}
	}
	if !p.BaseRate.IsPositive() {
		return &ConfigurationError{Field: "base_rate", Detail: fmt.Sprintf("base rate must be positive, got %s", p.BaseRate)}
	}
	return nil
}

// =============================================================================
// ATTENDANCE ENTRY - One day's punches and flags
// =============================================================================

// AttendanceEntry is one day of already-normalized attendance data.
// Up to four punches: morning-in, lunch-out, lunch-in, evening-out.
// Produced upstream (device export, manual entry); consumed read-only.
type AttendanceEntry struct {
	Date       time.Time
	MorningIn  Punch
	LunchOut   Punch
	LunchIn    Punch
	EveningOut Punch

	Absent  bool
	Holiday bool
	RestDay bool
}

// =============================================================================
// HOUR BREAKDOWN - Per-entry classified durations
// =============================================================================

// HourBreakdown is the classification result for a single attendance entry.
// NightDiff overlaps with Regular/Overtime: it is a premium overlay, not a
// disjoint bucket.
type HourBreakdown struct {
	Date time.Time

	Regular   decimal.Decimal // hours
	Overtime  decimal.Decimal // hours
	NightDiff decimal.Decimal // hours
	Holiday   decimal.Decimal // hours

	LateMinutes      int
	UndertimeMinutes int

	Worked bool // morning-in present and not absent

	// Unclassifiable entries contribute zero hours and surface a
	// data-quality flag instead of aborting the period.
	Unclassifiable bool
	Reason         string
}

// DataQualityFlag marks an attendance entry that could not be classified.
// Flags never raise errors; they ride along in the output for human review.
type DataQualityFlag struct {
	Date   time.Time
	Reason string
}

func (f DataQualityFlag) String() string {
	return fmt.Sprintf("%s: %s", f.Date.Format("2006-01-02"), f.Reason)
}

// =============================================================================
// PERIOD TOTALS - Aggregated hours across the pay period
// =============================================================================

// PeriodTotals is the fold of HourBreakdown values across all entries in
// the period, plus day counters and collected data-quality flags.
type PeriodTotals struct {
	Regular   decimal.Decimal
	Overtime  decimal.Decimal
	NightDiff decimal.Decimal
	Holiday   decimal.Decimal

	LateMinutes      int
	UndertimeMinutes int

	DaysWorked int
	DaysAbsent int

	Flags []DataQualityFlag
}

// =============================================================================
// ALLOWANCES - Pass-through amounts, split by taxability
// =============================================================================

// Allowances are externally supplied totals the engine passes through.
// The split matters: non-taxable allowances are excluded from taxable income.
type Allowances struct {
	Taxable    decimal.Decimal
	NonTaxable decimal.Decimal
}

func (a Allowances) Total() decimal.Decimal {
	return a.Taxable.Add(a.NonTaxable)
}

// =============================================================================
// PAYROLL BREAKDOWN - The engine's output
// =============================================================================

// PayrollBreakdown is the fully itemized result for one employee and one
// pay period.
//
// Invariants (held bit-for-bit from the computed components):
//   GrossPay = BasicPay + OvertimePay + NightDiffPay + HolidayPay + Allowances
//   NetPay   = max(0, GrossPay - TotalDeductions)
type PayrollBreakdown struct {
	// Normalized rate figures (hourly carries 4 decimals, see rate.go)
	HourlyRate        decimal.Decimal
	MonthlyEquivalent decimal.Decimal

	// Earnings
	BasicPay     decimal.Decimal
	OvertimePay  decimal.Decimal
	NightDiffPay decimal.Decimal
	HolidayPay   decimal.Decimal
	Allowances   Allowances
	GrossPay     decimal.Decimal

	// Deductions
	SocialInsurance decimal.Decimal
	HealthInsurance decimal.Decimal
	HousingFund     decimal.Decimal
	IncomeTax       decimal.Decimal
	OtherDeductions decimal.Decimal
	TotalDeductions decimal.Decimal

	NetPay decimal.Decimal

	// Hour totals the earnings were derived from
	Totals PeriodTotals

	// Trail is the deterministic, human-readable itemization of every
	// intermediate figure. Regenerating it from identical inputs is
	// byte-identical; it is part of the contract, not a debug aid.
	Trail string
}

// =============================================================================
// MONEY HELPERS
// =============================================================================

// RoundCents rounds a monetary amount to 2 decimals, half-up.
// All amounts in this system are non-negative, so decimal's
// half-away-from-zero rounding is exactly half-up here.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MustDecimal parses a decimal literal. Panics on malformed input; reserved
// for compile-time constants such as built-in statutory tables.
func MustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
