/*
period.go - Pay period windows

PURPOSE:
  A PayPeriod is the date window one payroll computation covers. The core
  treats the window as given: which table version applies, whether the
  period is locked, and which entries fall inside it are all decided by
  the caller. The helpers here exist for the serving layer and tests.
*/
package payroll

import "time"

// PayPeriod is an inclusive date window [Start, End].
type PayPeriod struct {
	Start time.Time
	End   time.Time
}

// NewPayPeriod builds a validated period.
func NewPayPeriod(start, end time.Time) (PayPeriod, error) {
	p := PayPeriod{Start: day(start), End: day(end)}
	if p.End.Before(p.Start) {
		return PayPeriod{}, ErrInvalidPeriod
	}
	return p, nil
}

// Monthly returns the full-month period for the given year and month.
func Monthly(year int, month time.Month) PayPeriod {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return PayPeriod{Start: start, End: start.AddDate(0, 1, -1)}
}

// SemiMonthly returns the 1st-15th window (first half) or the
// 16th-to-month-end window (second half).
func SemiMonthly(year int, month time.Month, firstHalf bool) PayPeriod {
	if firstHalf {
		return PayPeriod{
			Start: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(year, month, 15, 0, 0, 0, 0, time.UTC),
		}
	}
	return PayPeriod{
		Start: time.Date(year, month, 16, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1),
	}
}

// Contains reports whether the date falls within [Start, End].
func (p PayPeriod) Contains(t time.Time) bool {
	d := day(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Days returns the number of calendar dates in the period.
func (p PayPeriod) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

func (p PayPeriod) String() string {
	return p.Start.Format("2006-01-02") + " to " + p.End.Format("2006-01-02")
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
