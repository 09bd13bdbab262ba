/*
aggregate_test.go - Period aggregation behavior

Verifies the fold: hour sums, day counters, and the collection of
data-quality flags from unclassifiable entries.
*/
package payroll_test

import (
	"testing"

	"github.com/warp/payroll-engine/payroll"
)

func TestAggregate_MixedPeriod(t *testing.T) {
	// GIVEN: Two full days, one absence, and one entry missing its
	//        evening-out punch
	// WHEN: Aggregating the period
	// THEN: 16 regular hours; 3 days worked (the broken entry still has a
	//       morning-in punch); 1 day absent; exactly one flag

	broken := payroll.AttendanceEntry{
		Date:      date(23),
		MorningIn: payroll.PunchAt(8, 0),
	}
	absent := payroll.AttendanceEntry{Date: date(24), Absent: true}

	totals := payroll.AggregatePeriod([]payroll.AttendanceEntry{
		fullDay(21), fullDay(22), broken, absent,
	})

	hoursEqual(t, totals.Regular, "16.00", "regular")
	if totals.DaysWorked != 3 {
		t.Errorf("expected 3 days worked, got %d", totals.DaysWorked)
	}
	if totals.DaysAbsent != 1 {
		t.Errorf("expected 1 day absent, got %d", totals.DaysAbsent)
	}
	if len(totals.Flags) != 1 {
		t.Fatalf("expected 1 data-quality flag, got %d", len(totals.Flags))
	}
	if got := totals.Flags[0].String(); got != "2024-06-23: missing evening-out punch" {
		t.Errorf("unexpected flag rendering: %q", got)
	}
}

func TestAggregate_SumsLateAndUndertimeMinutes(t *testing.T) {
	// GIVEN: One late day (30 min) and one early-out day (60 min)
	// WHEN: Aggregating the period
	// THEN: Minutes accumulate across entries

	late := fullDay(25)
	late.MorningIn = payroll.PunchAt(8, 30)
	early := fullDay(26)
	early.EveningOut = payroll.PunchAt(16, 0)

	totals := payroll.AggregatePeriod([]payroll.AttendanceEntry{late, early})

	if totals.LateMinutes != 30 {
		t.Errorf("expected 30 late minutes, got %d", totals.LateMinutes)
	}
	if totals.UndertimeMinutes != 60 {
		t.Errorf("expected 60 undertime minutes, got %d", totals.UndertimeMinutes)
	}
}

func TestAggregate_EmptyPeriod_AllZero(t *testing.T) {
	// GIVEN: No entries at all
	// WHEN: Aggregating
	// THEN: Zero everything, no flags

	totals := payroll.AggregatePeriod(nil)

	hoursEqual(t, totals.Regular, "0.00", "regular")
	if totals.DaysWorked != 0 || totals.DaysAbsent != 0 || len(totals.Flags) != 0 {
		t.Errorf("expected empty totals, got %+v", totals)
	}
}
