/*
classify_test.go - Punch classification behavior

Each test documents one classification rule with GIVEN/WHEN/THEN comments
and exercises it through ClassifyEntry. These are the executable edge
cases of the shift model: lunch inference, holiday bucketing, the night
window overlay, and the unclassifiable-entry flags.
*/
package payroll_test

import (
	"testing"
	"time"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(day int) time.Time {
	return time.Date(2024, time.June, day, 0, 0, 0, 0, time.UTC)
}

func hoursEqual(t *testing.T, got interface{ StringFixed(int32) string }, want string, label string) {
	t.Helper()
	if got.StringFixed(2) != want {
		t.Errorf("%s: expected %s hours, got %s", label, want, got.StringFixed(2))
	}
}

// fullDay is a clean 08:00-17:00 day with explicit lunch punches.
func fullDay(day int) payroll.AttendanceEntry {
	return payroll.AttendanceEntry{
		Date:       date(day),
		MorningIn:  payroll.PunchAt(8, 0),
		LunchOut:   payroll.PunchAt(12, 0),
		LunchIn:    payroll.PunchAt(13, 0),
		EveningOut: payroll.PunchAt(17, 0),
	}
}

// =============================================================================
// REGULAR DAY CLASSIFICATION
// =============================================================================

func TestClassify_FullDay_EightRegularHours(t *testing.T) {
	// GIVEN: 08:00-17:00 with a punched 12:00-13:00 lunch
	// WHEN: Classifying the entry
	// THEN: Exactly 8 regular hours, nothing else

	hb := payroll.ClassifyEntry(fullDay(3))

	hoursEqual(t, hb.Regular, "8.00", "regular")
	hoursEqual(t, hb.Overtime, "0.00", "overtime")
	hoursEqual(t, hb.NightDiff, "0.00", "night diff")
	hoursEqual(t, hb.Holiday, "0.00", "holiday")
	if hb.LateMinutes != 0 || hb.UndertimeMinutes != 0 {
		t.Errorf("expected no late/undertime, got %d/%d", hb.LateMinutes, hb.UndertimeMinutes)
	}
	if !hb.Worked {
		t.Error("expected entry to count as worked")
	}
}

func TestClassify_LateArrival_DocksLateMinutes(t *testing.T) {
	// GIVEN: Morning-in 08:30, evening-out 17:00, lunch punched 12:00-13:00
	// WHEN: Classifying the entry
	// THEN: Late = 30 minutes and countable time = 420 minutes: 7.0 regular
	//       hours, no overtime

	entry := fullDay(4)
	entry.MorningIn = payroll.PunchAt(8, 30)

	hb := payroll.ClassifyEntry(entry)

	if hb.LateMinutes != 30 {
		t.Errorf("expected 30 late minutes, got %d", hb.LateMinutes)
	}
	hoursEqual(t, hb.Regular, "7.00", "regular")
	hoursEqual(t, hb.Overtime, "0.00", "overtime")
}

func TestClassify_EarlyOut_CountsUndertime(t *testing.T) {
	// GIVEN: A regular day ending at 16:00
	// WHEN: Classifying the entry
	// THEN: Undertime = 60 minutes

	entry := fullDay(5)
	entry.EveningOut = payroll.PunchAt(16, 0)

	hb := payroll.ClassifyEntry(entry)

	if hb.UndertimeMinutes != 60 {
		t.Errorf("expected 60 undertime minutes, got %d", hb.UndertimeMinutes)
	}
	hoursEqual(t, hb.Regular, "7.00", "regular")
}

func TestClassify_LongDay_ExcessIsOvertime(t *testing.T) {
	// GIVEN: 08:00-20:00 with punched lunch
	// WHEN: Classifying the entry
	// THEN: 8 regular hours + 3 overtime hours

	entry := fullDay(6)
	entry.EveningOut = payroll.PunchAt(20, 0)

	hb := payroll.ClassifyEntry(entry)

	hoursEqual(t, hb.Regular, "8.00", "regular")
	hoursEqual(t, hb.Overtime, "3.00", "overtime")
}

// =============================================================================
// LUNCH INFERENCE
// =============================================================================

func TestClassify_NoLunchPunches_LongSpanInfersLunch(t *testing.T) {
	// GIVEN: 08:00-17:00 with NO lunch punches (span 540 > 300 minutes)
	// WHEN: Classifying the entry
	// THEN: A default 60-minute lunch is subtracted: 8 regular hours

	entry := payroll.AttendanceEntry{
		Date:       date(7),
		MorningIn:  payroll.PunchAt(8, 0),
		EveningOut: payroll.PunchAt(17, 0),
	}

	hb := payroll.ClassifyEntry(entry)

	hoursEqual(t, hb.Regular, "8.00", "regular")
}

func TestClassify_NoLunchPunches_ShortSpanKeepsAllMinutes(t *testing.T) {
	// GIVEN: A 08:00-12:00 half day (span 240 <= 300 minutes)
	// WHEN: Classifying the entry
	// THEN: No lunch is inferred: 4 regular hours

	entry := payroll.AttendanceEntry{
		Date:       date(8),
		MorningIn:  payroll.PunchAt(8, 0),
		EveningOut: payroll.PunchAt(12, 0),
	}

	hb := payroll.ClassifyEntry(entry)

	hoursEqual(t, hb.Regular, "4.00", "regular")
}

func TestClassify_ExplicitLunch_UsesPunchedInterval(t *testing.T) {
	// GIVEN: A 90-minute punched lunch (12:00-13:30), 08:00-17:00
	// WHEN: Classifying the entry
	// THEN: The punched interval is subtracted, not the 60-minute default

	entry := fullDay(9)
	entry.LunchIn = payroll.PunchAt(13, 30)

	hb := payroll.ClassifyEntry(entry)

	hoursEqual(t, hb.Regular, "7.50", "regular")
}

// =============================================================================
// HOLIDAY AND REST-DAY BUCKETING
// =============================================================================

func TestClassify_Holiday_SingleBucketWithOvertimeExcess(t *testing.T) {
	// GIVEN: A holiday worked 08:00-19:00 with punched lunch (10 hours)
	// WHEN: Classifying the entry
	// THEN: First 8 hours are holiday hours, the remaining 2 are overtime;
	//       no regular hours at all

	entry := fullDay(10)
	entry.Holiday = true
	entry.EveningOut = payroll.PunchAt(19, 0)

	hb := payroll.ClassifyEntry(entry)

	hoursEqual(t, hb.Holiday, "8.00", "holiday")
	hoursEqual(t, hb.Overtime, "2.00", "overtime")
	hoursEqual(t, hb.Regular, "0.00", "regular")
}

func TestClassify_RestDay_UsesHolidayBucket(t *testing.T) {
	// GIVEN: A rest day worked 08:00-17:00 with punched lunch
	// WHEN: Classifying the entry
	// THEN: All 8 hours land in the holiday bucket

	entry := fullDay(11)
	entry.RestDay = true

	hb := payroll.ClassifyEntry(entry)

	hoursEqual(t, hb.Holiday, "8.00", "holiday")
	hoursEqual(t, hb.Regular, "0.00", "regular")
}

func TestClassify_Holiday_NoUndertime(t *testing.T) {
	// GIVEN: A holiday worked 08:00-15:00
	// WHEN: Classifying the entry
	// THEN: Undertime stays zero; there was no obligation to stay to 17:00

	entry := fullDay(12)
	entry.Holiday = true
	entry.EveningOut = payroll.PunchAt(15, 0)

	hb := payroll.ClassifyEntry(entry)

	if hb.UndertimeMinutes != 0 {
		t.Errorf("expected no undertime on a holiday, got %d", hb.UndertimeMinutes)
	}
}

// =============================================================================
// NIGHT DIFFERENTIAL OVERLAY
// =============================================================================

func TestClassify_LateNightOvertime_NightWindowOverlap(t *testing.T) {
	// GIVEN: 08:00-23:30 with a punched 12:00-13:00 lunch
	// WHEN: Classifying the entry
	// THEN: 90 minutes fall in [22:00, 24:00): 1.5 night-diff hours,
	//       overlapping the 8 regular + 6.5 overtime hours

	entry := fullDay(13)
	entry.EveningOut = payroll.PunchAt(23, 30)

	hb := payroll.ClassifyEntry(entry)

	hoursEqual(t, hb.NightDiff, "1.50", "night diff")
	hoursEqual(t, hb.Regular, "8.00", "regular")
	hoursEqual(t, hb.Overtime, "6.50", "overtime")
}

func TestClassify_EarlyMorningShift_NightWindowOverlap(t *testing.T) {
	// GIVEN: 04:00-13:00 with no lunch punches
	// WHEN: Classifying the entry
	// THEN: 120 minutes fall in [00:00, 06:00): 2 night-diff hours

	entry := payroll.AttendanceEntry{
		Date:       date(14),
		MorningIn:  payroll.PunchAt(4, 0),
		EveningOut: payroll.PunchAt(13, 0),
	}

	hb := payroll.ClassifyEntry(entry)

	hoursEqual(t, hb.NightDiff, "2.00", "night diff")
	if hb.LateMinutes != 0 {
		t.Errorf("early arrival must not count as late, got %d", hb.LateMinutes)
	}
}

func TestClassify_DayShift_NoNightDiff(t *testing.T) {
	// GIVEN: A plain 08:00-17:00 day
	// WHEN: Classifying the entry
	// THEN: Zero night-diff hours

	hb := payroll.ClassifyEntry(fullDay(15))

	hoursEqual(t, hb.NightDiff, "0.00", "night diff")
}

// =============================================================================
// ABSENT AND UNCLASSIFIABLE ENTRIES
// =============================================================================

func TestClassify_Absent_IgnoresPunchesEntirely(t *testing.T) {
	// GIVEN: An entry marked absent that still carries punches
	// WHEN: Classifying the entry
	// THEN: Every category is zero, including late/undertime; no flag

	entry := fullDay(16)
	entry.Absent = true
	entry.MorningIn = payroll.PunchAt(10, 0) // would be 120 minutes late

	hb := payroll.ClassifyEntry(entry)

	hoursEqual(t, hb.Regular, "0.00", "regular")
	if hb.LateMinutes != 0 || hb.UndertimeMinutes != 0 {
		t.Errorf("absent entry must not compute late/undertime, got %d/%d",
			hb.LateMinutes, hb.UndertimeMinutes)
	}
	if hb.Unclassifiable {
		t.Error("absent entries are valid, not unclassifiable")
	}
	if hb.Worked {
		t.Error("absent entry must not count as worked")
	}
}

func TestClassify_MissingMorningIn_Unclassifiable(t *testing.T) {
	// GIVEN: An entry with no morning-in punch
	// WHEN: Classifying the entry
	// THEN: Zero hours, flagged unclassifiable (surfaced, not dropped)

	entry := payroll.AttendanceEntry{
		Date:       date(17),
		EveningOut: payroll.PunchAt(17, 0),
	}

	hb := payroll.ClassifyEntry(entry)

	if !hb.Unclassifiable {
		t.Fatal("expected entry to be unclassifiable")
	}
	hoursEqual(t, hb.Regular, "0.00", "regular")
}

func TestClassify_MissingEveningOut_Unclassifiable(t *testing.T) {
	// GIVEN: A morning-in with no evening-out
	// WHEN: Classifying the entry
	// THEN: The span cannot be computed: unclassifiable

	entry := payroll.AttendanceEntry{
		Date:      date(18),
		MorningIn: payroll.PunchAt(8, 0),
	}

	hb := payroll.ClassifyEntry(entry)

	if !hb.Unclassifiable {
		t.Fatal("expected entry to be unclassifiable")
	}
}

func TestClassify_PunchOutBeforePunchIn_Unclassifiable(t *testing.T) {
	// GIVEN: Evening-out earlier than morning-in (unsupported overnight)
	// WHEN: Classifying the entry
	// THEN: Unclassifiable with zero hours; never negative pay

	entry := payroll.AttendanceEntry{
		Date:       date(19),
		MorningIn:  payroll.PunchAt(22, 0),
		EveningOut: payroll.PunchAt(6, 0),
	}

	hb := payroll.ClassifyEntry(entry)

	if !hb.Unclassifiable {
		t.Fatal("expected overnight entry to be unclassifiable")
	}
	hoursEqual(t, hb.Regular, "0.00", "regular")
	hoursEqual(t, hb.Overtime, "0.00", "overtime")
}

func TestClassify_NonChronologicalLunch_Unclassifiable(t *testing.T) {
	// GIVEN: Lunch-in before lunch-out
	// WHEN: Classifying the entry
	// THEN: Unclassifiable

	entry := fullDay(20)
	entry.LunchOut = payroll.PunchAt(13, 0)
	entry.LunchIn = payroll.PunchAt(12, 0)

	hb := payroll.ClassifyEntry(entry)

	if !hb.Unclassifiable {
		t.Fatal("expected non-chronological punches to be unclassifiable")
	}
}
