/*
classify.go - Punch classification into hour categories

PURPOSE:
  Turns one day's raw punches into categorized durations: regular,
  overtime, night-differential, and holiday hours, plus late and
  undertime minutes.

SHIFT MODEL (fixed):
  Expected start 08:00, expected end 17:00, one unpaid lunch hour.
  Night-differential window 22:00-06:00 (the 00:00-06:00 half applies
  to early-morning starts; overnight shifts are not supported).

CLASSIFICATION RULES:
  1. Absent entries are all-zero; punches are ignored entirely.
  2. No morning-in punch, no evening-out punch, or punches out of
     chronological order: the entry is unclassifiable. It contributes
     zero hours and a DataQualityFlag, never an error.
  3. Lunch is subtracted from the raw span: the explicit lunch interval
     when both lunch punches exist, otherwise a default 60 minutes when
     the raw span exceeds 300 minutes (an un-punched lunch). Late
     minutes are docked from countable time as well: a 08:30 arrival
     against the 08:00 shift start loses those 30 minutes of credit.
  4. On a holiday or rest day the first 8 hours go to the single
     holiday-hours bucket and the excess to overtime. Otherwise the
     first 8 hours are regular and the excess overtime.
  5. Night-differential hours are the intersection of the shift with
     the night windows. They OVERLAP regular/overtime hours: night diff
     is a premium overlay, not a disjoint bucket.

MIDNIGHT:
  An evening-out earlier than the morning-in would produce negative
  worked minutes (and negative pay). Such entries are unclassifiable.
*/
package payroll

import "github.com/shopspring/decimal"

// Fixed shift model, in minutes since midnight.
const (
	shiftStartMin = 8 * 60  // 08:00 expected start
	shiftEndMin   = 17 * 60 // 17:00 expected end

	standardDayMin = 8 * 60 // paid hours per full day

	lunchDefaultMin   = 60  // inferred unpaid lunch
	lunchInferOverMin = 300 // spans above this imply an un-punched lunch

	nightEveningStartMin = 22 * 60 // [22:00, 24:00)
	nightMorningEndMin   = 6 * 60  // [00:00, 06:00)
)

// Unclassifiable-entry reasons surfaced as data-quality flags.
const (
	reasonMissingMorningIn  = "missing morning-in punch"
	reasonMissingEveningOut = "missing evening-out punch"
	reasonPunchesOutOfOrder = "punches not in chronological order"
)

// ClassifyEntry converts one attendance entry into an HourBreakdown.
// It never fails: bad data yields a zero, flagged breakdown.
func ClassifyEntry(entry AttendanceEntry) HourBreakdown {
	hb := HourBreakdown{Date: entry.Date}

	// Absent short-circuits everything, including late/undertime.
	if entry.Absent {
		return hb
	}

	if entry.MorningIn == nil {
		hb.Unclassifiable = true
		hb.Reason = reasonMissingMorningIn
		return hb
	}
	if entry.EveningOut == nil {
		hb.Unclassifiable = true
		hb.Reason = reasonMissingEveningOut
		return hb
	}
	if !punchesChronological(entry) {
		hb.Unclassifiable = true
		hb.Reason = reasonPunchesOutOfOrder
		return hb
	}

	hb.Worked = true

	in := entry.MorningIn.Minutes()
	out := entry.EveningOut.Minutes()

	if in > shiftStartMin {
		hb.LateMinutes = in - shiftStartMin
	}
	if !entry.Holiday && out < shiftEndMin {
		hb.UndertimeMinutes = shiftEndMin - out
	}

	raw := out - in
	worked := raw - lunchMinutes(entry, raw) - hb.LateMinutes
	if worked < 0 {
		worked = 0
	}

	// Bucket the worked minutes: first 8 hours into the day's primary
	// bucket, the remainder into overtime. Holiday and rest-day entries
	// share a single holiday-hours bucket.
	primary := worked
	overtime := 0
	if primary > standardDayMin {
		overtime = primary - standardDayMin
		primary = standardDayMin
	}
	if entry.Holiday || entry.RestDay {
		hb.Holiday = minutesToHours(primary)
	} else {
		hb.Regular = minutesToHours(primary)
	}
	hb.Overtime = minutesToHours(overtime)

	hb.NightDiff = minutesToHours(nightMinutes(in, out))

	return hb
}

// punchesChronological checks that the present punches are non-decreasing
// in their natural order. This also rejects an evening-out earlier than
// the morning-in, which would otherwise produce negative worked minutes.
func punchesChronological(entry AttendanceEntry) bool {
	prev := -1
	for _, p := range []Punch{entry.MorningIn, entry.LunchOut, entry.LunchIn, entry.EveningOut} {
		if p == nil {
			continue
		}
		if p.Minutes() < prev {
			return false
		}
		prev = p.Minutes()
	}
	return true
}

// lunchMinutes returns the unpaid lunch interval to subtract from the raw
// span: the explicit interval when both lunch punches exist, otherwise the
// 60-minute default for spans long enough to have included a lunch.
func lunchMinutes(entry AttendanceEntry, rawSpan int) int {
	if entry.LunchOut != nil && entry.LunchIn != nil {
		return entry.LunchIn.Minutes() - entry.LunchOut.Minutes()
	}
	if rawSpan > lunchInferOverMin {
		return lunchDefaultMin
	}
	return 0
}

// nightMinutes intersects the shift interval [in, out) with the two night
// sub-windows [22:00, 24:00) and [00:00, 06:00).
func nightMinutes(in, out int) int {
	return overlap(in, out, nightEveningStartMin, 24*60) + overlap(in, out, 0, nightMorningEndMin)
}

func overlap(aStart, aEnd, bStart, bEnd int) int {
	start := aStart
	if bStart > start {
		start = bStart
	}
	end := aEnd
	if bEnd < end {
		end = bEnd
	}
	if end <= start {
		return 0
	}
	return end - start
}

var sixty = decimal.NewFromInt(60)

func minutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(sixty)
}
