/*
aggregate.go - Period totals

PURPOSE:
  Folds per-day HourBreakdown values into PeriodTotals. Pure summation
  plus two counters:
  - DaysWorked increments for every entry with a morning-in punch that
    is not marked absent
  - DaysAbsent increments for every entry marked absent

  The aggregator does not filter dates: entries outside the requested
  window must be excluded by the caller before aggregation.
*/
package payroll

// AggregatePeriod classifies every entry and sums the results. Entries are
// never double-counted; unclassifiable entries contribute zero hours and
// their data-quality flag.
func AggregatePeriod(entries []AttendanceEntry) PeriodTotals {
	var totals PeriodTotals

	for _, entry := range entries {
		if entry.Absent {
			totals.DaysAbsent++
		} else if entry.MorningIn != nil {
			totals.DaysWorked++
		}

		hb := ClassifyEntry(entry)
		if hb.Unclassifiable {
			totals.Flags = append(totals.Flags, DataQualityFlag{Date: hb.Date, Reason: hb.Reason})
		}

		totals.Regular = totals.Regular.Add(hb.Regular)
		totals.Overtime = totals.Overtime.Add(hb.Overtime)
		totals.NightDiff = totals.NightDiff.Add(hb.NightDiff)
		totals.Holiday = totals.Holiday.Add(hb.Holiday)
		totals.LateMinutes += hb.LateMinutes
		totals.UndertimeMinutes += hb.UndertimeMinutes
	}

	return totals
}
