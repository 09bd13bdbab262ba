/*
sqlite_test.go - Store round trips against an in-memory database
*/
package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testEmployee(id string) Employee {
	return Employee{
		ID:   id,
		Name: "Maria Santos",
		Profile: payroll.CompensationProfile{
			RateType: payroll.RateMonthly,
			BaseRate: payroll.MustDecimal("26000"),
		},
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestEmployee_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, testEmployee("E-001")))

	got, err := store.GetEmployee(ctx, "E-001")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Maria Santos", got.Name)
	assert.Equal(t, payroll.RateMonthly, got.Profile.RateType)
	assert.Equal(t, "26000", got.Profile.BaseRate.String())
	assert.False(t, got.CreatedAt.IsZero())
}

func TestEmployee_GetMissing_ReturnsNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetEmployee(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEmployee_SaveReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, testEmployee("E-001")))

	updated := testEmployee("E-001")
	updated.Profile.BaseRate = payroll.MustDecimal("28000")
	require.NoError(t, store.SaveEmployee(ctx, updated))

	got, err := store.GetEmployee(ctx, "E-001")
	require.NoError(t, err)
	assert.Equal(t, "28000", got.Profile.BaseRate.String())
}

func TestEmployee_ListOrderedByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"E-003", "E-001", "E-002"} {
		require.NoError(t, store.SaveEmployee(ctx, testEmployee(id)))
	}

	list, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "E-001", list[0].ID)
	assert.Equal(t, "E-003", list[2].ID)
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func TestAttendance_RoundTripPreservesPunchesAndFlags(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, testEmployee("E-001")))

	entry := payroll.AttendanceEntry{
		Date:       time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
		MorningIn:  payroll.PunchAt(8, 0),
		LunchOut:   payroll.PunchAt(12, 0),
		LunchIn:    payroll.PunchAt(13, 0),
		EveningOut: payroll.PunchAt(17, 0),
		Holiday:    true,
	}
	require.NoError(t, store.SaveAttendance(ctx, "E-001", entry))

	// Missing punches must survive as nil, not zero times.
	partial := payroll.AttendanceEntry{
		Date:      time.Date(2024, time.June, 4, 0, 0, 0, 0, time.UTC),
		MorningIn: payroll.PunchAt(8, 15),
	}
	require.NoError(t, store.SaveAttendance(ctx, "E-001", partial))

	entries, err := store.ListAttendance(ctx, "E-001", payroll.Monthly(2024, time.June))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "08:00", entries[0].MorningIn.String())
	assert.Equal(t, "17:00", entries[0].EveningOut.String())
	assert.True(t, entries[0].Holiday)
	assert.False(t, entries[0].Absent)

	assert.Equal(t, "08:15", entries[1].MorningIn.String())
	assert.Nil(t, entries[1].EveningOut)
}

func TestAttendance_UpsertReplacesTheDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, testEmployee("E-001")))

	day := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)
	first := payroll.AttendanceEntry{Date: day, Absent: true}
	require.NoError(t, store.SaveAttendance(ctx, "E-001", first))

	corrected := payroll.AttendanceEntry{
		Date:       day,
		MorningIn:  payroll.PunchAt(8, 0),
		EveningOut: payroll.PunchAt(17, 0),
	}
	require.NoError(t, store.SaveAttendance(ctx, "E-001", corrected))

	entries, err := store.ListAttendance(ctx, "E-001", payroll.Monthly(2024, time.June))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Absent)
	assert.Equal(t, "08:00", entries[0].MorningIn.String())
}

func TestAttendance_ListFiltersToThePeriod(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, testEmployee("E-001")))

	for _, day := range []int{10, 15, 16, 20} {
		entry := payroll.AttendanceEntry{
			Date:       time.Date(2024, time.June, day, 0, 0, 0, 0, time.UTC),
			MorningIn:  payroll.PunchAt(8, 0),
			EveningOut: payroll.PunchAt(17, 0),
		}
		require.NoError(t, store.SaveAttendance(ctx, "E-001", entry))
	}

	firstHalf, err := store.ListAttendance(ctx, "E-001", payroll.SemiMonthly(2024, time.June, true))
	require.NoError(t, err)
	require.Len(t, firstHalf, 2)
	assert.Equal(t, 10, firstHalf[0].Date.Day())
	assert.Equal(t, 15, firstHalf[1].Date.Day())
}

// =============================================================================
// TABLE SETS
// =============================================================================

func tableSetRecord(id string, effective time.Time) TableSetRecord {
	return TableSetRecord{
		ID:          id,
		Name:        "schedules " + id,
		EffectiveAt: effective,
		ConfigJSON:  `{"name":"` + id + `"}`,
	}
}

func TestTableSet_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := tableSetRecord("ts-2024", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.SaveTableSet(ctx, rec))

	got, err := store.GetTableSet(ctx, "ts-2024")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ConfigJSON, got.ConfigJSON)
	assert.Equal(t, "2024-01-01", got.EffectiveAt.Format("2006-01-02"))
}

func TestTableSet_AsOfSelectsLatestApplicableVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTableSet(ctx,
		tableSetRecord("ts-2023", time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, store.SaveTableSet(ctx,
		tableSetRecord("ts-2024", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, store.SaveTableSet(ctx,
		tableSetRecord("ts-2025", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))))

	// Mid-2024 must pick the 2024 version, not the newer 2025 one.
	got, err := store.TableSetAsOf(ctx, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ts-2024", got.ID)

	// Before any version applies: nil, not an error.
	none, err := store.TableSetAsOf(ctx, time.Date(2022, time.June, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestTableSet_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTableSet(ctx,
		tableSetRecord("ts-2023", time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, store.SaveTableSet(ctx,
		tableSetRecord("ts-2024", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))))

	list, err := store.ListTableSets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ts-2024", list[0].ID)
	assert.Equal(t, "ts-2023", list[1].ID)
}

// =============================================================================
// PAYROLL RESULTS
// =============================================================================

func TestPayrollResult_SaveAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, testEmployee("E-001")))

	june := payroll.Monthly(2024, time.June)
	result := PayrollResult{
		EmployeeID:    "E-001",
		PeriodStart:   june.Start,
		PeriodEnd:     june.End,
		BreakdownJSON: `{"net_pay":"19980.00"}`,
		Trail:         "PAYROLL COMPUTATION TRAIL\n",
	}
	require.NoError(t, store.SavePayrollResult(ctx, result))

	// Recomputing the same period replaces the stored result.
	result.BreakdownJSON = `{"net_pay":"20100.00"}`
	require.NoError(t, store.SavePayrollResult(ctx, result))

	july := payroll.Monthly(2024, time.July)
	require.NoError(t, store.SavePayrollResult(ctx, PayrollResult{
		EmployeeID:    "E-001",
		PeriodStart:   july.Start,
		PeriodEnd:     july.End,
		BreakdownJSON: `{}`,
		Trail:         "PAYROLL COMPUTATION TRAIL\n",
	}))

	results, err := store.ListPayrollResults(ctx, "E-001")
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Newest period first.
	assert.Equal(t, "2024-07-01", results[0].PeriodStart.Format("2006-01-02"))
	assert.Equal(t, `{"net_pay":"20100.00"}`, results[1].BreakdownJSON)
	assert.False(t, results[0].ComputedAt.IsZero())
}
