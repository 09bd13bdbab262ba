/*
Package sqlite provides the SQLite-backed persistence for the serving layer.

PURPOSE:
  The payroll core is pure and persistence-free; everything durable lives
  here, behind the API layer: employee compensation profiles, normalized
  attendance entries, versioned statutory table sets, and computed payroll
  results (breakdown JSON plus the audit trail text).

KEY TABLES:
  employees:        Compensation profiles (rate type + base rate)
  attendance:       One row per employee per date, upserted on re-import
  table_sets:       Statutory table configs, versioned by effective date
  payroll_results:  Persisted breakdowns and trails, one per employee-period

DECIMAL STORAGE:
  Monetary values are stored as TEXT and parsed with shopspring/decimal.
  Floats never touch money.

TABLE VERSION SELECTION:
  TableSetAsOf returns the table set with the latest effective date not
  after the given date. The engine itself never does this lookup; the API
  layer selects and hands over the result.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened in WAL mode so
  readers don't block each other.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - api/handlers.go: The only consumer of this package
  - payroll: The pure core these records feed
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

// Store implements persistence for the serving layer using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		rate_type TEXT NOT NULL,
		base_rate TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- One row per employee per date; re-imports replace the day.
	CREATE TABLE IF NOT EXISTS attendance (
		employee_id TEXT NOT NULL REFERENCES employees(id),
		date TEXT NOT NULL,
		morning_in TEXT,
		lunch_out TEXT,
		lunch_in TEXT,
		evening_out TEXT,
		absent INTEGER NOT NULL DEFAULT 0,
		holiday INTEGER NOT NULL DEFAULT 0,
		rest_day INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (employee_id, date)
	);

	CREATE TABLE IF NOT EXISTS table_sets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		effective_at TEXT NOT NULL,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_table_sets_effective
		ON table_sets(effective_at DESC);

	CREATE TABLE IF NOT EXISTS payroll_results (
		employee_id TEXT NOT NULL REFERENCES employees(id),
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		breakdown_json TEXT NOT NULL,
		trail TEXT NOT NULL,
		computed_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, period_start, period_end)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// Employee is an employee record with its compensation profile.
type Employee struct {
	ID        string
	Name      string
	Profile   payroll.CompensationProfile
	CreatedAt time.Time
}

// SaveEmployee inserts or replaces an employee record.
func (s *Store) SaveEmployee(ctx context.Context, e Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO employees (id, name, rate_type, base_rate, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Name, string(e.Profile.RateType), e.Profile.BaseRate.String(),
		e.CreatedAt.Format(time.RFC3339))
	return err
}

// GetEmployee returns an employee by ID, or nil if not found.
func (s *Store) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, rate_type, base_rate, created_at FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListEmployees returns all employees ordered by ID.
func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, rate_type, base_rate, created_at FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (*Employee, error) {
	var e Employee
	var rateType, baseRate, createdAt string
	if err := row.Scan(&e.ID, &e.Name, &rateType, &baseRate, &createdAt); err != nil {
		return nil, err
	}

	rate, err := decimal.NewFromString(baseRate)
	if err != nil {
		return nil, fmt.Errorf("employee %s: bad base rate: %w", e.ID, err)
	}
	e.Profile = payroll.CompensationProfile{RateType: payroll.RateType(rateType), BaseRate: rate}

	if e.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("employee %s: bad created_at: %w", e.ID, err)
	}
	return &e, nil
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// SaveAttendance upserts one day's entry for an employee.
func (s *Store) SaveAttendance(ctx context.Context, employeeID string, entry payroll.AttendanceEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO attendance
			(employee_id, date, morning_in, lunch_out, lunch_in, evening_out, absent, holiday, rest_day)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		employeeID, entry.Date.Format("2006-01-02"),
		punchString(entry.MorningIn), punchString(entry.LunchOut),
		punchString(entry.LunchIn), punchString(entry.EveningOut),
		boolInt(entry.Absent), boolInt(entry.Holiday), boolInt(entry.RestDay))
	return err
}

// ListAttendance returns the entries for an employee within the period,
// ordered by date.
func (s *Store) ListAttendance(ctx context.Context, employeeID string, period payroll.PayPeriod) ([]payroll.AttendanceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, morning_in, lunch_out, lunch_in, evening_out, absent, holiday, rest_day
		FROM attendance
		WHERE employee_id = ? AND date >= ? AND date <= ?
		ORDER BY date`,
		employeeID, period.Start.Format("2006-01-02"), period.End.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []payroll.AttendanceEntry
	for rows.Next() {
		var date string
		var morningIn, lunchOut, lunchIn, eveningOut sql.NullString
		var absent, holiday, restDay int
		if err := rows.Scan(&date, &morningIn, &lunchOut, &lunchIn, &eveningOut,
			&absent, &holiday, &restDay); err != nil {
			return nil, err
		}

		entry := payroll.AttendanceEntry{
			Absent:  absent != 0,
			Holiday: holiday != 0,
			RestDay: restDay != 0,
		}
		if entry.Date, err = time.Parse("2006-01-02", date); err != nil {
			return nil, fmt.Errorf("attendance for %s: bad date: %w", employeeID, err)
		}
		if entry.MorningIn, err = parsePunch(morningIn); err != nil {
			return nil, err
		}
		if entry.LunchOut, err = parsePunch(lunchOut); err != nil {
			return nil, err
		}
		if entry.LunchIn, err = parsePunch(lunchIn); err != nil {
			return nil, err
		}
		if entry.EveningOut, err = parsePunch(eveningOut); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func punchString(p payroll.Punch) any {
	if p == nil {
		return nil
	}
	return p.String()
}

func parsePunch(v sql.NullString) (payroll.Punch, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := payroll.ParseTimeOfDay(v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// STATUTORY TABLE SETS
// =============================================================================

// TableSetRecord is a stored table-set version: the raw config JSON plus
// the effective date used for selection.
type TableSetRecord struct {
	ID          string
	Name        string
	EffectiveAt time.Time
	ConfigJSON  string
	CreatedAt   time.Time
}

// SaveTableSet inserts or replaces a table-set version.
func (s *Store) SaveTableSet(ctx context.Context, rec TableSetRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO table_sets (id, name, effective_at, config_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.EffectiveAt.Format("2006-01-02"), rec.ConfigJSON,
		rec.CreatedAt.Format(time.RFC3339))
	return err
}

// GetTableSet returns a table-set version by ID, or nil if not found.
func (s *Store) GetTableSet(ctx context.Context, id string) (*TableSetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, effective_at, config_json, created_at FROM table_sets WHERE id = ?`, id)
	rec, err := scanTableSet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListTableSets returns all table-set versions, newest effective date first.
func (s *Store) ListTableSets(ctx context.Context) ([]TableSetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, effective_at, config_json, created_at
		FROM table_sets ORDER BY effective_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []TableSetRecord
	for rows.Next() {
		rec, err := scanTableSet(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// TableSetAsOf returns the version with the latest effective date not after
// the given date, or nil when none applies.
func (s *Store) TableSetAsOf(ctx context.Context, date time.Time) (*TableSetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, effective_at, config_json, created_at
		FROM table_sets
		WHERE effective_at <= ?
		ORDER BY effective_at DESC, id LIMIT 1`, date.Format("2006-01-02"))
	rec, err := scanTableSet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func scanTableSet(row scanner) (*TableSetRecord, error) {
	var rec TableSetRecord
	var effectiveAt, createdAt string
	if err := row.Scan(&rec.ID, &rec.Name, &effectiveAt, &rec.ConfigJSON, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if rec.EffectiveAt, err = time.Parse("2006-01-02", effectiveAt); err != nil {
		return nil, fmt.Errorf("table set %s: bad effective_at: %w", rec.ID, err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("table set %s: bad created_at: %w", rec.ID, err)
	}
	return &rec, nil
}

// =============================================================================
// PAYROLL RESULTS
// =============================================================================

// PayrollResult is a persisted computation outcome: the breakdown as JSON
// for programmatic consumers and the trail text for audit display.
type PayrollResult struct {
	EmployeeID    string
	PeriodStart   time.Time
	PeriodEnd     time.Time
	BreakdownJSON string
	Trail         string
	ComputedAt    time.Time
}

// SavePayrollResult inserts or replaces the result for an employee-period.
func (s *Store) SavePayrollResult(ctx context.Context, r PayrollResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ComputedAt.IsZero() {
		r.ComputedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO payroll_results
			(employee_id, period_start, period_end, breakdown_json, trail, computed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.EmployeeID, r.PeriodStart.Format("2006-01-02"), r.PeriodEnd.Format("2006-01-02"),
		r.BreakdownJSON, r.Trail, r.ComputedAt.Format(time.RFC3339))
	return err
}

// ListPayrollResults returns an employee's persisted results, newest first.
func (s *Store) ListPayrollResults(ctx context.Context, employeeID string) ([]PayrollResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, period_start, period_end, breakdown_json, trail, computed_at
		FROM payroll_results
		WHERE employee_id = ?
		ORDER BY period_start DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []PayrollResult
	for rows.Next() {
		var r PayrollResult
		var start, end, computedAt string
		if err := rows.Scan(&r.EmployeeID, &start, &end, &r.BreakdownJSON, &r.Trail, &computedAt); err != nil {
			return nil, err
		}
		if r.PeriodStart, err = time.Parse("2006-01-02", start); err != nil {
			return nil, err
		}
		if r.PeriodEnd, err = time.Parse("2006-01-02", end); err != nil {
			return nil, err
		}
		if r.ComputedAt, err = time.Parse(time.RFC3339, computedAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
