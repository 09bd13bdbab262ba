/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY ENCODING:
  Monetary values cross the wire as decimal strings ("26000.00"), never
  floats. Punches are "HH:MM" strings; a missing punch is an omitted or
  empty field.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/tables.go: TableSetJSON used for table configs
*/
package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	RateType  string `json:"rate_type"`
	BaseRate  string `json:"base_rate"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RateType string `json:"rate_type"`
	BaseRate string `json:"base_rate"`
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// AttendanceEntryDTO is one day's punches and flags.
type AttendanceEntryDTO struct {
	Date       string `json:"date"` // YYYY-MM-DD
	MorningIn  string `json:"morning_in,omitempty"`
	LunchOut   string `json:"lunch_out,omitempty"`
	LunchIn    string `json:"lunch_in,omitempty"`
	EveningOut string `json:"evening_out,omitempty"`
	Absent     bool   `json:"absent,omitempty"`
	Holiday    bool   `json:"holiday,omitempty"`
	RestDay    bool   `json:"rest_day,omitempty"`
}

// ToEntry converts the DTO into a core attendance entry.
func (d AttendanceEntryDTO) ToEntry() (payroll.AttendanceEntry, error) {
	date, err := time.Parse("2006-01-02", d.Date)
	if err != nil {
		return payroll.AttendanceEntry{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", d.Date, err)
	}

	entry := payroll.AttendanceEntry{
		Date:    date,
		Absent:  d.Absent,
		Holiday: d.Holiday,
		RestDay: d.RestDay,
	}
	if entry.MorningIn, err = parsePunchDTO(d.MorningIn); err != nil {
		return payroll.AttendanceEntry{}, err
	}
	if entry.LunchOut, err = parsePunchDTO(d.LunchOut); err != nil {
		return payroll.AttendanceEntry{}, err
	}
	if entry.LunchIn, err = parsePunchDTO(d.LunchIn); err != nil {
		return payroll.AttendanceEntry{}, err
	}
	if entry.EveningOut, err = parsePunchDTO(d.EveningOut); err != nil {
		return payroll.AttendanceEntry{}, err
	}
	return entry, nil
}

func parsePunchDTO(s string) (payroll.Punch, error) {
	if s == "" {
		return nil, nil
	}
	t, err := payroll.ParseTimeOfDay(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func punchDTO(p payroll.Punch) string {
	if p == nil {
		return ""
	}
	return p.String()
}

// FromEntry converts a core attendance entry into its DTO.
func FromEntry(e payroll.AttendanceEntry) AttendanceEntryDTO {
	return AttendanceEntryDTO{
		Date:       e.Date.Format("2006-01-02"),
		MorningIn:  punchDTO(e.MorningIn),
		LunchOut:   punchDTO(e.LunchOut),
		LunchIn:    punchDTO(e.LunchIn),
		EveningOut: punchDTO(e.EveningOut),
		Absent:     e.Absent,
		Holiday:    e.Holiday,
		RestDay:    e.RestDay,
	}
}

// =============================================================================
// COMPUTE
// =============================================================================

// PeriodDTO is an inclusive date window.
type PeriodDTO struct {
	Start string `json:"start"` // YYYY-MM-DD
	End   string `json:"end"`   // YYYY-MM-DD
}

// ToPeriod validates and converts the window.
func (d PeriodDTO) ToPeriod() (payroll.PayPeriod, error) {
	start, err := time.Parse("2006-01-02", d.Start)
	if err != nil {
		return payroll.PayPeriod{}, fmt.Errorf("invalid period start %q: %w", d.Start, err)
	}
	end, err := time.Parse("2006-01-02", d.End)
	if err != nil {
		return payroll.PayPeriod{}, fmt.Errorf("invalid period end %q: %w", d.End, err)
	}
	return payroll.NewPayPeriod(start, end)
}

// AllowancesDTO splits pass-through allowances by taxability.
type AllowancesDTO struct {
	Taxable    string `json:"taxable,omitempty"`
	NonTaxable string `json:"non_taxable,omitempty"`
}

// ComputeRequest is a one-shot computation from inline data.
// TableSetID selects a stored statutory table version; when empty the
// version effective at the period end is used, falling back to the
// built-in default tables.
type ComputeRequest struct {
	EmployeeID      string               `json:"employee_id,omitempty"` // set to persist the result
	Profile         ProfileDTO           `json:"profile"`
	Period          PeriodDTO            `json:"period"`
	Entries         []AttendanceEntryDTO `json:"entries"`
	Allowances      AllowancesDTO        `json:"allowances"`
	OtherDeductions string               `json:"other_deductions,omitempty"`
	TableSetID      string               `json:"table_set_id,omitempty"`
}

// ProfileDTO is a compensation profile in transit.
type ProfileDTO struct {
	RateType string `json:"rate_type"`
	BaseRate string `json:"base_rate"`
}

// ToProfile converts without validating: the engine owns profile
// validation so failures surface as per-employee configuration errors.
func (d ProfileDTO) ToProfile() (payroll.CompensationProfile, error) {
	rate, err := parseMoney(d.BaseRate)
	if err != nil {
		return payroll.CompensationProfile{}, fmt.Errorf("invalid base_rate: %w", err)
	}
	return payroll.CompensationProfile{
		RateType: payroll.RateType(d.RateType),
		BaseRate: rate,
	}, nil
}

// BatchComputeRequest computes stored employees over one window.
// Empty EmployeeIDs means every stored employee.
type BatchComputeRequest struct {
	Period      PeriodDTO `json:"period"`
	EmployeeIDs []string  `json:"employee_ids,omitempty"`
	TableSetID  string    `json:"table_set_id,omitempty"`
}

// =============================================================================
// RESULTS
// =============================================================================

// BreakdownDTO is the itemized payroll result.
type BreakdownDTO struct {
	HourlyRate        string `json:"hourly_rate"`
	MonthlyEquivalent string `json:"monthly_equivalent"`

	BasicPay     string `json:"basic_pay"`
	OvertimePay  string `json:"overtime_pay"`
	NightDiffPay string `json:"night_diff_pay"`
	HolidayPay   string `json:"holiday_pay"`
	Allowances   string `json:"allowances"`
	GrossPay     string `json:"gross_pay"`

	SocialInsurance string `json:"social_insurance"`
	HealthInsurance string `json:"health_insurance"`
	HousingFund     string `json:"housing_fund"`
	IncomeTax       string `json:"income_tax"`
	OtherDeductions string `json:"other_deductions"`
	TotalDeductions string `json:"total_deductions"`

	NetPay string `json:"net_pay"`

	Hours HoursDTO `json:"hours"`

	DataQualityFlags []string `json:"data_quality_flags,omitempty"`

	Trail string `json:"trail"`
}

// HoursDTO is the aggregated hour totals behind the earnings.
type HoursDTO struct {
	Regular          string `json:"regular"`
	Overtime         string `json:"overtime"`
	NightDiff        string `json:"night_diff"`
	Holiday          string `json:"holiday"`
	LateMinutes      int    `json:"late_minutes"`
	UndertimeMinutes int    `json:"undertime_minutes"`
	DaysWorked       int    `json:"days_worked"`
	DaysAbsent       int    `json:"days_absent"`
}

// FromBreakdown converts a core breakdown into its DTO.
func FromBreakdown(bd *payroll.PayrollBreakdown) BreakdownDTO {
	t := bd.Totals
	dto := BreakdownDTO{
		HourlyRate:        bd.HourlyRate.StringFixed(4),
		MonthlyEquivalent: bd.MonthlyEquivalent.StringFixed(2),
		BasicPay:          bd.BasicPay.StringFixed(2),
		OvertimePay:       bd.OvertimePay.StringFixed(2),
		NightDiffPay:      bd.NightDiffPay.StringFixed(2),
		HolidayPay:        bd.HolidayPay.StringFixed(2),
		Allowances:        bd.Allowances.Total().StringFixed(2),
		GrossPay:          bd.GrossPay.StringFixed(2),
		SocialInsurance:   bd.SocialInsurance.StringFixed(2),
		HealthInsurance:   bd.HealthInsurance.StringFixed(2),
		HousingFund:       bd.HousingFund.StringFixed(2),
		IncomeTax:         bd.IncomeTax.StringFixed(2),
		OtherDeductions:   bd.OtherDeductions.StringFixed(2),
		TotalDeductions:   bd.TotalDeductions.StringFixed(2),
		NetPay:            bd.NetPay.StringFixed(2),
		Hours: HoursDTO{
			Regular:          t.Regular.StringFixed(2),
			Overtime:         t.Overtime.StringFixed(2),
			NightDiff:        t.NightDiff.StringFixed(2),
			Holiday:          t.Holiday.StringFixed(2),
			LateMinutes:      t.LateMinutes,
			UndertimeMinutes: t.UndertimeMinutes,
			DaysWorked:       t.DaysWorked,
			DaysAbsent:       t.DaysAbsent,
		},
		Trail: bd.Trail,
	}
	for _, f := range t.Flags {
		dto.DataQualityFlags = append(dto.DataQualityFlags, f.String())
	}
	return dto
}

// BatchResultDTO is one employee's outcome in a batch run: a breakdown or
// an itemized error, never a generic failure.
type BatchResultDTO struct {
	EmployeeID string        `json:"employee_id"`
	Breakdown  *BreakdownDTO `json:"breakdown,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// PayslipDTO is a persisted result for audit display.
type PayslipDTO struct {
	EmployeeID  string `json:"employee_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Breakdown   string `json:"breakdown"` // breakdown JSON as stored
	Trail       string `json:"trail"`
	ComputedAt  string `json:"computed_at"`
}

// =============================================================================
// STATUTORY TABLES
// =============================================================================

// TableSetDTO represents a stored table-set version.
type TableSetDTO struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	EffectiveAt string               `json:"effective_at"`
	Config      *factory.TableSetJSON `json:"config,omitempty"`
	CreatedAt   string               `json:"created_at,omitempty"`
}

// CreateTableSetRequest stores a new table-set version.
type CreateTableSetRequest struct {
	ID     string              `json:"id"`
	Config factory.TableSetJSON `json:"config"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// HELPERS
// =============================================================================

// parseMoney parses an optional decimal string; empty means zero.
func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
