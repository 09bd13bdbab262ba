/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll computation engine via REST API. Handles HTTP
  request/response, JSON serialization, input loading from the store,
  and result persistence. All computation happens in the payroll core.

ENDPOINTS:
  Payroll:
    POST   /api/payroll/compute         One-shot compute from inline data
    POST   /api/payroll/batch           Concurrent batch over stored employees

  Employees:
    GET    /api/employees               List all employees
    POST   /api/employees               Create employee
    GET    /api/employees/{id}          Get employee
    POST   /api/employees/{id}/attendance  Upsert attendance entries
    GET    /api/employees/{id}/attendance  List entries in a window

  Statutory tables:
    GET    /api/tables                  List table-set versions
    POST   /api/tables                  Store a table-set version
    GET    /api/tables/{id}             Get one version

  Payslips:
    GET    /api/payslips/{employeeID}   Persisted results incl. trail

TABLE SELECTION:
  Compute requests may name a table_set_id. Otherwise the version
  effective at the period end is used; with nothing stored, the built-in
  default tables apply. The engine always receives the already-selected
  set - it never does effective-date lookups itself.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 422: Configuration errors (invalid compensation profile)
  - 500: Internal errors
  Batch failures are itemized per employee in a 200 response.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/statutory"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Factory *factory.TableFactory
	Config  payroll.Config
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:   store,
		Factory: factory.NewTableFactory(),
		Config:  payroll.DefaultConfig(),
	}
}

// engineFor selects the statutory tables for a request and builds an engine.
// Selection order: explicit table_set_id, then the stored version effective
// at the period end, then the built-in defaults.
func (h *Handler) engineFor(r *http.Request, tableSetID string, periodEnd time.Time) (*payroll.Engine, error) {
	var rec *sqlite.TableSetRecord
	var err error

	if tableSetID != "" {
		rec, err = h.Store.GetTableSet(r.Context(), tableSetID)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, fmt.Errorf("table set %q not found", tableSetID)
		}
	} else {
		rec, err = h.Store.TableSetAsOf(r.Context(), periodEnd)
		if err != nil {
			return nil, err
		}
	}

	tables := statutory.DefaultTableSet()
	if rec != nil {
		parsed, err := h.Factory.ParseTableSet(rec.ConfigJSON)
		if err != nil {
			return nil, fmt.Errorf("stored table set %q is invalid: %w", rec.ID, err)
		}
		tables = *parsed
	}

	engine := payroll.NewEngine(tables)
	engine.Config = h.Config
	return engine, nil
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// ComputePayroll runs one computation from inline data.
// POST /api/payroll/compute
func (h *Handler) ComputePayroll(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	input, err := h.buildComputeInput(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid compute request", err)
		return
	}

	engine, err := h.engineFor(r, req.TableSetID, input.Period.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Table selection failed", err)
		return
	}

	bd, err := engine.Compute(*input)
	if err != nil {
		if errors.Is(err, payroll.ErrInvalidProfile) {
			writeError(w, http.StatusUnprocessableEntity, "Invalid compensation profile", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Computation failed", err)
		return
	}

	dto := FromBreakdown(bd)

	// Persisting is opt-in: only requests tied to a stored employee leave
	// a payslip record behind.
	if req.EmployeeID != "" {
		if err := h.saveResult(r, req.EmployeeID, input.Period, dto, bd.Trail); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to persist result", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, dto)
}

// BatchPayroll computes stored employees concurrently over one window.
// POST /api/payroll/batch
func (h *Handler) BatchPayroll(w http.ResponseWriter, r *http.Request) {
	var req BatchComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	period, err := req.Period.ToPeriod()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	engine, err := h.engineFor(r, req.TableSetID, period.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Table selection failed", err)
		return
	}

	employees, err := h.loadBatchEmployees(r, req.EmployeeIDs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load employees", err)
		return
	}

	items := make([]payroll.BatchItem, 0, len(employees))
	for _, emp := range employees {
		entries, err := h.Store.ListAttendance(r.Context(), emp.ID, period)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load attendance", err)
			return
		}
		items = append(items, payroll.BatchItem{
			EmployeeID: emp.ID,
			Input: payroll.ComputeInput{
				Profile: emp.Profile,
				Period:  period,
				Entries: entries,
			},
		})
	}

	results := engine.ComputeBatch(items)

	dtos := make([]BatchResultDTO, len(results))
	for i, res := range results {
		dtos[i] = BatchResultDTO{EmployeeID: res.EmployeeID}
		if res.Err != nil {
			dtos[i].Error = res.Err.Error()
			continue
		}
		bd := FromBreakdown(res.Breakdown)
		dtos[i].Breakdown = &bd
		if err := h.saveResult(r, res.EmployeeID, period, bd, res.Breakdown.Trail); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to persist results", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, dtos)
}

// buildComputeInput converts the inline request into a core input.
func (h *Handler) buildComputeInput(req ComputeRequest) (*payroll.ComputeInput, error) {
	profile, err := req.Profile.ToProfile()
	if err != nil {
		return nil, err
	}
	period, err := req.Period.ToPeriod()
	if err != nil {
		return nil, err
	}

	entries := make([]payroll.AttendanceEntry, 0, len(req.Entries))
	for _, dto := range req.Entries {
		entry, err := dto.ToEntry()
		if err != nil {
			return nil, err
		}
		if !period.Contains(entry.Date) {
			return nil, fmt.Errorf("entry %s is outside the period %s", entry.Date.Format("2006-01-02"), period)
		}
		entries = append(entries, entry)
	}

	taxable, err := parseMoney(req.Allowances.Taxable)
	if err != nil {
		return nil, fmt.Errorf("invalid taxable allowance: %w", err)
	}
	nonTaxable, err := parseMoney(req.Allowances.NonTaxable)
	if err != nil {
		return nil, fmt.Errorf("invalid non-taxable allowance: %w", err)
	}
	other, err := parseMoney(req.OtherDeductions)
	if err != nil {
		return nil, fmt.Errorf("invalid other_deductions: %w", err)
	}

	return &payroll.ComputeInput{
		Profile:         profile,
		Period:          period,
		Entries:         entries,
		Allowances:      payroll.Allowances{Taxable: taxable, NonTaxable: nonTaxable},
		OtherDeductions: other,
	}, nil
}

func (h *Handler) loadBatchEmployees(r *http.Request, ids []string) ([]sqlite.Employee, error) {
	if len(ids) == 0 {
		return h.Store.ListEmployees(r.Context())
	}
	employees := make([]sqlite.Employee, 0, len(ids))
	for _, id := range ids {
		emp, err := h.Store.GetEmployee(r.Context(), id)
		if err != nil {
			return nil, err
		}
		if emp == nil {
			return nil, fmt.Errorf("employee %q not found", id)
		}
		employees = append(employees, *emp)
	}
	return employees, nil
}

func (h *Handler) saveResult(r *http.Request, employeeID string, period payroll.PayPeriod, dto BreakdownDTO, trail string) error {
	breakdownJSON, err := json.Marshal(dto)
	if err != nil {
		return err
	}
	return h.Store.SavePayrollResult(r.Context(), sqlite.PayrollResult{
		EmployeeID:    employeeID,
		PeriodStart:   period.Start,
		PeriodEnd:     period.End,
		BreakdownJSON: string(breakdownJSON),
		Trail:         trail,
	})
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = employeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
// GET /api/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, employeeDTO(*emp))
}

// CreateEmployee creates a new employee. The compensation profile is
// validated on write so a bad rate type is caught at entry, not at the
// first payroll run.
// POST /api/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "Employee id is required", nil)
		return
	}

	profile, err := ProfileDTO{RateType: req.RateType, BaseRate: req.BaseRate}.ToProfile()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid compensation profile", err)
		return
	}
	if err := profile.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid compensation profile", err)
		return
	}

	emp := sqlite.Employee{ID: req.ID, Name: req.Name, Profile: profile}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, employeeDTO(emp))
}

// SaveAttendance upserts attendance entries for an employee.
// POST /api/employees/{id}/attendance
func (h *Handler) SaveAttendance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	var dtos []AttendanceEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dtos); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	for _, dto := range dtos {
		entry, err := dto.ToEntry()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid attendance entry", err)
			return
		}
		if err := h.Store.SaveAttendance(r.Context(), id, entry); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save attendance", err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, map[string]int{"saved": len(dtos)})
}

// ListAttendance returns the entries for a window.
// GET /api/employees/{id}/attendance?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	period, err := PeriodDTO{
		Start: r.URL.Query().Get("start"),
		End:   r.URL.Query().Get("end"),
	}.ToPeriod()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period query", err)
		return
	}

	entries, err := h.Store.ListAttendance(r.Context(), id, period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list attendance", err)
		return
	}

	dtos := make([]AttendanceEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = FromEntry(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func employeeDTO(e sqlite.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:       e.ID,
		Name:     e.Name,
		RateType: string(e.Profile.RateType),
		BaseRate: e.Profile.BaseRate.StringFixed(2),
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// STATUTORY TABLE HANDLERS
// =============================================================================

// ListTableSets returns all stored table-set versions (without configs).
// GET /api/tables
func (h *Handler) ListTableSets(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListTableSets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list table sets", err)
		return
	}

	dtos := make([]TableSetDTO, len(records))
	for i, rec := range records {
		dtos[i] = TableSetDTO{
			ID:          rec.ID,
			Name:        rec.Name,
			EffectiveAt: rec.EffectiveAt.Format("2006-01-02"),
			CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTableSet returns one stored version including its config.
// GET /api/tables/{id}
func (h *Handler) GetTableSet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetTableSet(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get table set", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Table set not found", nil)
		return
	}

	var config factory.TableSetJSON
	if err := json.Unmarshal([]byte(rec.ConfigJSON), &config); err != nil {
		writeError(w, http.StatusInternalServerError, "Stored config is corrupt", err)
		return
	}

	writeJSON(w, http.StatusOK, TableSetDTO{
		ID:          rec.ID,
		Name:        rec.Name,
		EffectiveAt: rec.EffectiveAt.Format("2006-01-02"),
		Config:      &config,
		CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
	})
}

// CreateTableSet validates and stores a table-set version.
// POST /api/tables
func (h *Handler) CreateTableSet(w http.ResponseWriter, r *http.Request) {
	var req CreateTableSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "Table set id is required", nil)
		return
	}

	// Full round-trip through the factory so only valid tables are stored.
	ts, err := h.Factory.BuildTableSet(req.Config)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid table set", err)
		return
	}
	configJSON, err := h.Factory.RenderTableSet(*ts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render table set", err)
		return
	}

	rec := sqlite.TableSetRecord{
		ID:          req.ID,
		Name:        ts.Name,
		EffectiveAt: ts.EffectiveAt,
		ConfigJSON:  configJSON,
	}
	if err := h.Store.SaveTableSet(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save table set", err)
		return
	}

	writeJSON(w, http.StatusCreated, TableSetDTO{
		ID:          rec.ID,
		Name:        rec.Name,
		EffectiveAt: rec.EffectiveAt.Format("2006-01-02"),
	})
}

// =============================================================================
// PAYSLIP HANDLERS
// =============================================================================

// ListPayslips returns an employee's persisted results.
// GET /api/payslips/{employeeID}
func (h *Handler) ListPayslips(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	results, err := h.Store.ListPayrollResults(r.Context(), employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payslips", err)
		return
	}

	dtos := make([]PayslipDTO, len(results))
	for i, res := range results {
		dtos[i] = PayslipDTO{
			EmployeeID:  res.EmployeeID,
			PeriodStart: res.PeriodStart.Format("2006-01-02"),
			PeriodEnd:   res.PeriodEnd.Format("2006-01-02"),
			Breakdown:   res.BreakdownJSON,
			Trail:       res.Trail,
			ComputedAt:  res.ComputedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
