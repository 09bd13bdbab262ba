/*
errors.go - Centralized error types for the payroll core

PURPOSE:
  All error types in one place for consistency and discoverability.
  The serving layer wraps these with transport context.

ERROR CATEGORIES:
  1. Configuration errors - Invalid compensation profile; fatal per employee
  2. Period errors        - Malformed pay-period windows
  3. Table errors         - Malformed statutory tables handed to the engine

Data-quality problems (missing punches, punch-out before punch-in) are NOT
errors: they become DataQualityFlag values embedded in the output so the
period computation always proceeds.

USAGE:
  Callers distinguish fatal configuration failures with errors.Is/As:

    if errors.Is(err, payroll.ErrInvalidProfile) {
        // report per-employee failure, keep the batch going
    }
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidProfile is returned when the compensation profile fails
	// validation. Fatal for the employee's computation; no partial result.
	ErrInvalidProfile = errors.New("invalid compensation profile")

	// ErrInvalidPeriod is returned when a pay period is malformed
	// (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrMissingTables is returned when the engine is invoked without a
	// statutory table set.
	ErrMissingTables = errors.New("statutory table set required")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConfigurationError reports an invalid compensation profile field.
// The detail is user-visible: batch callers surface it per employee,
// never a generic "computation failed".
type ConfigurationError struct {
	Field  string
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Detail)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidProfile
}

// EmployeeError wraps a computation failure with the employee it belongs
// to. Used by the batch runner so one employee's failure stays itemized
// and does not abort the batch.
type EmployeeError struct {
	EmployeeID string
	Err        error
}

func (e *EmployeeError) Error() string {
	return fmt.Sprintf("employee %s: %v", e.EmployeeID, e.Err)
}

func (e *EmployeeError) Unwrap() error {
	return e.Err
}
