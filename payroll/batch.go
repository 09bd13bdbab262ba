/*
batch.go - Concurrent batch computation across employees

PURPOSE:
  A payroll run covers many employees, and each employee's computation is
  a pure function of its own inputs: no shared mutable state, no ordering
  requirement. The batch runner fans out one goroutine per employee and
  collects results by index.

FAILURE ISOLATION:
  One employee's configuration error never aborts the batch. Failures are
  itemized per employee via EmployeeError so the caller can report a clear
  reason for each, never a generic "computation failed".
*/
package payroll

import "sync"

// BatchItem pairs an employee identifier with their computation input.
type BatchItem struct {
	EmployeeID string
	Input      ComputeInput
}

// BatchResult is one employee's outcome: a breakdown or an itemized error,
// never both.
type BatchResult struct {
	EmployeeID string
	Breakdown  *PayrollBreakdown
	Err        error
}

// ComputeBatch computes all items concurrently. Results are returned in
// input order regardless of completion order.
func (e *Engine) ComputeBatch(items []BatchItem) []BatchResult {
	results := make([]BatchResult, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item BatchItem) {
			defer wg.Done()
			bd, err := e.Compute(item.Input)
			if err != nil {
				err = &EmployeeError{EmployeeID: item.EmployeeID, Err: err}
			}
			results[i] = BatchResult{EmployeeID: item.EmployeeID, Breakdown: bd, Err: err}
		}(i, item)
	}
	wg.Wait()

	return results
}
