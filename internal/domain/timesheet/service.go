package timesheet

import (
	"context"
	"time"
)

// TimesheetService is the reconciliation engine plus the ledger reads built on it.
type TimesheetService interface {
	// Reconcile calculates every employee-day in the request. One day's failure
	// never aborts the batch; the returned error is only set when the batch
	// could not start or the context was cancelled (the partial result is
	// still returned).
	Reconcile(ctx context.Context, req ReconcileRequest) (ReconcileResult, error)

	// CalculateDay calculates a single employee-day with the stored configuration.
	CalculateDay(ctx context.Context, employeeID string, workDate time.Time, force bool) (DayResult, error)

	// Calculate is the host-facing variant of Reconcile taking employee codes and date strings.
	Calculate(ctx context.Context, req CalculateRequest) (CalculateResponse, error)

	ListTimesheets(ctx context.Context, filter TimesheetFilter) (ListTimesheetResponse, error)

	WeeklySummary(ctx context.Context, filter TimesheetFilter) ([]WeeklySummaryResponse, error)

	AdjustDay(ctx context.Context, req AdjustTimesheetRequest) (TimesheetResponse, error)
}
