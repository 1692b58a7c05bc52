package timesheet

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryMode records who owns the financial fields of a ledger row.
// The engine only ever writes rows whose mode is empty or auto.
type EntryMode string

const (
	EntryModeAuto     EntryMode = "auto"
	EntryModeManual   EntryMode = "manual"
	EntryModeAdjusted EntryMode = "adjusted"
)

// Calculation holds the fields the engine derives for one employee-day.
type Calculation struct {
	IsWeekend    bool
	DayOfWeek    string
	FirstPunchIn *time.Time
	LastPunchOut *time.Time

	RegularMinutes     int
	WeekdayOTMinutes   int
	WeekendOTMinutes   int
	TotalWorkedMinutes int

	RegularPay   decimal.Decimal
	WeekdayOTPay decimal.Decimal
	WeekendOTPay decimal.Decimal
	TotalPay     decimal.Decimal

	HourlyRateRegular   decimal.Decimal
	HourlyRateWeekdayOT decimal.Decimal
	HourlyRateWeekendOT decimal.Decimal
}

// TimesheetDay is the ledger row of one employee on one calendar date.
type TimesheetDay struct {
	ID         string
	EmployeeID string
	WorkDate   time.Time

	Calculation

	IsCalculated     bool
	CalculationError *string
	OTEntryMode      *EntryMode
	AdjustmentNote   *string
	CalculatedAt     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined fields
	EmployeeCode *string
}

// IsLocked reports whether an override mode protects the row from recalculation.
func (d TimesheetDay) IsLocked() bool {
	return d.OTEntryMode != nil && *d.OTEntryMode != "" && *d.OTEntryMode != EntryModeAuto
}

// TimesheetDayUpdate is a partial update of a ledger row.
type TimesheetDayUpdate struct {
	// Result replaces every derived field when set.
	Result *Calculation

	IsCalculated     bool
	CalculationError *string   // nil clears the column
	CalculatedAt     *time.Time // nil leaves the column unchanged

	// OTEntryMode is only set by manual adjustments. Updates without it are
	// engine writes and never touch a locked row.
	OTEntryMode    *EntryMode
	AdjustmentNote *string
}

// Outcome is how one employee-day ended in a reconcile run.
type Outcome string

const (
	OutcomeCalculated Outcome = "calculated"
	OutcomeUnchanged  Outcome = "unchanged"
	OutcomeLocked     Outcome = "locked"
	OutcomeFailed     Outcome = "failed"
)

// DayResult is the row an employee-day ended with, plus how it got there.
type DayResult struct {
	Day     TimesheetDay
	Outcome Outcome
}

// ErrorKind classifies a batch error entry.
type ErrorKind string

const (
	ErrorKindConfigurationInvalid ErrorKind = "configuration_invalid"
	ErrorKindConfigurationMissing ErrorKind = "configuration_missing"
	ErrorKindCalculationFailure   ErrorKind = "calculation_failure"
)

// ReconcileError is one entry of the batch error report.
type ReconcileError struct {
	Kind       ErrorKind
	EmployeeID string
	Date       *time.Time // nil for employee-level errors
	Message    string
}

func (e ReconcileError) Error() string {
	if e.Date != nil {
		return "employee " + e.EmployeeID + " on " + e.Date.Format("2006-01-02") + ": " + e.Message
	}
	return "employee " + e.EmployeeID + ": " + e.Message
}

// ReconcileRequest drives one batch run over [From, To].
type ReconcileRequest struct {
	EmployeeIDs      []string // empty means every employee with a pay configuration
	From             time.Time
	To               time.Time
	ForceRecalculate bool
}

// ReconcileResult is the batch-level report. DaysCalculated counts every
// employee-day that did not fail; DaysUnchanged and DaysLocked are subsets of it.
type ReconcileResult struct {
	RunID          string
	DaysCalculated int
	DaysFailed     int
	DaysUnchanged  int
	DaysLocked     int
	Errors         []ReconcileError
}

// Merge folds o into r.
func (r *ReconcileResult) Merge(o ReconcileResult) {
	r.DaysCalculated += o.DaysCalculated
	r.DaysFailed += o.DaysFailed
	r.DaysUnchanged += o.DaysUnchanged
	r.DaysLocked += o.DaysLocked
	r.Errors = append(r.Errors, o.Errors...)
}

// Record counts one finished employee-day.
func (r *ReconcileResult) Record(outcome Outcome) {
	switch outcome {
	case OutcomeFailed:
		r.DaysFailed++
		return
	case OutcomeUnchanged:
		r.DaysUnchanged++
	case OutcomeLocked:
		r.DaysLocked++
	}
	r.DaysCalculated++
}

// WeeklySummary is the per-employee total of one configured week.
type WeeklySummary struct {
	EmployeeID         string
	WeekStart          time.Time
	WeekEnd            time.Time
	Days               int
	RegularMinutes     int
	WeekdayOTMinutes   int
	WeekendOTMinutes   int
	TotalWorkedMinutes int
	RegularPay         decimal.Decimal
	WeekdayOTPay       decimal.Decimal
	WeekendOTPay       decimal.Decimal
	TotalPay           decimal.Decimal
}
