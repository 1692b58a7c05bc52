package timesheet

import (
	"context"
	"time"
)

// TimesheetRepository is the ledger store.
type TimesheetRepository interface {
	// GetByEmployeeAndDate returns nil, nil when no row exists yet.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*TimesheetDay, error)

	GetByID(ctx context.Context, id string) (TimesheetDay, error)

	// Create returns ErrTimesheetDayExists on a duplicate (employee, date).
	Create(ctx context.Context, day TimesheetDay) (TimesheetDay, error)

	// Update applies a partial update. Engine writes (upd.OTEntryMode == nil)
	// return ErrTimesheetDayLocked when the stored row is locked.
	Update(ctx context.Context, id string, upd TimesheetDayUpdate) (TimesheetDay, error)

	// List returns rows in [filter.From, filter.To] ordered by employee and date.
	List(ctx context.Context, filter LedgerFilter) ([]TimesheetDay, int64, error)
}

// LedgerFilter is the repository-level filter; dates are already parsed.
type LedgerFilter struct {
	EmployeeID *string
	From       time.Time
	To         time.Time
	Limit      int // 0 means no limit
	Offset     int
}

// Transactor runs fn in one database transaction; repositories called with
// the ctx passed to fn take part in it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
