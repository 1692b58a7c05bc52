package punch

import (
	"context"
	"time"
)

// PunchRepository is the read-only punch source.
type PunchRepository interface {
	// ListByEmployeeAndRange returns the punches of employeeID with
	// from <= timestamp < to, ordered by timestamp ascending.
	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]PunchRecord, error)
}
