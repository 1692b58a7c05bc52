package employee

import (
	"context"
)

// EmployeeDirectory resolves employee codes to employees. Implementations may
// cache; Invalidate drops anything cached.
type EmployeeDirectory interface {
	// Resolve returns ErrEmployeeNotFound for unknown codes.
	Resolve(ctx context.Context, employeeCode string) (Employee, error)

	// All returns the employees that have a pay configuration.
	All(ctx context.Context) ([]Employee, error)

	Invalidate()
}
