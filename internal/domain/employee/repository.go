package employee

import "context"

type EmployeeRepository interface {
	// GetByEmployeeCode returns ErrEmployeeNotFound for unknown or deleted employees.
	GetByEmployeeCode(ctx context.Context, employeeCode string) (Employee, error)

	// ListWithPayConfig returns the active employees that have a pay configuration.
	ListWithPayConfig(ctx context.Context) ([]Employee, error)
}
