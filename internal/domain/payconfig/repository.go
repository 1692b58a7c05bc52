package payconfig

import "context"

// PayConfigRepository defines data access for pay configurations.
type PayConfigRepository interface {
	// GetByEmployeeID returns ErrPayConfigNotFound when the employee has no configuration.
	GetByEmployeeID(ctx context.Context, employeeID string) (PayConfig, error)

	// Upsert creates or replaces the configuration of cfg.EmployeeID.
	Upsert(ctx context.Context, cfg PayConfig) (PayConfig, error)
}
