package payconfig

import "context"

// PayConfigService is the config source exposed to the host application.
type PayConfigService interface {
	// GetPayConfig returns the configuration of the employee with the given code.
	GetPayConfig(ctx context.Context, employeeCode string) (PayConfigResponse, error)

	// UpsertPayConfig validates and stores a configuration.
	UpsertPayConfig(ctx context.Context, req UpsertPayConfigRequest) (PayConfigResponse, error)

	// ValidatePayConfig validates the stored configuration without changing it.
	ValidatePayConfig(ctx context.Context, employeeCode string) (ValidationResult, error)
}
