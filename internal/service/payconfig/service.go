package payconfig

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/employee"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/payconfig"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-overtime/internal/service/overtime"
)

type PayConfigServiceImpl struct {
	payConfigRepo payconfig.PayConfigRepository
	employees     employee.EmployeeDirectory
}

func NewPayConfigService(
	payConfigRepo payconfig.PayConfigRepository,
	employees employee.EmployeeDirectory,
) payconfig.PayConfigService {
	return &PayConfigServiceImpl{
		payConfigRepo: payConfigRepo,
		employees:     employees,
	}
}

// GetPayConfig implements payconfig.PayConfigService.
func (s *PayConfigServiceImpl) GetPayConfig(ctx context.Context, employeeCode string) (payconfig.PayConfigResponse, error) {
	cfg, err := s.get(ctx, employeeCode)
	if err != nil {
		return payconfig.PayConfigResponse{}, err
	}
	return payconfig.ToResponse(cfg), nil
}

// UpsertPayConfig implements payconfig.PayConfigService. Configurations that
// fail the pay rules are rejected and never stored.
func (s *PayConfigServiceImpl) UpsertPayConfig(ctx context.Context, req payconfig.UpsertPayConfigRequest) (payconfig.PayConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return payconfig.PayConfigResponse{}, err
	}

	emp, err := s.employees.Resolve(ctx, req.EmployeeCode)
	if err != nil {
		return payconfig.PayConfigResponse{}, err
	}

	cfg := req.ToEntity(emp.ID)
	if res := overtime.Validate(cfg); !res.Valid {
		return payconfig.PayConfigResponse{}, toValidationErrors(res)
	}

	saved, err := s.payConfigRepo.Upsert(ctx, cfg)
	if err != nil {
		return payconfig.PayConfigResponse{}, fmt.Errorf("failed to save pay configuration: %w", err)
	}
	saved.EmployeeCode = emp.EmployeeCode

	// The set of employees with a configuration may have changed.
	s.employees.Invalidate()

	slog.Info("pay configuration saved", "employee_id", emp.ID, "employee_code", emp.EmployeeCode, "pay_type", string(saved.PayType))
	return payconfig.ToResponse(saved), nil
}

// ValidatePayConfig implements payconfig.PayConfigService.
func (s *PayConfigServiceImpl) ValidatePayConfig(ctx context.Context, employeeCode string) (payconfig.ValidationResult, error) {
	cfg, err := s.get(ctx, employeeCode)
	if err != nil {
		return payconfig.ValidationResult{}, err
	}
	return overtime.Validate(cfg), nil
}

func (s *PayConfigServiceImpl) get(ctx context.Context, employeeCode string) (payconfig.PayConfig, error) {
	emp, err := s.employees.Resolve(ctx, employeeCode)
	if err != nil {
		return payconfig.PayConfig{}, err
	}

	cfg, err := s.payConfigRepo.GetByEmployeeID(ctx, emp.ID)
	if err != nil {
		return payconfig.PayConfig{}, err
	}
	cfg.EmployeeCode = emp.EmployeeCode
	return cfg, nil
}

// toValidationErrors maps rule messages onto the field they start with.
func toValidationErrors(res payconfig.ValidationResult) validator.ValidationErrors {
	errs := make(validator.ValidationErrors, 0, len(res.Errors))
	for _, msg := range res.Errors {
		field, _, _ := strings.Cut(msg, " ")
		errs = append(errs, validator.ValidationError{Field: field, Message: msg})
	}
	return errs
}
