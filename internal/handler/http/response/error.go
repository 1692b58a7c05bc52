package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/auth"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/employee"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/payconfig"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Pay config domain errors
	case errors.Is(err, payconfig.ErrPayConfigNotFound):
		NotFound(w, "Pay configuration not found")
	case errors.Is(err, payconfig.ErrPayConfigInvalid):
		BadRequest(w, err.Error(), nil)

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrTimesheetDayNotFound):
		NotFound(w, "Timesheet day not found")
	case errors.Is(err, timesheet.ErrTimesheetDayExists):
		Conflict(w, "Timesheet day already exists")
	case errors.Is(err, timesheet.ErrTimesheetDayLocked):
		Locked(w, "Timesheet day is locked by a manual entry")
	case errors.Is(err, timesheet.ErrInvalidDateRange),
		errors.Is(err, timesheet.ErrDateRangeTooLarge),
		errors.Is(err, timesheet.ErrConfigurationInvalid):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, timesheet.ErrNoEmployees):
		NotFound(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
