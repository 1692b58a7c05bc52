package timesheet

import (
	"errors"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/payconfig"
)

var (
	// Batch error taxonomy
	ErrConfigurationInvalid = errors.New("pay configuration is invalid")
	ErrConfigurationMissing = payconfig.ErrPayConfigNotFound
	ErrCalculationFailure   = errors.New("timesheet calculation failed")

	// Ledger errors
	ErrTimesheetDayNotFound = errors.New("timesheet day not found")
	ErrTimesheetDayExists   = errors.New("timesheet day already exists for this employee and date")
	ErrTimesheetDayLocked   = errors.New("timesheet day is locked by a manual entry")

	// Request errors
	ErrInvalidDateRange  = errors.New("from date must not be after to date")
	ErrDateRangeTooLarge = errors.New("date range is too large")
	ErrNoEmployees       = errors.New("no employees with a pay configuration")
)
