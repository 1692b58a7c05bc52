package timesheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/employee"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/payconfig"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/punch"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-overtime/internal/service/overtime"
)

// BucketCalculator prices one employee-day. *overtime.RateCalculator implements it.
type BucketCalculator interface {
	Calculate(date time.Time, spans []overtime.Span, cfg payconfig.PayConfig) (overtime.BucketResult, error)
}

// Options tunes the service. Zero values fall back to defaults.
type Options struct {
	// Location decides calendar days and the hour used for punch inference.
	Location *time.Location
	// Workers bounds how many employees are reconciled in parallel.
	Workers int
	// MaxRangeDays bounds the inclusive date range of one request; 0 disables the check.
	MaxRangeDays int
	Now          func() time.Time
}

type TimesheetServiceImpl struct {
	tx            timesheet.Transactor
	timesheetRepo timesheet.TimesheetRepository
	payConfigRepo payconfig.PayConfigRepository
	punchRepo     punch.PunchRepository
	employees     employee.EmployeeDirectory
	calculator    BucketCalculator

	loc          *time.Location
	workers      int
	maxRangeDays int
	now          func() time.Time
}

func NewTimesheetService(
	tx timesheet.Transactor,
	timesheetRepo timesheet.TimesheetRepository,
	payConfigRepo payconfig.PayConfigRepository,
	punchRepo punch.PunchRepository,
	employees employee.EmployeeDirectory,
	calculator BucketCalculator,
	opts Options,
) *TimesheetServiceImpl {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &TimesheetServiceImpl{
		tx:            tx,
		timesheetRepo: timesheetRepo,
		payConfigRepo: payConfigRepo,
		punchRepo:     punchRepo,
		employees:     employees,
		calculator:    calculator,
		loc:           opts.Location,
		workers:       opts.Workers,
		maxRangeDays:  opts.MaxRangeDays,
		now:           opts.Now,
	}
}

var _ timesheet.TimesheetService = (*TimesheetServiceImpl)(nil)

// CalculateDay implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) CalculateDay(ctx context.Context, employeeID string, workDate time.Time, force bool) (timesheet.DayResult, error) {
	cfg, err := loadConfig(ctx, s.payConfigRepo, employeeID)
	if err != nil {
		return timesheet.DayResult{Outcome: timesheet.OutcomeFailed}, err
	}
	return s.calculateDay(ctx, employeeID, calendar.DateIn(workDate, s.loc), cfg, force)
}

// Calculate implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Calculate(ctx context.Context, req timesheet.CalculateRequest) (timesheet.CalculateResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.CalculateResponse{}, err
	}
	if err := s.checkRange(req.From, req.To); err != nil {
		return timesheet.CalculateResponse{}, err
	}

	recReq := timesheet.ReconcileRequest{
		From:             req.From,
		To:               req.To,
		ForceRecalculate: req.ForceRecalculate != nil && *req.ForceRecalculate,
	}
	if req.EmployeeCode != nil {
		emp, err := s.employees.Resolve(ctx, *req.EmployeeCode)
		if err != nil {
			return timesheet.CalculateResponse{}, err
		}
		recReq.EmployeeIDs = []string{emp.ID}
	}

	result, err := s.Reconcile(ctx, recReq)
	if err != nil {
		return timesheet.CalculateResponse{}, err
	}
	return timesheet.ToCalculateResponse(result), nil
}

// ListTimesheets implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) ListTimesheets(ctx context.Context, filter timesheet.TimesheetFilter) (timesheet.ListTimesheetResponse, error) {
	if err := filter.Validate(); err != nil {
		return timesheet.ListTimesheetResponse{}, err
	}

	ledgerFilter, err := s.ledgerFilter(ctx, filter)
	if err != nil {
		return timesheet.ListTimesheetResponse{}, err
	}
	ledgerFilter.Limit = filter.Limit
	ledgerFilter.Offset = (filter.Page - 1) * filter.Limit

	days, total, err := s.timesheetRepo.List(ctx, ledgerFilter)
	if err != nil {
		return timesheet.ListTimesheetResponse{}, fmt.Errorf("failed to list timesheets: %w", err)
	}

	responses := make([]timesheet.TimesheetResponse, 0, len(days))
	for _, d := range days {
		responses = append(responses, timesheet.ToTimesheetResponse(d))
	}

	return timesheet.ListTimesheetResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Timesheets: responses,
	}, nil
}

func (s *TimesheetServiceImpl) ledgerFilter(ctx context.Context, filter timesheet.TimesheetFilter) (timesheet.LedgerFilter, error) {
	ledgerFilter := timesheet.LedgerFilter{From: filter.From, To: filter.To}
	if filter.EmployeeCode != nil {
		emp, err := s.employees.Resolve(ctx, *filter.EmployeeCode)
		if err != nil {
			return timesheet.LedgerFilter{}, err
		}
		ledgerFilter.EmployeeID = &emp.ID
	}
	return ledgerFilter, nil
}

func (s *TimesheetServiceImpl) checkRange(from, to time.Time) error {
	if to.Before(from) {
		return timesheet.ErrInvalidDateRange
	}
	if s.maxRangeDays <= 0 {
		return nil
	}
	days := int(to.Sub(from).Hours()/24) + 1
	if days > s.maxRangeDays {
		return fmt.Errorf("%w: %d days requested, at most %d allowed", timesheet.ErrDateRangeTooLarge, days, s.maxRangeDays)
	}
	return nil
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func logDayFailure(runID, employeeID string, day time.Time, err error) {
	slog.Error("timesheet day calculation failed",
		"run_id", runID,
		"employee_id", employeeID,
		"date", day.Format("2006-01-02"),
		"error", err,
	)
}
