package timesheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/payconfig"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-overtime/internal/service/overtime"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Reconcile implements timesheet.TimesheetService.
//
// Employees are reconciled in parallel, up to the configured number of
// workers; the days of one employee are processed in order by one worker.
// Per-employee results are merged in request order.
func (s *TimesheetServiceImpl) Reconcile(ctx context.Context, req timesheet.ReconcileRequest) (timesheet.ReconcileResult, error) {
	result := timesheet.ReconcileResult{RunID: uuid.NewString()}

	days := calendar.Days(calendar.DateIn(req.From, s.loc), calendar.DateIn(req.To, s.loc))
	if len(days) == 0 {
		return result, timesheet.ErrInvalidDateRange
	}

	employeeIDs := req.EmployeeIDs
	if len(employeeIDs) == 0 {
		employees, err := s.employees.All(ctx)
		if err != nil {
			return result, err
		}
		for _, emp := range employees {
			employeeIDs = append(employeeIDs, emp.ID)
		}
	}
	if len(employeeIDs) == 0 {
		return result, timesheet.ErrNoEmployees
	}

	slog.Info("timesheet reconcile started",
		"run_id", result.RunID,
		"employees", len(employeeIDs),
		"from", days[0].Format("2006-01-02"),
		"to", days[len(days)-1].Format("2006-01-02"),
		"force", req.ForceRecalculate,
	)
	started := s.now()

	configs := newConfigCache(s.payConfigRepo)
	partials := make([]timesheet.ReconcileResult, len(employeeIDs))

	var g errgroup.Group
	g.SetLimit(s.workers)
	var interrupted error
	for i, employeeID := range employeeIDs {
		if interrupted = ctx.Err(); interrupted != nil {
			break
		}
		g.Go(func() error {
			partial, err := s.reconcileEmployee(ctx, result.RunID, employeeID, days, configs, req.ForceRecalculate)
			partials[i] = partial
			return err
		})
	}
	err := g.Wait()
	if err == nil {
		err = interrupted
	}

	for _, partial := range partials {
		result.Merge(partial)
	}

	attrs := []any{
		"run_id", result.RunID,
		"days_calculated", result.DaysCalculated,
		"days_failed", result.DaysFailed,
		"days_unchanged", result.DaysUnchanged,
		"days_locked", result.DaysLocked,
		"errors", len(result.Errors),
		"duration", s.now().Sub(started).String(),
	}
	if err != nil {
		slog.Warn("timesheet reconcile interrupted", append(attrs, "error", err)...)
		return result, err
	}
	slog.Info("timesheet reconcile finished", attrs...)
	return result, nil
}

func (s *TimesheetServiceImpl) reconcileEmployee(
	ctx context.Context,
	runID, employeeID string,
	days []time.Time,
	configs *configCache,
	force bool,
) (timesheet.ReconcileResult, error) {
	var result timesheet.ReconcileResult

	cfg, err := configs.get(ctx, employeeID)
	if err != nil {
		if isContextError(err) && ctx.Err() != nil {
			return result, ctx.Err()
		}
		slog.Warn("skipping employee",
			"run_id", runID,
			"employee_id", employeeID,
			"error", err,
		)
		result.Errors = append(result.Errors, timesheet.ReconcileError{
			Kind:       configErrorKind(err),
			EmployeeID: employeeID,
			Message:    err.Error(),
		})
		return result, nil
	}

	for _, day := range days {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		dayResult, err := s.calculateDay(ctx, employeeID, day, cfg, force)
		if err != nil && isContextError(err) && ctx.Err() != nil {
			return result, ctx.Err()
		}

		result.Record(dayResult.Outcome)
		if err != nil {
			logDayFailure(runID, employeeID, day, err)
			date := day
			result.Errors = append(result.Errors, timesheet.ReconcileError{
				Kind:       timesheet.ErrorKindCalculationFailure,
				EmployeeID: employeeID,
				Date:       &date,
				Message:    err.Error(),
			})
		}
	}
	return result, nil
}

// calculateDay brings the ledger row of (employeeID, day) up to date. day is
// midnight in the business location. Every call ends in exactly one outcome;
// the error is only set for OutcomeFailed and wraps ErrCalculationFailure.
func (s *TimesheetServiceImpl) calculateDay(ctx context.Context, employeeID string, day time.Time, cfg payconfig.PayConfig, force bool) (timesheet.DayResult, error) {
	failed := timesheet.DayResult{Outcome: timesheet.OutcomeFailed}

	existing, err := s.timesheetRepo.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return failed, fmt.Errorf("%w: %w", timesheet.ErrCalculationFailure, err)
	}

	if existing != nil && existing.IsCalculated && !force {
		return timesheet.DayResult{Day: *existing, Outcome: timesheet.OutcomeUnchanged}, nil
	}
	// A locked row is returned as is, even when the calculation would fail.
	if existing != nil && existing.IsLocked() {
		slog.Debug("timesheet day is locked", "employee_id", employeeID, "date", day.Format("2006-01-02"))
		return timesheet.DayResult{Day: *existing, Outcome: timesheet.OutcomeLocked}, nil
	}

	calc, calcErr := s.compute(ctx, employeeID, day, cfg)

	var saved timesheet.TimesheetDay
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		if calcErr != nil {
			saved, err = s.saveFailure(txCtx, employeeID, day, cfg, existing, calcErr)
		} else {
			saved, err = s.saveCalculation(txCtx, employeeID, day, existing, calc)
		}
		return err
	})

	if errors.Is(err, timesheet.ErrTimesheetDayLocked) {
		// Locked by an adjustment between our read and write.
		if existing != nil {
			if row, getErr := s.timesheetRepo.GetByID(ctx, existing.ID); getErr == nil {
				return timesheet.DayResult{Day: row, Outcome: timesheet.OutcomeLocked}, nil
			}
			return timesheet.DayResult{Day: *existing, Outcome: timesheet.OutcomeLocked}, nil
		}
		return timesheet.DayResult{Outcome: timesheet.OutcomeLocked}, nil
	}
	if err != nil {
		if calcErr != nil {
			return failed, fmt.Errorf("%w: %w (recording the failure also failed: %v)", timesheet.ErrCalculationFailure, calcErr, err)
		}
		return failed, fmt.Errorf("%w: %w", timesheet.ErrCalculationFailure, err)
	}

	if calcErr != nil {
		return timesheet.DayResult{Day: saved, Outcome: timesheet.OutcomeFailed}, fmt.Errorf("%w: %w", timesheet.ErrCalculationFailure, calcErr)
	}
	return timesheet.DayResult{Day: saved, Outcome: timesheet.OutcomeCalculated}, nil
}

// compute derives the calculated fields of one day from its punches. Panics in
// the calculation are reported as errors so one bad day cannot stop a batch.
func (s *TimesheetServiceImpl) compute(ctx context.Context, employeeID string, day time.Time, cfg payconfig.PayConfig) (calc timesheet.Calculation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("calculation panicked: %v", r)
		}
	}()

	records, err := s.punchRepo.ListByEmployeeAndRange(ctx, employeeID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return timesheet.Calculation{}, fmt.Errorf("failed to fetch punches: %w", err)
	}

	built := overtime.BuildSpans(overtime.InferPunches(records, s.loc))

	res, err := s.calculator.Calculate(day, built.Spans, cfg)
	if err != nil {
		return timesheet.Calculation{}, err
	}

	return timesheet.Calculation{
		IsWeekend:           res.IsWeekend,
		DayOfWeek:           res.DayOfWeek,
		FirstPunchIn:        built.FirstPunchIn,
		LastPunchOut:        built.LastPunchOut,
		RegularMinutes:      res.RegularMinutes,
		WeekdayOTMinutes:    res.WeekdayOTMinutes,
		WeekendOTMinutes:    res.WeekendOTMinutes,
		TotalWorkedMinutes:  res.TotalWorkedMinutes,
		RegularPay:          res.RegularPay,
		WeekdayOTPay:        res.WeekdayOTPay,
		WeekendOTPay:        res.WeekendOTPay,
		TotalPay:            res.TotalPay,
		HourlyRateRegular:   res.Rates.Regular,
		HourlyRateWeekdayOT: res.Rates.WeekdayOT,
		HourlyRateWeekendOT: res.Rates.WeekendOT,
	}, nil
}

func (s *TimesheetServiceImpl) saveCalculation(ctx context.Context, employeeID string, day time.Time, existing *timesheet.TimesheetDay, calc timesheet.Calculation) (timesheet.TimesheetDay, error) {
	now := s.now()

	if existing == nil {
		auto := timesheet.EntryModeAuto
		created, err := s.timesheetRepo.Create(ctx, timesheet.TimesheetDay{
			EmployeeID:   employeeID,
			WorkDate:     day,
			Calculation:  calc,
			IsCalculated: true,
			OTEntryMode:  &auto,
			CalculatedAt: &now,
		})
		if !errors.Is(err, timesheet.ErrTimesheetDayExists) {
			return created, err
		}
		// Another run created the row first; update it instead.
		existing, err = s.timesheetRepo.GetByEmployeeAndDate(ctx, employeeID, day)
		if err != nil {
			return timesheet.TimesheetDay{}, err
		}
		if existing == nil {
			return timesheet.TimesheetDay{}, timesheet.ErrTimesheetDayNotFound
		}
	}

	return s.timesheetRepo.Update(ctx, existing.ID, timesheet.TimesheetDayUpdate{
		Result:       &calc,
		IsCalculated: true,
		CalculatedAt: &now,
	})
}

// saveFailure marks the day as not calculated and stamps the attempt.
// Previously stored figures are kept; only the status fields change.
func (s *TimesheetServiceImpl) saveFailure(ctx context.Context, employeeID string, day time.Time, cfg payconfig.PayConfig, existing *timesheet.TimesheetDay, calcErr error) (timesheet.TimesheetDay, error) {
	msg := calcErr.Error()
	now := s.now()

	if existing == nil {
		auto := timesheet.EntryModeAuto
		return s.timesheetRepo.Create(ctx, timesheet.TimesheetDay{
			EmployeeID: employeeID,
			WorkDate:   day,
			Calculation: timesheet.Calculation{
				IsWeekend: calendar.IsWeekendDay(day, cfg.WeekendDays),
				DayOfWeek: calendar.DayName(day),
			},
			IsCalculated:     false,
			CalculationError: &msg,
			CalculatedAt:     &now,
			OTEntryMode:      &auto,
		})
	}

	return s.timesheetRepo.Update(ctx, existing.ID, timesheet.TimesheetDayUpdate{
		IsCalculated:     false,
		CalculationError: &msg,
		CalculatedAt:     &now,
	})
}
