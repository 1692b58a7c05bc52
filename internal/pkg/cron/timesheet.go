package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/calendar"
)

// TimesheetJobOptions configures the nightly reconcile job.
type TimesheetJobOptions struct {
	Location     *time.Location
	Interval     time.Duration
	Hour         int // local hour in which the job runs
	LookbackDays int // days before today to reconcile
	Now          func() time.Time
}

type TimesheetJobs struct {
	timesheetService timesheet.TimesheetService
	opts             TimesheetJobOptions

	mu      sync.Mutex
	lastRun time.Time // local date of the last completed run
}

func NewTimesheetJobs(timesheetService timesheet.TimesheetService, opts TimesheetJobOptions) *TimesheetJobs {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Hour
	}
	if opts.LookbackDays < 1 {
		opts.LookbackDays = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &TimesheetJobs{
		timesheetService: timesheetService,
		opts:             opts,
	}
}

func (j *TimesheetJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("reconcile_timesheets", j.opts.Interval, j.ReconcileRecentDays)
}

// ReconcileRecentDays reconciles the lookback window ending yesterday for every
// configured employee. It runs at most once per local date, during the
// configured hour, and never overrides rows that are already calculated.
func (j *TimesheetJobs) ReconcileRecentDays(ctx context.Context) error {
	now := j.opts.Now().In(j.opts.Location)
	if now.Hour() != j.opts.Hour {
		return nil
	}

	today := calendar.DateIn(now, j.opts.Location)

	j.mu.Lock()
	if j.lastRun.Equal(today) {
		j.mu.Unlock()
		return nil
	}
	j.mu.Unlock()

	from := today.AddDate(0, 0, -j.opts.LookbackDays)
	to := today.AddDate(0, 0, -1)

	slog.Info("Cron: Starting timesheet reconcile job",
		"from", from.Format("2006-01-02"),
		"to", to.Format("2006-01-02"),
	)

	result, err := j.timesheetService.Reconcile(ctx, timesheet.ReconcileRequest{
		From:             from,
		To:               to,
		ForceRecalculate: false,
	})
	if errors.Is(err, timesheet.ErrNoEmployees) {
		slog.Info("Cron: No employees with a pay configuration")
		j.markRun(today)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to reconcile timesheets: %w", err)
	}

	j.markRun(today)
	slog.Info("Cron: Timesheet reconcile job finished",
		"run_id", result.RunID,
		"days_calculated", result.DaysCalculated,
		"days_failed", result.DaysFailed,
		"days_unchanged", result.DaysUnchanged,
		"days_locked", result.DaysLocked,
	)
	return nil
}

func (j *TimesheetJobs) markRun(day time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.lastRun = day
}
