package timesheet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

// WeeklySummary implements timesheet.TimesheetService. Ledger rows are
// grouped by the week start day of each employee's configuration, Monday when
// the employee has no usable configuration.
func (s *TimesheetServiceImpl) WeeklySummary(ctx context.Context, filter timesheet.TimesheetFilter) ([]timesheet.WeeklySummaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkRange(filter.From, filter.To); err != nil {
		return nil, err
	}

	ledgerFilter, err := s.ledgerFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	days, _, err := s.timesheetRepo.List(ctx, ledgerFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets: %w", err)
	}

	configs := newConfigCache(s.payConfigRepo)
	weekStarts := make(map[string]time.Weekday)

	var summaries []*timesheet.WeeklySummary
	index := make(map[string]*timesheet.WeeklySummary)

	for _, d := range days {
		startDay, ok := weekStarts[d.EmployeeID]
		if !ok {
			startDay = s.weekStartDay(ctx, configs, d.EmployeeID)
			weekStarts[d.EmployeeID] = startDay
		}

		date := calendar.DateIn(d.WorkDate, s.loc)
		weekStart := calendar.WeekStart(date, startDay)
		key := d.EmployeeID + "|" + weekStart.Format("2006-01-02")

		summary, ok := index[key]
		if !ok {
			summary = &timesheet.WeeklySummary{
				EmployeeID:   d.EmployeeID,
				WeekStart:    weekStart,
				WeekEnd:      calendar.WeekEnd(date, startDay),
				RegularPay:   decimal.Zero,
				WeekdayOTPay: decimal.Zero,
				WeekendOTPay: decimal.Zero,
				TotalPay:     decimal.Zero,
			}
			index[key] = summary
			summaries = append(summaries, summary)
		}
		addDay(summary, d)
	}

	responses := make([]timesheet.WeeklySummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		responses = append(responses, timesheet.ToWeeklySummaryResponse(*summary))
	}
	return responses, nil
}

func addDay(summary *timesheet.WeeklySummary, d timesheet.TimesheetDay) {
	summary.Days++
	summary.RegularMinutes += d.RegularMinutes
	summary.WeekdayOTMinutes += d.WeekdayOTMinutes
	summary.WeekendOTMinutes += d.WeekendOTMinutes
	summary.TotalWorkedMinutes += d.TotalWorkedMinutes
	summary.RegularPay = summary.RegularPay.Add(d.RegularPay)
	summary.WeekdayOTPay = summary.WeekdayOTPay.Add(d.WeekdayOTPay)
	summary.WeekendOTPay = summary.WeekendOTPay.Add(d.WeekendOTPay)
	summary.TotalPay = summary.TotalPay.Add(d.TotalPay)
}

func (s *TimesheetServiceImpl) weekStartDay(ctx context.Context, configs *configCache, employeeID string) time.Weekday {
	cfg, err := configs.get(ctx, employeeID)
	if err != nil {
		return time.Monday
	}
	day, err := calendar.ParseWeekday(cfg.WeekStartDay)
	if err != nil {
		slog.Warn("invalid week_start_day, using Monday", "employee_id", employeeID, "week_start_day", cfg.WeekStartDay)
		return time.Monday
	}
	return day
}
