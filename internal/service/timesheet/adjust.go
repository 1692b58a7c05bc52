package timesheet

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/payconfig"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-overtime/internal/service/overtime"
)

// AdjustDay implements timesheet.TimesheetService. The row is repriced with
// the rates captured when it was calculated and switched to the adjusted
// mode, or to manual when it never had rates. Either mode locks the row.
func (s *TimesheetServiceImpl) AdjustDay(ctx context.Context, req timesheet.AdjustTimesheetRequest) (timesheet.TimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	var (
		updated timesheet.TimesheetDay
		mode    timesheet.EntryMode
	)
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		day, err := s.timesheetRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		payType := payconfig.PayTypeHourly
		cfg, err := s.payConfigRepo.GetByEmployeeID(txCtx, day.EmployeeID)
		switch {
		case err == nil:
			payType = cfg.PayType
		case !errors.Is(err, payconfig.ErrPayConfigNotFound):
			return err
		}

		calc := adjustCalculation(day.Calculation, req, payType)

		mode = timesheet.EntryModeAdjusted
		if !hasRates(day.Calculation) {
			mode = timesheet.EntryModeManual
		}

		updated, err = s.timesheetRepo.Update(txCtx, day.ID, timesheet.TimesheetDayUpdate{
			Result:         &calc,
			IsCalculated:   true,
			CalculatedAt:   day.CalculatedAt,
			OTEntryMode:    &mode,
			AdjustmentNote: req.Note,
		})
		return err
	})
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	slog.Info("timesheet day adjusted",
		"id", updated.ID,
		"employee_id", updated.EmployeeID,
		"date", updated.WorkDate.Format("2006-01-02"),
		"mode", string(mode),
	)
	return timesheet.ToTimesheetResponse(updated), nil
}

func hasRates(c timesheet.Calculation) bool {
	return !c.HourlyRateRegular.IsZero() || !c.HourlyRateWeekdayOT.IsZero() || !c.HourlyRateWeekendOT.IsZero()
}

func adjustCalculation(c timesheet.Calculation, req timesheet.AdjustTimesheetRequest, payType payconfig.PayType) timesheet.Calculation {
	if req.RegularMinutes != nil {
		c.RegularMinutes = *req.RegularMinutes
	}
	if req.WeekdayOTMinutes != nil {
		c.WeekdayOTMinutes = *req.WeekdayOTMinutes
	}
	if req.WeekendOTMinutes != nil {
		c.WeekendOTMinutes = *req.WeekendOTMinutes
	}
	if sum := c.RegularMinutes + c.WeekdayOTMinutes + c.WeekendOTMinutes; sum > c.TotalWorkedMinutes {
		c.TotalWorkedMinutes = sum
	}

	c.RegularPay = overtime.BucketPay(c.RegularMinutes, c.HourlyRateRegular, payType)
	c.WeekdayOTPay = overtime.BucketPay(c.WeekdayOTMinutes, c.HourlyRateWeekdayOT, payType)
	c.WeekendOTPay = overtime.BucketPay(c.WeekendOTMinutes, c.HourlyRateWeekendOT, payType)
	c.TotalPay = c.RegularPay.Add(c.WeekdayOTPay).Add(c.WeekendOTPay).Round(2)
	return c
}
