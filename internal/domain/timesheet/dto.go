package timesheet

import (
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// CALCULATE
// ========================================

type CalculateRequest struct {
	EmployeeCode     *string `json:"employee_code,omitempty"`
	FromDate         string  `json:"from_date"`
	ToDate           string  `json:"to_date"`
	ForceRecalculate *bool   `json:"force_recalculate,omitempty"`

	From time.Time `json:"-"`
	To   time.Time `json:"-"`
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeCode != nil && !validator.IsValidEmployeeCode(*r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code is invalid",
		})
	}

	from, to, rangeErrs := validator.ParseDateRange(r.FromDate, r.ToDate)
	errs = append(errs, rangeErrs...)

	if len(errs) > 0 {
		return errs
	}

	r.From, r.To = from, to
	return nil
}

type CalculateResponse struct {
	RunID          string   `json:"run_id"`
	DaysCalculated int      `json:"days_calculated"`
	DaysFailed     int      `json:"days_failed"`
	DaysUnchanged  int      `json:"days_unchanged"`
	DaysLocked     int      `json:"days_locked"`
	Errors         []string `json:"errors,omitempty"`
}

func ToCalculateResponse(result ReconcileResult) CalculateResponse {
	resp := CalculateResponse{
		RunID:          result.RunID,
		DaysCalculated: result.DaysCalculated,
		DaysFailed:     result.DaysFailed,
		DaysUnchanged:  result.DaysUnchanged,
		DaysLocked:     result.DaysLocked,
	}
	for _, e := range result.Errors {
		resp.Errors = append(resp.Errors, e.Error())
	}
	return resp
}

// ========================================
// LEDGER READS
// ========================================

type TimesheetFilter struct {
	EmployeeCode *string `json:"employee_code,omitempty"`
	FromDate     string  `json:"from_date"`
	ToDate       string  `json:"to_date"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	From time.Time `json:"-"`
	To   time.Time `json:"-"`
}

func (f *TimesheetFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 31
	}
	if f.Limit > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 500",
		})
	}

	from, to, rangeErrs := validator.ParseDateRange(f.FromDate, f.ToDate)
	errs = append(errs, rangeErrs...)

	if len(errs) > 0 {
		return errs
	}

	f.From, f.To = from, to
	return nil
}

type TimesheetResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	WorkDate     string  `json:"work_date"`
	IsWeekend    bool    `json:"is_weekend"`
	DayOfWeek    string  `json:"day_of_week"`
	FirstPunchIn *string `json:"first_punch_in,omitempty"`
	LastPunchOut *string `json:"last_punch_out,omitempty"`

	RegularMinutes     int `json:"regular_minutes"`
	WeekdayOTMinutes   int `json:"weekday_ot_minutes"`
	WeekendOTMinutes   int `json:"weekend_ot_minutes"`
	TotalWorkedMinutes int `json:"total_worked_minutes"`

	RegularPay   decimal.Decimal `json:"regular_pay"`
	WeekdayOTPay decimal.Decimal `json:"weekday_ot_pay"`
	WeekendOTPay decimal.Decimal `json:"weekend_ot_pay"`
	TotalPay     decimal.Decimal `json:"total_pay"`

	HourlyRateRegular   decimal.Decimal `json:"hourly_rate_regular"`
	HourlyRateWeekdayOT decimal.Decimal `json:"hourly_rate_weekday_ot"`
	HourlyRateWeekendOT decimal.Decimal `json:"hourly_rate_weekend_ot"`

	IsCalculated     bool    `json:"is_calculated"`
	CalculationError *string `json:"calculation_error,omitempty"`
	OTEntryMode      *string `json:"ot_entry_mode,omitempty"`
	AdjustmentNote   *string `json:"adjustment_note,omitempty"`
	CalculatedAt     *string `json:"calculated_at,omitempty"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func ToTimesheetResponse(d TimesheetDay) TimesheetResponse {
	resp := TimesheetResponse{
		ID:                  d.ID,
		EmployeeID:          d.EmployeeID,
		EmployeeCode:        d.EmployeeCode,
		WorkDate:            d.WorkDate.Format("2006-01-02"),
		IsWeekend:           d.IsWeekend,
		DayOfWeek:           d.DayOfWeek,
		FirstPunchIn:        formatTime(d.FirstPunchIn),
		LastPunchOut:        formatTime(d.LastPunchOut),
		RegularMinutes:      d.RegularMinutes,
		WeekdayOTMinutes:    d.WeekdayOTMinutes,
		WeekendOTMinutes:    d.WeekendOTMinutes,
		TotalWorkedMinutes:  d.TotalWorkedMinutes,
		RegularPay:          d.RegularPay,
		WeekdayOTPay:        d.WeekdayOTPay,
		WeekendOTPay:        d.WeekendOTPay,
		TotalPay:            d.TotalPay,
		HourlyRateRegular:   d.HourlyRateRegular,
		HourlyRateWeekdayOT: d.HourlyRateWeekdayOT,
		HourlyRateWeekendOT: d.HourlyRateWeekendOT,
		IsCalculated:        d.IsCalculated,
		CalculationError:    d.CalculationError,
		AdjustmentNote:      d.AdjustmentNote,
		CalculatedAt:        formatTime(d.CalculatedAt),
	}
	if d.OTEntryMode != nil {
		mode := string(*d.OTEntryMode)
		resp.OTEntryMode = &mode
	}
	return resp
}

type ListTimesheetResponse struct {
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
	Timesheets []TimesheetResponse `json:"timesheets"`
}

// ========================================
// WEEKLY SUMMARY
// ========================================

type WeeklySummaryResponse struct {
	EmployeeID         string          `json:"employee_id"`
	WeekStart          string          `json:"week_start"`
	WeekEnd            string          `json:"week_end"`
	Days               int             `json:"days"`
	RegularMinutes     int             `json:"regular_minutes"`
	WeekdayOTMinutes   int             `json:"weekday_ot_minutes"`
	WeekendOTMinutes   int             `json:"weekend_ot_minutes"`
	TotalWorkedMinutes int             `json:"total_worked_minutes"`
	RegularPay         decimal.Decimal `json:"regular_pay"`
	WeekdayOTPay       decimal.Decimal `json:"weekday_ot_pay"`
	WeekendOTPay       decimal.Decimal `json:"weekend_ot_pay"`
	TotalPay           decimal.Decimal `json:"total_pay"`
}

func ToWeeklySummaryResponse(s WeeklySummary) WeeklySummaryResponse {
	return WeeklySummaryResponse{
		EmployeeID:         s.EmployeeID,
		WeekStart:          s.WeekStart.Format("2006-01-02"),
		WeekEnd:            s.WeekEnd.Format("2006-01-02"),
		Days:               s.Days,
		RegularMinutes:     s.RegularMinutes,
		WeekdayOTMinutes:   s.WeekdayOTMinutes,
		WeekendOTMinutes:   s.WeekendOTMinutes,
		TotalWorkedMinutes: s.TotalWorkedMinutes,
		RegularPay:         s.RegularPay,
		WeekdayOTPay:       s.WeekdayOTPay,
		WeekendOTPay:       s.WeekendOTPay,
		TotalPay:           s.TotalPay,
	}
}

// ========================================
// MANUAL ADJUSTMENT
// ========================================

// AdjustTimesheetRequest lets an admin override the minute buckets of a day.
// Pay is recomputed from the rates captured on the row.
type AdjustTimesheetRequest struct {
	ID               string  `json:"-"`
	RegularMinutes   *int    `json:"regular_minutes,omitempty"`
	WeekdayOTMinutes *int    `json:"weekday_ot_minutes,omitempty"`
	WeekendOTMinutes *int    `json:"weekend_ot_minutes,omitempty"`
	Note             *string `json:"note,omitempty"`
}

func (r *AdjustTimesheetRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if r.RegularMinutes == nil && r.WeekdayOTMinutes == nil && r.WeekendOTMinutes == nil {
		errs = append(errs, validator.ValidationError{Field: "minutes", Message: "at least one minute bucket is required"})
	}

	buckets := []struct {
		field string
		value *int
	}{
		{"regular_minutes", r.RegularMinutes},
		{"weekday_ot_minutes", r.WeekdayOTMinutes},
		{"weekend_ot_minutes", r.WeekendOTMinutes},
	}
	for _, b := range buckets {
		if b.value != nil && (*b.value < 0 || *b.value > 24*60) {
			errs = append(errs, validator.ValidationError{Field: b.field, Message: b.field + " must be between 0 and 1440"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
