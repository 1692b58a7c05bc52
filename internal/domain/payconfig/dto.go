package payconfig

import (
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type UpsertPayConfigRequest struct {
	EmployeeCode string `json:"-"`

	PayType           string          `json:"pay_type"`
	RegularHourlyRate decimal.Decimal `json:"regular_hourly_rate"`

	WeekdayOTRateType   string           `json:"weekday_ot_rate_type"`
	WeekdayOTFixedRate  *decimal.Decimal `json:"weekday_ot_fixed_rate,omitempty"`
	WeekdayOTMultiplier *decimal.Decimal `json:"weekday_ot_multiplier,omitempty"`

	WeekendOTRateType   string           `json:"weekend_ot_rate_type"`
	WeekendOTFixedRate  *decimal.Decimal `json:"weekend_ot_fixed_rate,omitempty"`
	WeekendOTMultiplier *decimal.Decimal `json:"weekend_ot_multiplier,omitempty"`

	WeekStartDay string   `json:"week_start_day"`
	WeekendDays  []string `json:"weekend_days"`

	WorkdayStart string `json:"workday_start"`
	WorkdayEnd   string `json:"workday_end"`
	OTStartTime  string `json:"ot_start_time"`

	MinimumDailyHoursForPay decimal.Decimal `json:"minimum_daily_hours_for_pay"`
}

// Validate checks the request shape: enum names, weekday names and times of day.
// The pay rules themselves are checked by the calculator's config validation.
func (r *UpsertPayConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee_code is invalid"})
	}
	if !validator.IsInSlice(r.PayType, PayTypeValues) {
		errs = append(errs, validator.ValidationError{Field: "pay_type", Message: "pay_type must be one of Hourly, Daily, Monthly"})
	}
	if !validator.IsInSlice(r.WeekdayOTRateType, RateTypeValues) {
		errs = append(errs, validator.ValidationError{Field: "weekday_ot_rate_type", Message: "must be 'fixed' or 'multiplier'"})
	}
	if !validator.IsInSlice(r.WeekendOTRateType, RateTypeValues) {
		errs = append(errs, validator.ValidationError{Field: "weekend_ot_rate_type", Message: "must be 'fixed' or 'multiplier'"})
	}
	if !calendar.IsWeekdayName(r.WeekStartDay) {
		errs = append(errs, validator.ValidationError{Field: "week_start_day", Message: "week_start_day must be a weekday name"})
	}
	for _, day := range r.WeekendDays {
		if !calendar.IsWeekdayName(day) {
			errs = append(errs, validator.ValidationError{Field: "weekend_days", Message: "unknown weekday " + day})
			break
		}
	}

	times := []struct {
		field string
		value string
	}{
		{"workday_start", r.WorkdayStart},
		{"workday_end", r.WorkdayEnd},
		{"ot_start_time", r.OTStartTime},
	}
	for _, t := range times {
		if !validator.IsValidTimeOfDay(t.value) {
			errs = append(errs, validator.ValidationError{Field: t.field, Message: t.field + " must be HH:MM or HH:MM:SS"})
		}
	}

	if r.MinimumDailyHoursForPay.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "minimum_daily_hours_for_pay", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEntity builds the PayConfig for employeeID from the request.
func (r *UpsertPayConfigRequest) ToEntity(employeeID string) PayConfig {
	return PayConfig{
		EmployeeID:              employeeID,
		EmployeeCode:            r.EmployeeCode,
		PayType:                 PayType(r.PayType),
		RegularHourlyRate:       r.RegularHourlyRate,
		WeekdayOTRateType:       RateType(r.WeekdayOTRateType),
		WeekdayOTFixedRate:      r.WeekdayOTFixedRate,
		WeekdayOTMultiplier:     r.WeekdayOTMultiplier,
		WeekendOTRateType:       RateType(r.WeekendOTRateType),
		WeekendOTFixedRate:      r.WeekendOTFixedRate,
		WeekendOTMultiplier:     r.WeekendOTMultiplier,
		WeekStartDay:            r.WeekStartDay,
		WeekendDays:             r.WeekendDays,
		WorkdayStart:            r.WorkdayStart,
		WorkdayEnd:              r.WorkdayEnd,
		OTStartTime:             r.OTStartTime,
		MinimumDailyHoursForPay: r.MinimumDailyHoursForPay,
	}
}

type PayConfigResponse struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	PayType      string `json:"pay_type"`

	RegularHourlyRate decimal.Decimal `json:"regular_hourly_rate"`

	WeekdayOTRateType   string           `json:"weekday_ot_rate_type"`
	WeekdayOTFixedRate  *decimal.Decimal `json:"weekday_ot_fixed_rate,omitempty"`
	WeekdayOTMultiplier *decimal.Decimal `json:"weekday_ot_multiplier,omitempty"`

	WeekendOTRateType   string           `json:"weekend_ot_rate_type"`
	WeekendOTFixedRate  *decimal.Decimal `json:"weekend_ot_fixed_rate,omitempty"`
	WeekendOTMultiplier *decimal.Decimal `json:"weekend_ot_multiplier,omitempty"`

	WeekStartDay string   `json:"week_start_day"`
	WeekendDays  []string `json:"weekend_days"`

	WorkdayStart string `json:"workday_start"`
	WorkdayEnd   string `json:"workday_end"`
	OTStartTime  string `json:"ot_start_time"`

	MinimumDailyHoursForPay decimal.Decimal `json:"minimum_daily_hours_for_pay"`
	UpdatedAt               string          `json:"updated_at"`
}

func ToResponse(cfg PayConfig) PayConfigResponse {
	return PayConfigResponse{
		EmployeeID:              cfg.EmployeeID,
		EmployeeCode:            cfg.EmployeeCode,
		PayType:                 string(cfg.PayType),
		RegularHourlyRate:       cfg.RegularHourlyRate,
		WeekdayOTRateType:       string(cfg.WeekdayOTRateType),
		WeekdayOTFixedRate:      cfg.WeekdayOTFixedRate,
		WeekdayOTMultiplier:     cfg.WeekdayOTMultiplier,
		WeekendOTRateType:       string(cfg.WeekendOTRateType),
		WeekendOTFixedRate:      cfg.WeekendOTFixedRate,
		WeekendOTMultiplier:     cfg.WeekendOTMultiplier,
		WeekStartDay:            cfg.WeekStartDay,
		WeekendDays:             cfg.WeekendDays,
		WorkdayStart:            cfg.WorkdayStart,
		WorkdayEnd:              cfg.WorkdayEnd,
		OTStartTime:             cfg.OTStartTime,
		MinimumDailyHoursForPay: cfg.MinimumDailyHoursForPay,
		UpdatedAt:               cfg.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
