package payconfig

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayType decides how RegularHourlyRate is interpreted.
type PayType string

const (
	PayTypeHourly  PayType = "Hourly"
	PayTypeDaily   PayType = "Daily"   // RegularHourlyRate holds the daily rate
	PayTypeMonthly PayType = "Monthly" // RegularHourlyRate holds the monthly salary
)

var PayTypeValues = []string{
	string(PayTypeHourly),
	string(PayTypeDaily),
	string(PayTypeMonthly),
}

// RateType selects between a fixed overtime rate and a multiplier of the regular rate.
type RateType string

const (
	RateTypeFixed      RateType = "fixed"
	RateTypeMultiplier RateType = "multiplier"
)

var RateTypeValues = []string{
	string(RateTypeFixed),
	string(RateTypeMultiplier),
}

// PayConfig is the per-employee pay and calendar configuration.
type PayConfig struct {
	EmployeeID   string
	EmployeeCode string
	PayType      PayType

	RegularHourlyRate decimal.Decimal

	WeekdayOTRateType   RateType
	WeekdayOTFixedRate  *decimal.Decimal
	WeekdayOTMultiplier *decimal.Decimal

	WeekendOTRateType   RateType
	WeekendOTFixedRate  *decimal.Decimal
	WeekendOTMultiplier *decimal.Decimal

	WeekStartDay string
	WeekendDays  []string

	// Times of day, "HH:MM[:SS]".
	WorkdayStart string
	WorkdayEnd   string
	OTStartTime  string

	// Informational; not used by the calculator.
	MinimumDailyHoursForPay decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidationResult is the outcome of validating a PayConfig.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}
