package overtime

import (
	"github.com/cmlabs-hris/hris-overtime/internal/domain/payconfig"
	"github.com/shopspring/decimal"
)

// Validate checks the pay rules of cfg. It never mutates cfg; callers decide
// whether a failed validation blocks calculation.
func Validate(cfg payconfig.PayConfig) payconfig.ValidationResult {
	errs := []string{}

	if !cfg.RegularHourlyRate.IsPositive() {
		errs = append(errs, "regular_hourly_rate must be greater than 0")
	}
	errs = append(errs, validateRate("weekday_ot", cfg.WeekdayOTRateType, cfg.WeekdayOTFixedRate, cfg.WeekdayOTMultiplier)...)
	errs = append(errs, validateRate("weekend_ot", cfg.WeekendOTRateType, cfg.WeekendOTFixedRate, cfg.WeekendOTMultiplier)...)
	if len(cfg.WeekendDays) == 0 {
		errs = append(errs, "weekend_days must not be empty")
	}

	return payconfig.ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

func validateRate(prefix string, rateType payconfig.RateType, fixed, multiplier *decimal.Decimal) []string {
	if rateType == payconfig.RateTypeFixed {
		if fixed == nil || !fixed.IsPositive() {
			return []string{prefix + "_fixed_rate must be greater than 0 when " + prefix + "_rate_type is fixed"}
		}
		return nil
	}
	if multiplier == nil || !multiplier.IsPositive() {
		return []string{prefix + "_multiplier must be greater than 0 when " + prefix + "_rate_type is multiplier"}
	}
	return nil
}
