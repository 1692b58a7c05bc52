package overtime

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/payconfig"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

const (
	minutesPerHour = 60
	// Daily pay converts minutes to days of 8 hours.
	minutesPerPayDay = 8 * 60
	// Monthly salary is spread over 22 working days of 8 hours.
	monthlyPayHours = 176
	rateScale       = 4
	payScale        = 2
)

// Interval is a half-open time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Span is one worked interval of a day.
type Span struct {
	Interval
	DurationMinutes int
}

// NewSpan builds a span with its duration in whole minutes, rounded.
func NewSpan(start, end time.Time) Span {
	return Span{
		Interval:        Interval{Start: start, End: end},
		DurationMinutes: roundMinutes(end.Sub(start)),
	}
}

// Rates are the hourly (or daily, for Daily pay) rates of the three buckets.
type Rates struct {
	Regular   decimal.Decimal
	WeekdayOT decimal.Decimal
	WeekendOT decimal.Decimal
}

// BucketResult is the minutes and pay of one employee-day.
type BucketResult struct {
	IsWeekend bool
	DayOfWeek string

	RegularMinutes     int
	WeekdayOTMinutes   int
	WeekendOTMinutes   int
	TotalWorkedMinutes int

	// Rates actually used to price the buckets.
	Rates Rates

	RegularPay   decimal.Decimal
	WeekdayOTPay decimal.Decimal
	WeekendOTPay decimal.Decimal
	TotalPay     decimal.Decimal
}

type RateCalculator struct {
}

func NewRateCalculator() *RateCalculator {
	return &RateCalculator{}
}

// Calculate splits spans worked on date into the regular, weekday overtime and
// weekend overtime buckets and prices them with cfg. date's location is the
// business location; configured times of day are resolved in it.
//
// On a weekend day every worked minute is weekend overtime. On a workday,
// minutes between workday_start and ot_start_time are regular and minutes
// from ot_start_time to the end of the day are weekday overtime; minutes
// before workday_start are not paid.
func (c *RateCalculator) Calculate(date time.Time, spans []Span, cfg payconfig.PayConfig) (BucketResult, error) {
	result := BucketResult{
		IsWeekend: calendar.IsWeekendDay(date, cfg.WeekendDays),
		DayOfWeek: calendar.DayName(date),
	}

	workdayStart, err := AtTimeOfDay(date, cfg.WorkdayStart)
	if err != nil {
		return BucketResult{}, fmt.Errorf("invalid workday_start: %w", err)
	}
	otStart, err := AtTimeOfDay(date, cfg.OTStartTime)
	if err != nil {
		return BucketResult{}, fmt.Errorf("invalid ot_start_time: %w", err)
	}
	regularWindow := Interval{Start: workdayStart, End: otStart}
	overtimeWindow := Interval{Start: otStart, End: calendar.EndOfDay(date)}

	for _, span := range spans {
		result.TotalWorkedMinutes += span.DurationMinutes

		if result.IsWeekend {
			result.WeekendOTMinutes += Overlap(span.Interval, span.Interval)
			continue
		}
		result.RegularMinutes += Overlap(span.Interval, regularWindow)
		result.WeekdayOTMinutes += Overlap(span.Interval, overtimeWindow)
	}

	rates, perMinutes := payRates(cfg)
	result.Rates = roundRates(rates)
	result.RegularPay = bucketPay(result.RegularMinutes, rates.Regular, perMinutes)
	result.WeekdayOTPay = bucketPay(result.WeekdayOTMinutes, rates.WeekdayOT, perMinutes)
	result.WeekendOTPay = bucketPay(result.WeekendOTMinutes, rates.WeekendOT, perMinutes)
	result.TotalPay = result.RegularPay.Add(result.WeekdayOTPay).Add(result.WeekendOTPay).Round(payScale)

	return result, nil
}

// ResolveRates returns the effective bucket rates of cfg in the unit of
// RegularHourlyRate: a fixed overtime rate is used as is, otherwise the
// regular rate is scaled by the multiplier (1.0 when unset).
func ResolveRates(cfg payconfig.PayConfig) Rates {
	regular := cfg.RegularHourlyRate
	return Rates{
		Regular:   regular,
		WeekdayOT: resolveRate(regular, cfg.WeekdayOTRateType, cfg.WeekdayOTFixedRate, cfg.WeekdayOTMultiplier),
		WeekendOT: resolveRate(regular, cfg.WeekendOTRateType, cfg.WeekendOTFixedRate, cfg.WeekendOTMultiplier),
	}
}

func resolveRate(regular decimal.Decimal, rateType payconfig.RateType, fixed, multiplier *decimal.Decimal) decimal.Decimal {
	if rateType == payconfig.RateTypeFixed && fixed != nil {
		return *fixed
	}
	return regular.Mul(multiplierOrOne(multiplier))
}

func multiplierOrOne(m *decimal.Decimal) decimal.Decimal {
	if m == nil {
		return decimal.NewFromInt(1)
	}
	return *m
}

// payRates returns the unrounded rates used for pricing and how many minutes
// one unit of rate pays for.
func payRates(cfg payconfig.PayConfig) (Rates, int64) {
	switch cfg.PayType {
	case payconfig.PayTypeDaily:
		// Fixed overtime rates do not apply to daily pay; a fixed bucket
		// earns the plain daily rate.
		daily := cfg.RegularHourlyRate
		return Rates{
			Regular:   daily,
			WeekdayOT: daily.Mul(dailyMultiplier(cfg.WeekdayOTRateType, cfg.WeekdayOTMultiplier)),
			WeekendOT: daily.Mul(dailyMultiplier(cfg.WeekendOTRateType, cfg.WeekendOTMultiplier)),
		}, minutesPerPayDay
	case payconfig.PayTypeMonthly:
		equivalent := cfg
		equivalent.RegularHourlyRate = cfg.RegularHourlyRate.Div(decimal.NewFromInt(monthlyPayHours))
		return ResolveRates(equivalent), minutesPerHour
	default:
		return ResolveRates(cfg), minutesPerHour
	}
}

func dailyMultiplier(rateType payconfig.RateType, multiplier *decimal.Decimal) decimal.Decimal {
	if rateType == payconfig.RateTypeFixed {
		return decimal.NewFromInt(1)
	}
	return multiplierOrOne(multiplier)
}

// roundRates rounds the audit copy of the rates; pay is never priced from it.
func roundRates(r Rates) Rates {
	return Rates{
		Regular:   r.Regular.Round(rateScale),
		WeekdayOT: r.WeekdayOT.Round(rateScale),
		WeekendOT: r.WeekendOT.Round(rateScale),
	}
}

// BucketPay prices minutes at rate, where rate is in the unit pay type uses
// for stored rates (per day for Daily, per hour otherwise).
func BucketPay(minutes int, rate decimal.Decimal, payType payconfig.PayType) decimal.Decimal {
	perMinutes := int64(minutesPerHour)
	if payType == payconfig.PayTypeDaily {
		perMinutes = minutesPerPayDay
	}
	return bucketPay(minutes, rate, perMinutes)
}

// bucketPay = minutes * rate / perMinutes, rounded half up to the cent.
func bucketPay(minutes int, rate decimal.Decimal, perMinutes int64) decimal.Decimal {
	if minutes == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(minutes)).
		Mul(rate).
		Div(decimal.NewFromInt(perMinutes)).
		Round(payScale)
}

// Overlap returns the whole minutes, rounded, that a and b share; 0 when
// the intersection is empty or either interval is inverted.
func Overlap(a, b Interval) int {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	if !end.After(start) {
		return 0
	}
	return roundMinutes(end.Sub(start))
}

func roundMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d.Round(time.Minute) / time.Minute)
}

// ParseTimeOfDay parses "H[:MM[:SS]]"; missing components are 0.
func ParseTimeOfDay(s string) (hour, minute, second int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > 3 || parts[0] == "" {
		return 0, 0, 0, fmt.Errorf("malformed time of day %q", s)
	}

	values := [3]int{}
	limits := [3]int{23, 59, 59}
	for i, p := range parts {
		v, convErr := strconv.Atoi(p)
		if convErr != nil || v < 0 || v > limits[i] {
			return 0, 0, 0, fmt.Errorf("malformed time of day %q", s)
		}
		values[i] = v
	}
	return values[0], values[1], values[2], nil
}

// AtTimeOfDay combines the calendar date of date with a configured time of day.
func AtTimeOfDay(date time.Time, timeOfDay string) (time.Time, error) {
	h, m, s, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, h, m, s, 0, date.Location()), nil
}
