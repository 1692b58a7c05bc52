package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/payconfig"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payConfigRepository struct {
	db *database.DB
}

func NewPayConfigRepository(db *database.DB) payconfig.PayConfigRepository {
	return &payConfigRepository{db: db}
}

const payConfigColumns = `
	employee_id, pay_type, regular_hourly_rate,
	weekday_ot_rate_type, weekday_ot_fixed_rate, weekday_ot_multiplier,
	weekend_ot_rate_type, weekend_ot_fixed_rate, weekend_ot_multiplier,
	week_start_day, weekend_days,
	workday_start::text, workday_end::text, ot_start_time::text,
	minimum_daily_hours_for_pay, created_at, updated_at`

func scanPayConfig(row pgx.Row) (payconfig.PayConfig, error) {
	var (
		cfg                                   payconfig.PayConfig
		weekdayFixed, weekdayMult             decimal.NullDecimal
		weekendFixed, weekendMult             decimal.NullDecimal
		payType, weekdayRateType, weekendRate string
	)
	err := row.Scan(
		&cfg.EmployeeID, &payType, &cfg.RegularHourlyRate,
		&weekdayRateType, &weekdayFixed, &weekdayMult,
		&weekendRate, &weekendFixed, &weekendMult,
		&cfg.WeekStartDay, &cfg.WeekendDays,
		&cfg.WorkdayStart, &cfg.WorkdayEnd, &cfg.OTStartTime,
		&cfg.MinimumDailyHoursForPay, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		return payconfig.PayConfig{}, err
	}

	cfg.PayType = payconfig.PayType(payType)
	cfg.WeekdayOTRateType = payconfig.RateType(weekdayRateType)
	cfg.WeekdayOTFixedRate = nullDecimal(weekdayFixed)
	cfg.WeekdayOTMultiplier = nullDecimal(weekdayMult)
	cfg.WeekendOTRateType = payconfig.RateType(weekendRate)
	cfg.WeekendOTFixedRate = nullDecimal(weekendFixed)
	cfg.WeekendOTMultiplier = nullDecimal(weekendMult)
	return cfg, nil
}

func nullDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	return &d.Decimal
}

// GetByEmployeeID implements payconfig.PayConfigRepository.
func (r *payConfigRepository) GetByEmployeeID(ctx context.Context, employeeID string) (payconfig.PayConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payConfigColumns + ` FROM pay_configs WHERE employee_id = $1`

	cfg, err := scanPayConfig(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payconfig.PayConfig{}, payconfig.ErrPayConfigNotFound
		}
		return payconfig.PayConfig{}, fmt.Errorf("failed to get pay config: %w", err)
	}
	return cfg, nil
}

// Upsert implements payconfig.PayConfigRepository.
func (r *payConfigRepository) Upsert(ctx context.Context, cfg payconfig.PayConfig) (payconfig.PayConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO pay_configs (
			employee_id, pay_type, regular_hourly_rate,
			weekday_ot_rate_type, weekday_ot_fixed_rate, weekday_ot_multiplier,
			weekend_ot_rate_type, weekend_ot_fixed_rate, weekend_ot_multiplier,
			week_start_day, weekend_days, workday_start, workday_end, ot_start_time,
			minimum_daily_hours_for_pay
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (employee_id) DO UPDATE SET
			pay_type = EXCLUDED.pay_type,
			regular_hourly_rate = EXCLUDED.regular_hourly_rate,
			weekday_ot_rate_type = EXCLUDED.weekday_ot_rate_type,
			weekday_ot_fixed_rate = EXCLUDED.weekday_ot_fixed_rate,
			weekday_ot_multiplier = EXCLUDED.weekday_ot_multiplier,
			weekend_ot_rate_type = EXCLUDED.weekend_ot_rate_type,
			weekend_ot_fixed_rate = EXCLUDED.weekend_ot_fixed_rate,
			weekend_ot_multiplier = EXCLUDED.weekend_ot_multiplier,
			week_start_day = EXCLUDED.week_start_day,
			weekend_days = EXCLUDED.weekend_days,
			workday_start = EXCLUDED.workday_start,
			workday_end = EXCLUDED.workday_end,
			ot_start_time = EXCLUDED.ot_start_time,
			minimum_daily_hours_for_pay = EXCLUDED.minimum_daily_hours_for_pay,
			updated_at = NOW()
		RETURNING ` + payConfigColumns

	weekendDays := cfg.WeekendDays
	if weekendDays == nil {
		weekendDays = []string{}
	}

	saved, err := scanPayConfig(q.QueryRow(ctx, query,
		cfg.EmployeeID,
		string(cfg.PayType),
		cfg.RegularHourlyRate,
		string(cfg.WeekdayOTRateType),
		cfg.WeekdayOTFixedRate,
		cfg.WeekdayOTMultiplier,
		string(cfg.WeekendOTRateType),
		cfg.WeekendOTFixedRate,
		cfg.WeekendOTMultiplier,
		cfg.WeekStartDay,
		weekendDays,
		cfg.WorkdayStart,
		cfg.WorkdayEnd,
		cfg.OTStartTime,
		cfg.MinimumDailyHoursForPay,
	))
	if err != nil {
		return payconfig.PayConfig{}, fmt.Errorf("failed to upsert pay config: %w", err)
	}
	saved.EmployeeCode = cfg.EmployeeCode
	return saved, nil
}
