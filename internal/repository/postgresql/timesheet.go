package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type timesheetRepository struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.TimesheetRepository {
	return &timesheetRepository{db: db}
}

const timesheetColumns = `
	t.id, t.employee_id, t.work_date, t.is_weekend, t.day_of_week,
	t.first_punch_in, t.last_punch_out,
	t.regular_minutes, t.weekday_ot_minutes, t.weekend_ot_minutes, t.total_worked_minutes,
	t.regular_pay, t.weekday_ot_pay, t.weekend_ot_pay, t.total_pay,
	t.hourly_rate_regular, t.hourly_rate_weekday_ot, t.hourly_rate_weekend_ot,
	t.is_calculated, t.calculation_error, t.ot_entry_mode, t.adjustment_note,
	t.calculated_at, t.created_at, t.updated_at`

func scanTimesheetDay(row pgx.Row, extra ...any) (timesheet.TimesheetDay, error) {
	var (
		d    timesheet.TimesheetDay
		mode *string
	)
	dest := []any{
		&d.ID, &d.EmployeeID, &d.WorkDate, &d.IsWeekend, &d.DayOfWeek,
		&d.FirstPunchIn, &d.LastPunchOut,
		&d.RegularMinutes, &d.WeekdayOTMinutes, &d.WeekendOTMinutes, &d.TotalWorkedMinutes,
		&d.RegularPay, &d.WeekdayOTPay, &d.WeekendOTPay, &d.TotalPay,
		&d.HourlyRateRegular, &d.HourlyRateWeekdayOT, &d.HourlyRateWeekendOT,
		&d.IsCalculated, &d.CalculationError, &mode, &d.AdjustmentNote,
		&d.CalculatedAt, &d.CreatedAt, &d.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return timesheet.TimesheetDay{}, err
	}
	if mode != nil {
		m := timesheet.EntryMode(*mode)
		d.OTEntryMode = &m
	}
	return d, nil
}

func entryModeArg(m *timesheet.EntryMode) *string {
	if m == nil {
		return nil
	}
	s := string(*m)
	return &s
}

func dateArg(t time.Time) string {
	return t.Format("2006-01-02")
}

// GetByEmployeeAndDate implements timesheet.TimesheetRepository.
func (r *timesheetRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*timesheet.TimesheetDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timesheetColumns + `
		FROM timesheet_days t
		WHERE t.employee_id = $1 AND t.work_date = $2::date`

	d, err := scanTimesheetDay(q.QueryRow(ctx, query, employeeID, dateArg(workDate)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get timesheet day by employee and date: %w", err)
	}
	return &d, nil
}

// GetByID implements timesheet.TimesheetRepository.
func (r *timesheetRepository) GetByID(ctx context.Context, id string) (timesheet.TimesheetDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timesheetColumns + ` FROM timesheet_days t WHERE t.id = $1`

	d, err := scanTimesheetDay(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timesheet.TimesheetDay{}, timesheet.ErrTimesheetDayNotFound
		}
		return timesheet.TimesheetDay{}, fmt.Errorf("failed to get timesheet day: %w", err)
	}
	return d, nil
}

// Create implements timesheet.TimesheetRepository.
func (r *timesheetRepository) Create(ctx context.Context, day timesheet.TimesheetDay) (timesheet.TimesheetDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO timesheet_days AS t (
			employee_id, work_date, is_weekend, day_of_week, first_punch_in, last_punch_out,
			regular_minutes, weekday_ot_minutes, weekend_ot_minutes, total_worked_minutes,
			regular_pay, weekday_ot_pay, weekend_ot_pay, total_pay,
			hourly_rate_regular, hourly_rate_weekday_ot, hourly_rate_weekend_ot,
			is_calculated, calculation_error, ot_entry_mode, adjustment_note, calculated_at
		) VALUES (
			$1, $2::date, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		) RETURNING ` + timesheetColumns

	created, err := scanTimesheetDay(q.QueryRow(ctx, query,
		day.EmployeeID,
		dateArg(day.WorkDate),
		day.IsWeekend,
		day.DayOfWeek,
		day.FirstPunchIn,
		day.LastPunchOut,
		day.RegularMinutes,
		day.WeekdayOTMinutes,
		day.WeekendOTMinutes,
		day.TotalWorkedMinutes,
		day.RegularPay,
		day.WeekdayOTPay,
		day.WeekendOTPay,
		day.TotalPay,
		day.HourlyRateRegular,
		day.HourlyRateWeekdayOT,
		day.HourlyRateWeekendOT,
		day.IsCalculated,
		day.CalculationError,
		entryModeArg(day.OTEntryMode),
		day.AdjustmentNote,
		day.CalculatedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return timesheet.TimesheetDay{}, timesheet.ErrTimesheetDayExists
		}
		return timesheet.TimesheetDay{}, fmt.Errorf("failed to create timesheet day: %w", err)
	}
	return created, nil
}

// Update implements timesheet.TimesheetRepository. Engine writes carry a
// guard on ot_entry_mode so a row locked after it was read stays untouched.
func (r *timesheetRepository) Update(ctx context.Context, id string, upd timesheet.TimesheetDayUpdate) (timesheet.TimesheetDay, error) {
	q := GetQuerier(ctx, r.db)

	updates := map[string]interface{}{
		"is_calculated":     upd.IsCalculated,
		"calculation_error": upd.CalculationError,
		"updated_at":        time.Now(),
	}
	if res := upd.Result; res != nil {
		updates["is_weekend"] = res.IsWeekend
		updates["day_of_week"] = res.DayOfWeek
		updates["first_punch_in"] = res.FirstPunchIn
		updates["last_punch_out"] = res.LastPunchOut
		updates["regular_minutes"] = res.RegularMinutes
		updates["weekday_ot_minutes"] = res.WeekdayOTMinutes
		updates["weekend_ot_minutes"] = res.WeekendOTMinutes
		updates["total_worked_minutes"] = res.TotalWorkedMinutes
		updates["regular_pay"] = res.RegularPay
		updates["weekday_ot_pay"] = res.WeekdayOTPay
		updates["weekend_ot_pay"] = res.WeekendOTPay
		updates["total_pay"] = res.TotalPay
		updates["hourly_rate_regular"] = res.HourlyRateRegular
		updates["hourly_rate_weekday_ot"] = res.HourlyRateWeekdayOT
		updates["hourly_rate_weekend_ot"] = res.HourlyRateWeekendOT
	}
	if upd.CalculatedAt != nil {
		updates["calculated_at"] = *upd.CalculatedAt
	}
	if upd.OTEntryMode != nil {
		updates["ot_entry_mode"] = string(*upd.OTEntryMode)
	}
	if upd.AdjustmentNote != nil {
		updates["adjustment_note"] = *upd.AdjustmentNote
	}

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	where := fmt.Sprintf("t.id = $%d", i)
	args = append(args, id)
	if upd.OTEntryMode == nil {
		where += " AND (t.ot_entry_mode IS NULL OR t.ot_entry_mode = 'auto')"
	}

	query := fmt.Sprintf("UPDATE timesheet_days AS t SET %s WHERE %s RETURNING %s",
		strings.Join(setClauses, ", "), where, timesheetColumns)

	updated, err := scanTimesheetDay(q.QueryRow(ctx, query, args...))
	if err != nil {
		if err != pgx.ErrNoRows {
			return timesheet.TimesheetDay{}, fmt.Errorf("failed to update timesheet day with id %s: %w", id, err)
		}
		// Either the row is gone or the guard rejected the write.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return timesheet.TimesheetDay{}, getErr
		}
		return timesheet.TimesheetDay{}, timesheet.ErrTimesheetDayLocked
	}
	return updated, nil
}

// List implements timesheet.TimesheetRepository.
func (r *timesheetRepository) List(ctx context.Context, filter timesheet.LedgerFilter) ([]timesheet.TimesheetDay, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "WHERE t.work_date >= $1::date AND t.work_date <= $2::date"
	args := []interface{}{dateArg(filter.From), dateArg(filter.To)}
	argIdx := 3

	if filter.EmployeeID != nil {
		baseWhere += fmt.Sprintf(" AND t.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM timesheet_days t " + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count timesheet days: %w", err)
	}

	query := `SELECT ` + timesheetColumns + `, e.employee_code
		FROM timesheet_days t
		LEFT JOIN employees e ON e.id = t.employee_id
		` + baseWhere + `
		ORDER BY t.employee_id, t.work_date`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list timesheet days: %w", err)
	}
	defer rows.Close()

	var days []timesheet.TimesheetDay
	for rows.Next() {
		var code *string
		d, err := scanTimesheetDay(rows, &code)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan timesheet day: %w", err)
		}
		d.EmployeeCode = code
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate timesheet days: %w", err)
	}

	return days, total, nil
}
