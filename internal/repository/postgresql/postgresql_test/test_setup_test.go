package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/hris-overtime/internal/pkg/database"
)

// TestDatabaseSetup holds the connection to the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS employees (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	employee_code TEXT NOT NULL UNIQUE,
	full_name     TEXT NOT NULL,
	deleted_at    TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS pay_configs (
	employee_id                 UUID PRIMARY KEY REFERENCES employees(id),
	pay_type                    TEXT NOT NULL,
	regular_hourly_rate         NUMERIC(14,4) NOT NULL,
	weekday_ot_rate_type        TEXT NOT NULL,
	weekday_ot_fixed_rate       NUMERIC(14,4),
	weekday_ot_multiplier       NUMERIC(8,4),
	weekend_ot_rate_type        TEXT NOT NULL,
	weekend_ot_fixed_rate       NUMERIC(14,4),
	weekend_ot_multiplier       NUMERIC(8,4),
	week_start_day              TEXT NOT NULL,
	weekend_days                TEXT[] NOT NULL,
	workday_start               TEXT NOT NULL,
	workday_end                 TEXT NOT NULL,
	ot_start_time               TEXT NOT NULL,
	minimum_daily_hours_for_pay NUMERIC(6,2) NOT NULL DEFAULT 0,
	created_at                  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at                  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS punch_records (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	employee_id UUID NOT NULL REFERENCES employees(id),
	punched_at  TIMESTAMPTZ NOT NULL,
	raw_mode    TEXT
);

CREATE TABLE IF NOT EXISTS timesheet_days (
	id                     UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	employee_id            UUID NOT NULL REFERENCES employees(id),
	work_date              DATE NOT NULL,
	is_weekend             BOOLEAN NOT NULL DEFAULT FALSE,
	day_of_week            TEXT NOT NULL DEFAULT '',
	first_punch_in         TIMESTAMPTZ,
	last_punch_out         TIMESTAMPTZ,
	regular_minutes        INTEGER NOT NULL DEFAULT 0,
	weekday_ot_minutes     INTEGER NOT NULL DEFAULT 0,
	weekend_ot_minutes     INTEGER NOT NULL DEFAULT 0,
	total_worked_minutes   INTEGER NOT NULL DEFAULT 0,
	regular_pay            NUMERIC(12,2) NOT NULL DEFAULT 0,
	weekday_ot_pay         NUMERIC(12,2) NOT NULL DEFAULT 0,
	weekend_ot_pay         NUMERIC(12,2) NOT NULL DEFAULT 0,
	total_pay              NUMERIC(12,2) NOT NULL DEFAULT 0,
	hourly_rate_regular    NUMERIC(14,4) NOT NULL DEFAULT 0,
	hourly_rate_weekday_ot NUMERIC(14,4) NOT NULL DEFAULT 0,
	hourly_rate_weekend_ot NUMERIC(14,4) NOT NULL DEFAULT 0,
	is_calculated          BOOLEAN NOT NULL DEFAULT FALSE,
	calculation_error      TEXT,
	ot_entry_mode          TEXT,
	adjustment_note        TEXT,
	calculated_at          TIMESTAMPTZ,
	created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (employee_id, work_date)
);
`

// NewTestDatabase connects to TEST_DATABASE_URL and makes sure the schema
// exists. The test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	db, err := database.NewPostgreSQLDB(dsn, database.PoolConfig{MaxConns: 4, MinConns: 1})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(db.Close)

	if _, err := db.Exec(context.Background(), schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	if err := setup.TruncateAllTables(context.Background()); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
	return setup
}

// TruncateAllTables removes every row written by a previous test.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"timesheet_days",
		"punch_records",
		"pay_configs",
		"employees",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// CreateEmployee inserts an employee and returns its id.
func (s *TestDatabaseSetup) CreateEmployee(t *testing.T, code string) string {
	t.Helper()
	var id string
	err := s.DB.QueryRow(context.Background(),
		`INSERT INTO employees (employee_code, full_name) VALUES ($1, $2) RETURNING id`,
		code, "Employee "+code,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create employee: %v", err)
	}
	return id
}
