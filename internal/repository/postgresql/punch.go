package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/punch"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/database"
)

type punchRepository struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) punch.PunchRepository {
	return &punchRepository{db: db}
}

// ListByEmployeeAndRange implements punch.PunchRepository.
func (r *punchRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]punch.PunchRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, punched_at, COALESCE(raw_mode, '')
		FROM punch_records
		WHERE employee_id = $1
		  AND punched_at >= $2
		  AND punched_at < $3
		ORDER BY punched_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	var records []punch.PunchRecord
	for rows.Next() {
		var rec punch.PunchRecord
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Timestamp, &rec.RawMode); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate punches: %w", err)
	}
	return records, nil
}
