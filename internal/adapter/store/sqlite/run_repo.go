package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercaprice/mercaprice-backend/internal/domain"
)

const dateLayout = "2006-01-02"

// RunRepository implements domain.RunRepository backed by SQLite.
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new RunRepository instance.
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// Save persists one completed run.
func (r *RunRepository) Save(ctx context.Context, run *domain.RunRecord) error {
	var weekAgo any
	if run.WeekAgoDate != nil {
		weekAgo = run.WeekAgoDate.Format(dateLayout)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (id, region, baseline_date, latest_date, week_ago_date,
			aggregate_change_pct, dropped_rows, report, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(),
		run.Region,
		run.BaselineDate.Format(dateLayout),
		run.LatestDate.Format(dateLayout),
		weekAgo,
		run.AggregateChange.String(),
		run.DroppedRows,
		run.Report,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// GetLatest retrieves the most recent run for a region, or nil when the
// region has no history yet.
func (r *RunRepository) GetLatest(ctx context.Context, region string) (*domain.RunRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, region, baseline_date, latest_date, week_ago_date,
			aggregate_change_pct, dropped_rows, report, created_at
		FROM runs
		WHERE region = ?
		ORDER BY created_at DESC
		LIMIT 1`, region)

	var (
		run          domain.RunRecord
		id           string
		baselineDate string
		latestDate   string
		weekAgoDate  sql.NullString
		aggregatePct string
		createdAt    string
	)
	err := row.Scan(&id, &run.Region, &baselineDate, &latestDate, &weekAgoDate,
		&aggregatePct, &run.DroppedRows, &run.Report, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}

	if run.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("failed to parse run id: %w", err)
	}
	if run.BaselineDate, err = time.Parse(dateLayout, baselineDate); err != nil {
		return nil, fmt.Errorf("failed to parse baseline date: %w", err)
	}
	if run.LatestDate, err = time.Parse(dateLayout, latestDate); err != nil {
		return nil, fmt.Errorf("failed to parse latest date: %w", err)
	}
	if weekAgoDate.Valid {
		d, err := time.Parse(dateLayout, weekAgoDate.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse week-ago date: %w", err)
		}
		run.WeekAgoDate = &d
	}
	if run.AggregateChange, err = decimal.NewFromString(aggregatePct); err != nil {
		return nil, fmt.Errorf("failed to parse aggregate change: %w", err)
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return &run, nil
}
