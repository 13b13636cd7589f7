// internal/infra/database/postgres_period_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"period_scheduler/internal/domain/period"

	"github.com/lib/pq" // For pq.Error codes
)

// Custom errors specific to the period repository
var ErrClosingNotFound = fmt.Errorf("period closing not found")
var ErrRunNotFound = fmt.Errorf("trigger run not found")
var ErrDuplicateClosing = fmt.Errorf("duplicate period closing (kind, closing_date)")

const pqUniqueViolation = pq.ErrorCode("23505")

type PostgresPeriodRepository struct {
	db *sql.DB
}

func NewPostgresPeriodRepository(db *sql.DB) *PostgresPeriodRepository {
	return &PostgresPeriodRepository{db: db}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// --- Closing Methods ---

func (r *PostgresPeriodRepository) CreateClosing(ctx context.Context, c *period.Closing) error {
	query := `INSERT INTO period_closings (kind, period_start, closing_date)
               VALUES ($1, $2, $3)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, c.Kind, dateOnly(c.PeriodStart), dateOnly(c.ClosingDate)).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateClosing
		}
		return fmt.Errorf("error creating period closing: %w", err)
	}
	return nil
}

func (r *PostgresPeriodRepository) GetClosing(ctx context.Context, kind period.Kind, closingDate time.Time) (*period.Closing, error) {
	query := `SELECT id, kind, period_start, closing_date, created_at
               FROM period_closings WHERE kind = $1 AND closing_date = $2`
	c := &period.Closing{}
	err := r.db.QueryRowContext(ctx, query, kind, dateOnly(closingDate)).Scan(&c.ID, &c.Kind, &c.PeriodStart, &c.ClosingDate, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrClosingNotFound
		}
		return nil, fmt.Errorf("error getting period closing by kind and date: %w", err)
	}
	return c, nil
}

func (r *PostgresPeriodRepository) ListClosings(ctx context.Context, kind period.Kind, from, to time.Time) ([]*period.Closing, error) {
	query := `SELECT id, kind, period_start, closing_date, created_at
               FROM period_closings
               WHERE kind = $1 AND closing_date BETWEEN $2 AND $3
               ORDER BY closing_date`
	rows, err := r.db.QueryContext(ctx, query, kind, dateOnly(from), dateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("error listing period closings: %w", err)
	}
	defer rows.Close()

	var closings []*period.Closing
	for rows.Next() {
		c := &period.Closing{}
		if err := rows.Scan(&c.ID, &c.Kind, &c.PeriodStart, &c.ClosingDate, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning period closing row: %w", err)
		}
		closings = append(closings, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period closing rows: %w", err)
	}
	return closings, nil
}

// --- TriggerRun Methods ---

func (r *PostgresPeriodRepository) RecordRun(ctx context.Context, run *period.TriggerRun) error {
	query := `INSERT INTO trigger_runs (job_name, anchor, fired_at, next_due)
               VALUES ($1, $2, $3, $4)
               RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, run.JobName, run.Anchor, run.FiredAt, run.NextDue).Scan(&run.ID); err != nil {
		return fmt.Errorf("error recording trigger run for job %s: %w", run.JobName, err)
	}
	return nil
}

func (r *PostgresPeriodRepository) LastRun(ctx context.Context, jobName string) (*period.TriggerRun, error) {
	query := `SELECT id, job_name, anchor, fired_at, next_due
               FROM trigger_runs WHERE job_name = $1
               ORDER BY fired_at DESC LIMIT 1`
	run := &period.TriggerRun{}
	err := r.db.QueryRowContext(ctx, query, jobName).Scan(&run.ID, &run.JobName, &run.Anchor, &run.FiredAt, &run.NextDue)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("error getting last trigger run for job %s: %w", jobName, err)
	}
	return run, nil
}
