// Package ledger records per-job outcomes of a generation run in Postgres.
// The ledger is optional; runs without a database URL skip it entirely.
package ledger

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Tracker appends job outcomes to the render_jobs table.
type Tracker struct {
	db *sql.DB
}

// NewTracker opens the ledger database and ensures the table exists.
func NewTracker(databaseURL string) (*Tracker, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}

	tracker := &Tracker{db: db}
	if err := tracker.ensureTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure ledger table: %w", err)
	}
	return tracker, nil
}

func (t *Tracker) ensureTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS render_jobs (
			run_id TEXT NOT NULL,
			job_id TEXT NOT NULL,
			task_kind TEXT NOT NULL,
			success BOOLEAN NOT NULL,
			attempts INTEGER NOT NULL,
			recorded_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (run_id, job_id)
		)
	`
	if _, err := t.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create render_jobs table: %w", err)
	}
	return nil
}

// Record upserts one job outcome for the given run.
func (t *Tracker) Record(ctx context.Context, runID, jobID, taskKind string, success bool, attempts int) error {
	query := `
		INSERT INTO render_jobs (run_id, job_id, task_kind, success, attempts, recorded_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (run_id, job_id) DO UPDATE
		SET success = EXCLUDED.success,
		    attempts = EXCLUDED.attempts,
		    recorded_at = NOW()
	`
	if _, err := t.db.ExecContext(ctx, query, runID, jobID, taskKind, success, attempts); err != nil {
		return fmt.Errorf("failed to record job outcome: %w", err)
	}
	return nil
}

// SuccessCount returns how many jobs succeeded in a run.
func (t *Tracker) SuccessCount(ctx context.Context, runID string) (int, error) {
	query := `SELECT COUNT(*) FROM render_jobs WHERE run_id = $1 AND success`

	var n int
	err := t.db.QueryRowContext(ctx, query, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count successes: %w", err)
	}
	return n, nil
}

// Close releases the database connection.
func (t *Tracker) Close() error {
	return t.db.Close()
}
