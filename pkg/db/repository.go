package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Repository handles data access
type Repository struct {
	db *DB
}

// NewRepository creates a new Repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// RunLog represents a row in the review_runs table
type RunLog struct {
	ID         int64
	ReviewType string
	ReviewID   string
	Title      string
	Status     string
	Error      string
	StartedAt  time.Time
	FinishedAt sql.NullTime
}

// StartRun records the beginning of a review run and returns its row id.
func (r *Repository) StartRun(reviewType, reviewID, title string) (int64, error) {
	query := `INSERT INTO review_runs (review_type, review_id, title, status) VALUES (?, ?, ?, 'running')`
	res, err := r.db.Exec(query, reviewType, reviewID, title)
	if err != nil {
		return 0, fmt.Errorf("failed to record run start: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}
	return id, nil
}

// CompleteRun marks a run as finished with its outcome.
func (r *Repository) CompleteRun(runID int64, status, errMsg string) error {
	query := `UPDATE review_runs SET status = ?, error = ?, finished_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := r.db.Exec(query, status, errMsg, runID)
	if err != nil {
		return fmt.Errorf("failed to record run completion: %w", err)
	}
	return nil
}

// LatestRun returns the most recent run for a review type, or nil.
func (r *Repository) LatestRun(reviewType string) (*RunLog, error) {
	query := `SELECT id, review_type, review_id, title, status, error, started_at, finished_at
		FROM review_runs WHERE review_type = ? ORDER BY started_at DESC, id DESC LIMIT 1`
	row := r.db.QueryRow(query, reviewType)

	var log RunLog
	err := row.Scan(&log.ID, &log.ReviewType, &log.ReviewID, &log.Title, &log.Status, &log.Error, &log.StartedAt, &log.FinishedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return &log, nil
}

// ListRuns returns the most recent runs across all types.
func (r *Repository) ListRuns(limit int) ([]RunLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, review_type, review_id, title, status, error, started_at, finished_at
		FROM review_runs ORDER BY started_at DESC, id DESC LIMIT ?`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var logs []RunLog
	for rows.Next() {
		var log RunLog
		if err := rows.Scan(&log.ID, &log.ReviewType, &log.ReviewID, &log.Title, &log.Status, &log.Error, &log.StartedAt, &log.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
