package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lysyi3m/compare-sitemaps/app/sitemap"
)

var _ RunStore = (*RunRepository)(nil)

// RunRepository records generation runs and the files they wrote
type RunRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) StartRun(ctx context.Context, startedAt time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (started_at, status)
		VALUES (?, ?)
	`, formatTime(startedAt), string(RunStatusRunning))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	return id, nil
}

func (r *RunRepository) RecordFile(ctx context.Context, runID int64, file sitemap.WrittenFile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO run_files (run_id, category, language, file_index, filename, url_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, file.Category, file.Language, file.Index, file.Name, file.URLs, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to insert run file: %w", err)
	}
	return nil
}

func (r *RunRepository) FinishRun(ctx context.Context, runID int64, finishedAt time.Time, runErr error) error {
	status := RunStatusSuccess
	errorText := ""
	if runErr != nil {
		status = RunStatusFailed
		errorText = runErr.Error()
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, status = ?, error = ?
		WHERE id = ?
	`, formatTime(finishedAt), string(status), errorText, runID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %d not found", runID)
	}

	return nil
}

// LatestRun returns the most recently started run, or nil when none exists.
func (r *RunRepository) LatestRun(ctx context.Context) (*RunSummary, error) {
	var summary RunSummary
	var startedAt string
	var finishedAt sql.NullString

	err := r.db.QueryRowContext(ctx, `
		SELECT r.id, r.started_at, r.finished_at, r.status, r.error,
		       COUNT(f.id), COALESCE(SUM(f.url_count), 0)
		FROM runs r
		LEFT JOIN run_files f ON f.run_id = r.id
		GROUP BY r.id
		ORDER BY r.id DESC
		LIMIT 1
	`).Scan(&summary.ID, &startedAt, &finishedAt, &summary.Status, &summary.Error, &summary.Files, &summary.URLs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}

	if summary.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		t, err := parseTime(finishedAt.String)
		if err != nil {
			return nil, err
		}
		summary.FinishedAt = &t
	}

	return &summary, nil
}

func (r *RunRepository) GetRunFiles(ctx context.Context, runID int64) ([]RunFile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, run_id, category, language, file_index, filename, url_count, created_at
		FROM run_files
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run files: %w", err)
	}
	defer rows.Close()

	var files []RunFile
	for rows.Next() {
		var file RunFile
		var createdAt string
		if err := rows.Scan(&file.ID, &file.RunID, &file.Category, &file.Language, &file.Index, &file.Filename, &file.URLCount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run file: %w", err)
		}
		if file.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run files: %w", err)
	}

	return files, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored time %q: %w", s, err)
	}
	return t, nil
}
