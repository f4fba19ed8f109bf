// Package history persists batch runs to a local SQLite database so an
// operator can see what a previous invocation actually created.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gsbatch/internal/report"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const defaultRecentLimit = 10

// stampLayout is RFC3339 with a fixed-width fraction so stored text sorts
// chronologically.
const stampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps the history database.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one recorded batch invocation.
type Run struct {
	ID         string
	CourseURL  string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Succeeded  int
}

// Open creates or opens the history database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		course_url TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		total INTEGER NOT NULL,
		succeeded INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS attempts (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL REFERENCES runs(id),
		position INTEGER NOT NULL,
		assignment TEXT NOT NULL,
		state TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_attempts_run ON attempts(run_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("initialize history schema: %w", err)
	}
	return nil
}

// RecordRun stores a finished batch and its attempts in one transaction,
// returning the run id.
func (s *Store) RecordRun(ctx context.Context, courseURL string, b report.Batch) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	runID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, course_url, started_at, finished_at, total, succeeded)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, courseURL, stamp(b.StartedAt), stamp(b.FinishedAt), b.Total(), b.Succeeded())
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}

	for i, att := range b.Attempts {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO attempts (id, run_id, position, assignment, state, error, started_at, finished_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			att.ID, runID, i, att.Assignment, att.State, att.Err,
			stamp(att.StartedAt), stamp(att.FinishedAt))
		if err != nil {
			return "", fmt.Errorf("record attempt %q: %w", att.Assignment, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return runID, nil
}

// RecentRuns lists the newest runs first. A non-positive limit uses a
// small default.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, course_url, started_at, finished_at, total, succeeded
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.CourseURL, &started, &finished, &r.Total, &r.Succeeded); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = parseStamp(started)
		r.FinishedAt = parseStamp(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Attempts returns a run's attempts in batch order.
func (s *Store) Attempts(ctx context.Context, runID string) ([]report.Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, assignment, state, error, started_at, finished_at
		 FROM attempts WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var atts []report.Attempt
	for rows.Next() {
		var a report.Attempt
		var started, finished string
		if err := rows.Scan(&a.ID, &a.Assignment, &a.State, &a.Err, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.StartedAt = parseStamp(started)
		a.FinishedAt = parseStamp(finished)
		atts = append(atts, a)
	}
	return atts, rows.Err()
}

// stamp renders a time as sortable UTC RFC3339 text.
func stamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}

// parseStamp is the inverse of stamp. A corrupt value becomes the zero
// time rather than failing the whole listing.
func parseStamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
