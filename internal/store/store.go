// Package store is the local run-history log: a thin append-only record of
// prior analysis summaries. The analysis engine itself never reads or writes
// it; only the CLI layer does, after a run completes.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure-Go SQLite driver (no CGO required)
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id             TEXT PRIMARY KEY,
    file           TEXT NOT NULL,
    analyzed_at    DATETIME NOT NULL,
    primary_cause  TEXT NOT NULL DEFAULT '',
    risk_level     TEXT NOT NULL DEFAULT '',
    dtc_count      INTEGER NOT NULL DEFAULT 0,
    error_count    INTEGER NOT NULL DEFAULT 0,
    summary_json   TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_runs_analyzed_at ON runs(analyzed_at DESC);
`

// Run is one persisted analysis summary.
type Run struct {
	ID           string
	File         string
	AnalyzedAt   time.Time
	PrimaryCause string
	RiskLevel    string
	DtcCount     int
	ErrorCount   int
	SummaryJSON  string
}

// Store wraps the SQLite history database.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the history database at path.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply history schema: %w", err)
	}
	return &Store{db: db, logger: logger.Named("store")}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// SaveRun appends one run summary, assigning it a fresh ID.
func (s *Store) SaveRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.AnalyzedAt.IsZero() {
		run.AnalyzedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, file, analyzed_at, primary_cause, risk_level, dtc_count, error_count, summary_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.File, run.AnalyzedAt, run.PrimaryCause, run.RiskLevel,
		run.DtcCount, run.ErrorCount, run.SummaryJSON)
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}
	s.logger.Debug("saved analysis run", zap.String("id", run.ID), zap.String("file", run.File))
	return run.ID, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file, analyzed_at, primary_cause, risk_level, dtc_count, error_count, summary_json
		 FROM runs ORDER BY analyzed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.File, &r.AnalyzedAt, &r.PrimaryCause, &r.RiskLevel,
			&r.DtcCount, &r.ErrorCount, &r.SummaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
