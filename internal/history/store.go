// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists one record per validation run in a local SQLite
// database so past runs can be listed and exported.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/validardoc/pkg/types"
)

// timeLayout is fixed width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DefaultLimit bounds Recent when the caller passes a non-positive limit.
const DefaultLimit = 20

// Store manages the run history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path, creating its parent
// directory and schema when missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			row_id TEXT,
			mode TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			final_state TEXT,
			status TEXT,
			signer_name TEXT,
			signed_at TEXT,
			error TEXT,
			exit_code INTEGER NOT NULL,
			output_path TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_row_id ON runs(row_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts rec, replacing any earlier record with the same ID.
func (s *Store) Record(ctx context.Context, rec types.RunRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("recording run: empty id")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs
			(id, row_id, mode, started_at, finished_at, final_state, status,
			 signer_name, signed_at, error, exit_code, output_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RowID, string(rec.Mode),
		formatTime(rec.StartedAt), formatTime(rec.FinishedAt),
		rec.FinalState, string(rec.Status),
		rec.SignerName, rec.SignedAt, rec.Error, rec.ExitCode, rec.OutputPath,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", rec.ID, err)
	}
	return nil
}

// QueryOptions filters Recent.
type QueryOptions struct {
	// RowID restricts results to one callback row. Empty means all rows.
	RowID string
	// Limit caps the number of records; non-positive means DefaultLimit.
	Limit int
}

// Recent returns records newest first.
func (s *Store) Recent(ctx context.Context, opts QueryOptions) ([]types.RunRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := `SELECT id, row_id, mode, started_at, finished_at, final_state, status,
			signer_name, signed_at, error, exit_code, output_path
		FROM runs`
	var args []any
	if opts.RowID != "" {
		query += ` WHERE row_id = ?`
		args = append(args, opts.RowID)
	}
	query += ` ORDER BY started_at DESC, id LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []types.RunRecord
	for rows.Next() {
		var (
			rec                   types.RunRecord
			mode, status          string
			started, finished     string
			rowID, state, signer  sql.NullString
			signedAt, errText, op sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rowID, &mode, &started, &finished, &state, &status,
			&signer, &signedAt, &errText, &rec.ExitCode, &op); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rec.RowID = rowID.String
		rec.Mode = types.Mode(mode)
		rec.Status = types.Status(status)
		rec.FinalState = state.String
		rec.SignerName = signer.String
		rec.SignedAt = signedAt.String
		rec.Error = errText.String
		rec.OutputPath = op.String
		rec.StartedAt = parseTime(started)
		rec.FinishedAt = parseTime(finished)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
