// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal persists batch run records in a SQLite database so
// that past runs can be listed, inspected, and pruned. Every stage that
// modifies files records what it did; the journal is the audit trail
// for a directory that has been processed more than once.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdfops/pkg/types"
)

const dbFile = "pdfops.db"

// Store manages the journal SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal database at dir/pdfops.db, creating
// the schema if it does not exist.
func Open(cfg types.JournalConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
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
			stage TEXT NOT NULL,
			src_dir TEXT,
			out_dir TEXT,
			rules_digest TEXT,
			started_at TEXT,
			finished_at TEXT,
			replaced INTEGER,
			no_match INTEGER,
			skipped INTEGER,
			failed INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			path TEXT NOT NULL,
			status TEXT NOT NULL,
			matches INTEGER,
			out_path TEXT,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_run_id ON files(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run is one recorded batch run.
type Run struct {
	ID          string
	Stage       string
	SrcDir      string
	OutDir      string
	RulesDigest string
	StartedAt   time.Time
	FinishedAt  time.Time
	Summary     types.RunSummary
}

// NewRun starts a run record for the given stage with a fresh ID.
func NewRun(stage, srcDir, outDir, rulesDigest string) Run {
	return Run{
		ID:          uuid.NewString(),
		Stage:       stage,
		SrcDir:      srcDir,
		OutDir:      outDir,
		RulesDigest: rulesDigest,
		StartedAt:   time.Now().UTC(),
	}
}

// Record writes one run and its per-file results in a single
// transaction. FinishedAt defaults to now when unset.
func (s *Store) Record(ctx context.Context, run Run, results []types.FileResult) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, stage, src_dir, out_dir, rules_digest, started_at, finished_at,
			replaced, no_match, skipped, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Stage, run.SrcDir, run.OutDir, run.RulesDigest,
		run.StartedAt.Format(time.RFC3339Nano), run.FinishedAt.Format(time.RFC3339Nano),
		run.Summary.Replaced, run.Summary.NoMatch, run.Summary.Skipped, run.Summary.Failed,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO files (run_id, path, status, matches, out_path, error)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.ExecContext(ctx,
			run.ID, r.Path, string(r.Status), r.Matches, r.OutPath, r.Error,
		); err != nil {
			return fmt.Errorf("inserting file %s: %w", r.Path, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, stage, src_dir, out_dir, rules_digest, started_at, finished_at,
			replaced, no_match, skipped, failed
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ShowRun returns one run and its file results. The id may be a unique
// prefix of the full run ID.
func (s *Store) ShowRun(ctx context.Context, id string) (Run, []types.FileResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, stage, src_dir, out_dir, rules_digest, started_at, finished_at,
			replaced, no_match, skipped, failed
		 FROM runs WHERE id LIKE ? || '%'`, id)
	if err != nil {
		return Run{}, nil, fmt.Errorf("querying run: %w", err)
	}
	defer rows.Close()

	var matched []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return Run{}, nil, err
		}
		matched = append(matched, r)
	}
	if err := rows.Err(); err != nil {
		return Run{}, nil, err
	}
	switch len(matched) {
	case 0:
		return Run{}, nil, fmt.Errorf("no run matching %q", id)
	case 1:
	default:
		return Run{}, nil, fmt.Errorf("run id %q is ambiguous (%d matches)", id, len(matched))
	}
	run := matched[0]

	fileRows, err := s.db.QueryContext(ctx,
		`SELECT path, status, matches, out_path, error FROM files WHERE run_id = ?`, run.ID)
	if err != nil {
		return Run{}, nil, fmt.Errorf("querying files: %w", err)
	}
	defer fileRows.Close()

	var results []types.FileResult
	for fileRows.Next() {
		var fr types.FileResult
		var status string
		if err := fileRows.Scan(&fr.Path, &status, &fr.Matches, &fr.OutPath, &fr.Error); err != nil {
			return Run{}, nil, fmt.Errorf("scanning file row: %w", err)
		}
		fr.Status = types.FileStatus(status)
		results = append(results, fr)
	}
	return run, results, fileRows.Err()
}

// Prune deletes all but the newest keep runs and returns the number of
// runs removed. File rows cascade with their run.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN
			(SELECT id FROM runs ORDER BY started_at DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned runs: %w", err)
	}
	return int(n), nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var r Run
	var started, finished string
	if err := rows.Scan(&r.ID, &r.Stage, &r.SrcDir, &r.OutDir, &r.RulesDigest,
		&started, &finished,
		&r.Summary.Replaced, &r.Summary.NoMatch, &r.Summary.Skipped, &r.Summary.Failed,
	); err != nil {
		return Run{}, fmt.Errorf("scanning run row: %w", err)
	}
	var err error
	if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return Run{}, fmt.Errorf("parsing started_at: %w", err)
	}
	if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return Run{}, fmt.Errorf("parsing finished_at: %w", err)
	}
	return r, nil
}
