// Package history persists resolution runs for spt-forge.
//
// It uses SQLite to keep a local record of every requirement processed,
// so past runs can be inspected from the MCP surface or the CLI.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/HendryAvila/spt-forge/internal/engine"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ─── Types ───────────────────────────────────────────────────────────────────

// Run is one recorded resolution attempt over a requirement.
type Run struct {
	ID              string `json:"id"`
	Requirement     string `json:"requirement"`
	Status          string `json:"status"`
	Attempts        int    `json:"attempts"`
	Policy          string `json:"policy,omitempty"`
	Feedback        string `json:"feedback,omitempty"`
	MissingElements string `json:"missing_elements,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// Stats holds aggregate run statistics.
type Stats struct {
	TotalRuns     int     `json:"total_runs"`
	Successful    int     `json:"successful"`
	Unresolved    int     `json:"unresolved"`
	Errored       int     `json:"errored"`
	AvgAttempts   float64 `json:"avg_attempts"`
	FirstRecorded string  `json:"first_recorded,omitempty"`
	LastRecorded  string  `json:"last_recorded,omitempty"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds history store configuration.
type Config struct {
	DataDir string
}

// DefaultConfig returns the default configuration for the history store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".spt-forge")}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the run history backed by SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given configuration.
// It creates the data directory if needed, opens SQLite with WAL mode,
// and runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "history.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	// SQLite performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("history: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id               TEXT PRIMARY KEY,
			requirement      TEXT NOT NULL,
			status           TEXT NOT NULL,
			attempts         INTEGER NOT NULL DEFAULT 0,
			policy           TEXT,
			feedback         TEXT,
			missing_elements TEXT,
			created_at       TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_runs_status  ON runs(status);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ─── Recording ───────────────────────────────────────────────────────────────

// RecordRun persists one resolution result. It implements engine.Recorder.
func (s *Store) RecordRun(requirement string, result *engine.ResolutionResult) error {
	missing := ""
	for i, m := range result.MissingElements {
		if i > 0 {
			missing += ", "
		}
		missing += m
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, requirement, status, attempts, policy, feedback, missing_elements)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), requirement, string(result.Status), result.Attempts,
		nullableString(result.Policy), nullableString(result.Feedback), nullableString(missing),
	)
	if err != nil {
		return fmt.Errorf("history: record run: %w", err)
	}
	return nil
}

// ─── Queries ─────────────────────────────────────────────────────────────────

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, requirement, status, attempts,
		        COALESCE(policy, ''), COALESCE(feedback, ''), COALESCE(missing_elements, ''),
		        created_at
		 FROM runs
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query recent runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.ID, &r.Requirement, &r.Status, &r.Attempts,
			&r.Policy, &r.Feedback, &r.MissingElements, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Stats returns aggregate statistics over all recorded runs.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(CASE WHEN status = ? THEN 1 END),
		       COUNT(CASE WHEN status IN (?, ?) THEN 1 END),
		       COUNT(CASE WHEN status = ? THEN 1 END),
		       COALESCE(AVG(attempts), 0),
		       COALESCE(MIN(created_at), ''),
		       COALESCE(MAX(created_at), '')
		FROM runs`,
		string(engine.OutcomeSuccess),
		string(engine.OutcomeIncomplete), string(engine.OutcomeMaxAttempts),
		string(engine.OutcomeError),
	).Scan(
		&stats.TotalRuns, &stats.Successful, &stats.Unresolved, &stats.Errored,
		&stats.AvgAttempts, &stats.FirstRecorded, &stats.LastRecorded,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query stats: %w", err)
	}
	return stats, nil
}

// nullableString converts "" to a SQL NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
