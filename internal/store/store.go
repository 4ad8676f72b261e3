package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the SQLite handle and provides access to repositories.
type Store struct {
	db *sql.DB
	mu sync.Mutex // serializes event writes
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs migrations.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, mu: &s.mu}
}

// applyPragmas configures SQLite for a single-process writer.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS event_sequence (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			next_val INTEGER NOT NULL
		)`,
		`INSERT OR IGNORE INTO event_sequence (id, next_val) VALUES (1, 1)`,
		`CREATE TABLE IF NOT EXISTS session_events (
			id INTEGER PRIMARY KEY,
			sequence INTEGER NOT NULL UNIQUE,
			timestamp TEXT NOT NULL,
			session_id TEXT NOT NULL,
			user_id INTEGER NOT NULL,
			action TEXT NOT NULL,
			stage TEXT NOT NULL,
			question_index INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS answer_events (
			id INTEGER PRIMARY KEY,
			sequence INTEGER NOT NULL UNIQUE,
			timestamp TEXT NOT NULL,
			session_id TEXT NOT NULL,
			user_id INTEGER NOT NULL,
			stage TEXT NOT NULL,
			question_index INTEGER NOT NULL,
			topic_id INTEGER NOT NULL,
			weight INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS result_events (
			id INTEGER PRIMARY KEY,
			sequence INTEGER NOT NULL UNIQUE,
			timestamp TEXT NOT NULL,
			session_id TEXT NOT NULL,
			user_id INTEGER NOT NULL,
			ranking TEXT NOT NULL,
			narrowed TEXT NOT NULL,
			duration_secs INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS llm_events (
			id INTEGER PRIMARY KEY,
			sequence INTEGER NOT NULL UNIQUE,
			timestamp TEXT NOT NULL,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			purpose TEXT NOT NULL,
			input_tokens INTEGER NOT NULL,
			output_tokens INTEGER NOT NULL,
			latency_ms INTEGER NOT NULL,
			success INTEGER NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			request_body TEXT NOT NULL DEFAULT '',
			response_body TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_session_events_session ON session_events(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_session_events_user ON session_events(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_answer_events_session ON answer_events(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_answer_events_user ON answer_events(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_result_events_user ON result_events(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_result_events_timestamp ON result_events(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_llm_events_purpose ON llm_events(purpose)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SOVBOT_DB environment variable
// 2. $XDG_DATA_HOME/sovbot/sovbot.db
// 3. ~/.local/share/sovbot/sovbot.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SOVBOT_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "sovbot", "sovbot.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
