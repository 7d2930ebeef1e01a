package store

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite access layer for the function database: one row per
// discovered native function, an argument snapshot per function refreshed
// every run, and a small metadata table for run bookkeeping.
type Store struct {
	db *sql.DB
}

// Open opens an existing function database. The database file must already
// exist — a missing or unreadable database aborts the whole pipeline, since
// no partial operation is meaningful without it. Use Create to bootstrap.
func Open(dbPath string) (*Store, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("open database %s: %w", dbPath, err)
	}
	return open(dbPath)
}

// Create creates (or opens) a function database and applies the schema.
func Create(dbPath string) (*Store, error) {
	s, err := open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS functions (
  id              INTEGER PRIMARY KEY,
  c_name          TEXT NOT NULL UNIQUE,
  canonical_name  TEXT NOT NULL,
  go_name         TEXT NOT NULL,
  excluded        BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS function_args (
  id              INTEGER PRIMARY KEY,
  function_id     INTEGER NOT NULL REFERENCES functions(id),
  ordinal         INTEGER NOT NULL,
  name            TEXT NOT NULL,
  type            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS metadata (
  key             TEXT PRIMARY KEY,
  value           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_functions_canonical ON functions(canonical_name);
CREATE INDEX IF NOT EXISTS idx_function_args_function ON function_args(function_id);
`

// GetMetadata returns the value for a metadata key, or "" if unset.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get metadata: %w", err)
	}
	return value, nil
}

// SetMetadata inserts or replaces a metadata key.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set metadata: %w", err)
	}
	return nil
}
