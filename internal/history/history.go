// Package history keeps a local sqlite log of every assistant query.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS queries (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	kind        TEXT NOT NULL,
	input       TEXT NOT NULL,
	response    TEXT NOT NULL,
	backend     TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	ok          BOOLEAN NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_queries_timestamp ON queries(timestamp);
`

// Entry is one recorded assistant interaction.
type Entry struct {
	ID        int64
	Timestamp time.Time
	Kind      string // explain | translate | tool | log | voice
	Input     string
	Response  string
	Backend   string // remote | local | pattern | static
	Duration  time.Duration
	OK        bool
}

type Store struct {
	db *sql.DB
}

// Open creates the database file (and its directory) if needed and runs
// the schema migration.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure sqlite: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Insert stores one entry. Timestamp defaults to now when zero.
func (s *Store) Insert(e Entry) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO queries (timestamp, kind, input, response, backend, duration_ms, ok)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ts, e.Kind, e.Input, e.Response, e.Backend, e.Duration.Milliseconds(), e.OK,
	)
	if err != nil {
		return fmt.Errorf("insert query: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := s.db.Query(`
		SELECT id, timestamp, kind, input, response, backend, duration_ms, ok
		FROM queries ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ms int64
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Kind, &e.Input, &e.Response, &e.Backend, &ms, &e.OK); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}
