// Package store persists bookmarks and clipboard history in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrIndexOutOfRange is returned when a list index does not name an item.
var ErrIndexOutOfRange = errors.New("index out of range")

// MemoryDSN opens a private in-memory database; used by tests and the CLI
// when no data directory is wanted.
const MemoryDSN = ":memory:"

const driverName = "sqlite"

// sqlOpenFunc allows tests to override database opening behavior.
var sqlOpenFunc = sql.Open

var schema = []string{
	`CREATE TABLE IF NOT EXISTS bookmarks (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		position INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookmarks_position ON bookmarks(position)`,
	`CREATE TABLE IF NOT EXISTS clipboard_history (
		content TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		copied_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_clipboard_history_seq ON clipboard_history(seq)`,
}

// Store is the SQLite-backed persistence layer.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies the
// schema. Pass MemoryDSN for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("database path required")
	}
	dsn := path
	if path != MemoryDSN {
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	start := time.Now()
	db, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers and keeps in-memory databases
	// visible to every query.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				err = errors.Join(err, closeErr)
			}
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	slog.Debug("[DEBUG-STORE] database opened", "path", path, "elapsed", time.Since(start))
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// withTx runs fn in a transaction, committing on success.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, rbErr)
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
