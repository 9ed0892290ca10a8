// Package storage provides the persistence medium: named slots in a local
// SQLite database, each holding one opaque byte value. The ledger lives in a
// single slot as a serialized JSON array.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// LedgerSlot is the slot key the purchase ledger is stored under.
const LedgerSlot = "purchases"

// SQLiteSlot reads and writes one slot of a SQLite-backed slot table.
type SQLiteSlot struct {
	db  *sql.DB
	key string
}

// NewSQLiteSlot opens (creating if necessary) the database at dbPath, runs
// migrations, and returns a store bound to the given slot key.
func NewSQLiteSlot(dbPath, key string) (*SQLiteSlot, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteSlot{db: db, key: key}, nil
}

// Get returns the slot's current value, or nil bytes when the slot has never
// been written.
func (s *SQLiteSlot) Get(ctx context.Context) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM slots WHERE key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", s.key, err)
	}
	return value, nil
}

// Put overwrites the slot's value in a single atomic write.
func (s *SQLiteSlot) Put(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, data)
	if err != nil {
		return fmt.Errorf("write slot %q: %w", s.key, err)
	}
	return nil
}

func (s *SQLiteSlot) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
