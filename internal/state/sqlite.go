// Package state implements the per-workspace relational store on SQLite.
// It persists workspaces, namespaces, folders, shapes, and statement rows,
// and signals an injected core.Invalidator on every mutation so external
// cache layers can drop stale converter output.
package state

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

// SQLiteStore implements core.Store using SQLite.
type SQLiteStore struct {
	db          *sql.DB
	path        string
	invalidator core.Invalidator
}

var _ core.Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens a connection to the SQLite database and runs migrations.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Every pooled connection to :memory: would get its own database, so
	// pin the pool to a single connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s.db = db
	s.path = path

	if err := s.Migrate(); err != nil {
		db.Close()
		s.db = nil
		return err
	}
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SetInvalidator wires the cache-invalidation signal. Pass nil to disable.
func (s *SQLiteStore) SetInvalidator(inv core.Invalidator) {
	s.invalidator = inv
}

// invalidate signals that a workspace's data changed.
func (s *SQLiteStore) invalidate(workspaceID string) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(workspaceID)
	}
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}
