// Package history keeps a server-side log of the queries learners ran.
// The log lives in its own sqlite database, separate from the sandbox the
// learner queries: nothing recorded here is reachable from tutorial SQL.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	// sqlite driver for the history database.
	_ "modernc.org/sqlite"
)

// InMemory is the path for a throwaway history database.
const InMemory = ":memory:"

// Entry is one recorded query.
type Entry struct {
	ID        string
	Query     string
	OK        bool
	CreatedAt time.Time
}

// Store records and lists query history.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the history database at path and brings
// its schema up to date. Use InMemory for a database that lives only as
// long as the process.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	// In-memory sqlite is per-connection; a single pooled connection keeps
	// one database either way.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordQuery logs a query that reached the engine. Failures to record are
// logged and swallowed: history is a convenience, never a reason to fail a
// user action.
func (s *Store) RecordQuery(ctx context.Context, query string, ok bool) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO queries (id, query, ok, created_at) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), query, ok, time.Now().UTC(),
	)
	if err != nil {
		s.logger.Warn("failed to record query", "error", err)
	}
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, ok, created_at FROM queries ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Query, &e.OK, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
