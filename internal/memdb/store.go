// Package memdb reads the assistant backend's memory database directly when
// the backend is unreachable and runs on the same host.
package memdb

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/backend"
)

// factLimit matches the backend's snapshot size.
const factLimit = 50

// Store provides read-only access to memory.db.
type Store struct {
	db *sql.DB
}

// Open opens the database in read-only mode with WAL.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping memory db: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Preferences returns every stored preference.
func (s *Store) Preferences(ctx context.Context) (backend.Preferences, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM user_prefs`)
	if err != nil {
		return nil, fmt.Errorf("query prefs: %w", err)
	}
	defer rows.Close()

	prefs := backend.Preferences{}
	for rows.Next() {
		var key string
		var value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan pref: %w", err)
		}
		prefs[key] = value.String
	}
	return prefs, rows.Err()
}

// Facts returns the newest long-term memories first.
func (s *Store) Facts(ctx context.Context) ([]backend.Fact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, source, created_at
		FROM long_term_memory
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, factLimit)
	if err != nil {
		return nil, fmt.Errorf("query facts: %w", err)
	}
	defer rows.Close()

	var facts []backend.Fact
	for rows.Next() {
		var f backend.Fact
		var content, source, createdAt sql.NullString
		if err := rows.Scan(&f.ID, &content, &source, &createdAt); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		f.Content = content.String
		f.Source = source.String
		f.CreatedAt = createdAt.String
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// Snapshot reads preferences and facts in the shape of GET /memory/snapshot.
func (s *Store) Snapshot(ctx context.Context) (backend.Snapshot, error) {
	prefs, err := s.Preferences(ctx)
	if err != nil {
		return backend.Snapshot{}, err
	}
	facts, err := s.Facts(ctx)
	if err != nil {
		return backend.Snapshot{}, err
	}
	return backend.Snapshot{Facts: facts, Prefs: prefs}, nil
}
