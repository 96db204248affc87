// ABOUTME: SQLite implementation of the preference Store using modernc.org/sqlite
// ABOUTME: Stores one row per set member with automatic schema creation

package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite preference store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed. ":memory:" opens a private
// in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "prefs")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// An in-memory database lives per connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Debug("SQLite preference store initialized", "path", path)
	return s, nil
}

// createSchema creates the preference tables if they don't exist.
// preference_keys records that an entry exists even when its set is empty.
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS preference_keys (
			pref_key   TEXT PRIMARY KEY,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS preference_sets (
			pref_key TEXT NOT NULL,
			member   TEXT NOT NULL,
			PRIMARY KEY (pref_key, member),
			FOREIGN KEY (pref_key) REFERENCES preference_keys(pref_key) ON DELETE CASCADE
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// GetStringSet returns the members stored under key.
func (s *SQLiteStore) GetStringSet(ctx context.Context, key string) ([]string, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}

	var updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT updated_at FROM preference_keys WHERE pref_key = ?
	`, key).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading preference %q: %w", key, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT member FROM preference_sets WHERE pref_key = ?
		ORDER BY member ASC
	`, key)
	if err != nil {
		return nil, false, fmt.Errorf("reading preference %q: %w", key, err)
	}
	defer func() { _ = rows.Close() }()

	members := []string{}
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, false, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return members, true, nil
}

// PutStringSet replaces the members stored under key in a single transaction.
func (s *SQLiteStore) PutStringSet(ctx context.Context, key string, values []string) error {
	if key == "" {
		return ErrEmptyKey
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO preference_keys (pref_key, updated_at) VALUES (?, ?)
		ON CONFLICT(pref_key) DO UPDATE SET updated_at = excluded.updated_at
	`, key, now); err != nil {
		return fmt.Errorf("writing preference %q: %w", key, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM preference_sets WHERE pref_key = ?`, key); err != nil {
		return fmt.Errorf("clearing preference %q: %w", key, err)
	}

	members := normalize(values)
	for _, member := range members {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO preference_sets (pref_key, member) VALUES (?, ?)
		`, key, member); err != nil {
			return fmt.Errorf("writing preference %q member %q: %w", key, member, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing preference %q: %w", key, err)
	}

	s.logger.Debug("preference written", "key", key, "members", len(members))
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
