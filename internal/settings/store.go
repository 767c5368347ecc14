// Package settings persists the daily-folder configuration in SQLite.
package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/dailyfolder/internal/apperr"
	"github.com/starford/dailyfolder/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS settings (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Repository loads and saves the daily-folder configuration.
// Consumers depend on this interface so tests can substitute an in-memory store.
type Repository interface {
	Load(ctx context.Context, defaults models.Settings) (models.Settings, error)
	Save(ctx context.Context, s models.Settings) error
	Close() error
}

// Verify *Store satisfies Repository at compile time.
var _ Repository = (*Store)(nil)

// Store is a single-row SQLite table holding the settings as JSON.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("settings: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("settings: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("settings: apply schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Load returns the stored settings decoded over defaults. Fields absent from
// the stored record keep their default value. With nothing stored, defaults
// are returned unchanged.
func (s *Store) Load(ctx context.Context, defaults models.Settings) (models.Settings, error) {
	var data string
	err := s.conn.QueryRowContext(ctx, `SELECT data FROM settings WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("settings: load: %w", err)
	}

	merged := defaults
	if err := json.Unmarshal([]byte(data), &merged); err != nil {
		return defaults, fmt.Errorf("settings: decode: %w", err)
	}
	return merged, nil
}

// Save normalizes, validates and stores s, replacing any previous record.
func (s *Store) Save(ctx context.Context, cfg models.Settings) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidSettings, err)
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO settings (id, data, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(data))
	if err != nil {
		return fmt.Errorf("settings: save: %w", err)
	}
	return nil
}
