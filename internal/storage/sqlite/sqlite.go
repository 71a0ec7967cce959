package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"cnc-ops/internal/config"
)

type Storage struct {
	db *sql.DB
}

const schema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		collection TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

// New opens the sqlite file at cfg.Storage.DSN. ":memory:" gives a private
// in-memory database, which only works with a single connection.
func New(cfg config.Config) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite", cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: create kv_store: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const op = "storage.sqlite.Get"

	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM kv_store WHERE collection = ?`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: collection '%s': %w", op, key, err)
	}

	return []byte(payload), true, nil
}

func (s *Storage) Put(ctx context.Context, key string, value []byte) error {
	const op = "storage.sqlite.Put"

	stmt := `
		INSERT INTO kv_store (collection, payload) VALUES (?, ?)
		ON CONFLICT(collection) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, stmt, key, string(value)); err != nil {
		return fmt.Errorf("%s: collection '%s': %w", op, key, err)
	}

	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
