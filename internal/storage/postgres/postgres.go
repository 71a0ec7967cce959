package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"cnc-ops/internal/config"
)

type Storage struct {
	db *sql.DB
}

const schema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		collection VARCHAR(64) PRIMARY KEY,
		payload    TEXT        NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// New opens cfg.Storage.DSN, e.g.
// "host=localhost port=5432 user=postgres dbname=cnc sslmode=disable".
func New(cfg config.Config) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: create kv_store: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const op = "storage.postgres.Get"

	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM kv_store WHERE collection = $1`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: collection '%s': %w", op, key, err)
	}

	return []byte(payload), true, nil
}

func (s *Storage) Put(ctx context.Context, key string, value []byte) error {
	const op = "storage.postgres.Put"

	stmt := `
		INSERT INTO kv_store (collection, payload) VALUES ($1, $2)
		ON CONFLICT (collection) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
	`

	if _, err := s.db.ExecContext(ctx, stmt, key, string(value)); err != nil {
		return fmt.Errorf("%s: collection '%s': %w", op, key, err)
	}

	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
