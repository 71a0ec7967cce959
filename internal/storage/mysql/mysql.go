package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"cnc-ops/internal/config"
)

type Storage struct {
	db *sql.DB
}

const schema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		collection VARCHAR(64) NOT NULL PRIMARY KEY,
		payload    LONGTEXT    NOT NULL,
		updated_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

// New opens the database behind cfg.Storage.DSN, e.g.
// "user:password@tcp(localhost:3306)/cnc?parseTime=true", and creates the
// kv_store table when it is missing.
func New(cfg config.Config) (*Storage, error) {
	const op = "storage.mysql.New"

	db, err := sql.Open("mysql", cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: create kv_store: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const op = "storage.mysql.Get"

	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM kv_store WHERE collection = ?`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: collection '%s': %w", op, key, err)
	}

	return payload, true, nil
}

func (s *Storage) Put(ctx context.Context, key string, value []byte) error {
	const op = "storage.mysql.Put"

	stmt := `
		INSERT INTO kv_store (collection, payload) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE payload = VALUES(payload)
	`

	if _, err := s.db.ExecContext(ctx, stmt, key, value); err != nil {
		return fmt.Errorf("%s: collection '%s': %w", op, key, err)
	}

	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
