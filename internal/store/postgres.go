package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// PostgresKV stores app state rows in the app_state table.
type PostgresKV struct {
	db *sqlx.DB
}

func NewPostgresKV(db *sqlx.DB) *PostgresKV {
	return &PostgresKV{db: db}
}

func (s *PostgresKV) Get(ctx context.Context, userID int, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowxContext(ctx,
		`SELECT value FROM app_state WHERE user_id=$1 AND key=$2`, userID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *PostgresKV) Set(ctx context.Context, userID int, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO app_state (user_id, key, value, updated_at) VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (user_id, key)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`, userID, key, value)
	return err
}

func (s *PostgresKV) DeleteAll(ctx context.Context, userID int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM app_state WHERE user_id=$1`, userID)
	return err
}
