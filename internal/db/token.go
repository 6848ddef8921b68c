package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"courtbook/internal/session"
)

// TokenStore keeps the session token in a single row.
type TokenStore struct {
	db *DB
}

var _ session.Store = (*TokenStore)(nil)

func (db *DB) TokenStore() *TokenStore {
	return &TokenStore{db: db}
}

func (s *TokenStore) Load(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `SELECT token FROM session_token WHERE id = 1`).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && token == "") {
		return "", session.ErrNoToken
	}
	return token, err
}

func (s *TokenStore) Save(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_token (id, token, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			updated_at = excluded.updated_at`,
		token, time.Now().UTC())
	return err
}

func (s *TokenStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_token WHERE id = 1`)
	return err
}
