// internal/repository/session.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"homefinder/internal/domain/session"
)

var (
	ErrEmptyDSN = errors.New("repository: empty connection string")
	ErrEmptyKey = errors.New("repository: empty session key")
)

// Querier is the subset of pgxpool.Pool the session repository needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SessionRepository stores the bearer token in Postgres, one row per client key.
type SessionRepository struct {
	db  Querier
	key string
}

var _ session.TokenStore = (*SessionRepository)(nil)

// NewPool constructs a pgx connection pool from a connection string.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	if connString == "" {
		return nil, ErrEmptyDSN
	}

	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("repository: parse config: %w", err)
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

func NewSessionRepository(db Querier, key string) (*SessionRepository, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	return &SessionRepository{db: db, key: key}, nil
}

// Migrate creates the sessions table when it does not exist.
func (r *SessionRepository) Migrate(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS client_sessions (
			key        TEXT        PRIMARY KEY,
			token      TEXT        NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("repository: migrate: %w", err)
	}
	return nil
}

func (r *SessionRepository) Load(ctx context.Context) (string, error) {
	var token string
	err := r.db.QueryRow(ctx, "SELECT token FROM client_sessions WHERE key = $1", r.key).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("repository: load token: %w", err)
	}
	return token, nil
}

func (r *SessionRepository) Save(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO client_sessions (key, token)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET token = EXCLUDED.token, updated_at = NOW()
	`, r.key, token)
	if err != nil {
		return fmt.Errorf("repository: save token: %w", err)
	}
	return nil
}

func (r *SessionRepository) Clear(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM client_sessions WHERE key = $1", r.key); err != nil {
		return fmt.Errorf("repository: clear token: %w", err)
	}
	return nil
}
