package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the application tables if they do not exist. Safe to
// run on every startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			full_name     TEXT,
			password_hash TEXT NOT NULL,
			is_active     BOOLEAN NOT NULL DEFAULT TRUE,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS chat_messages (
			id         UUID PRIMARY KEY,
			user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			message    TEXT NOT NULL,
			response   TEXT,
			tool_used  TEXT NOT NULL DEFAULT 'None',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS chat_messages_user_created_idx
			ON chat_messages (user_id, created_at DESC)`,

		`CREATE TABLE IF NOT EXISTS usage_periods (
			user_id       UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			messages_used INT NOT NULL DEFAULT 0 CHECK (messages_used >= 0),
			period_start  TIMESTAMPTZ NOT NULL,
			period_end    TIMESTAMPTZ NOT NULL,
			last_reset    TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
