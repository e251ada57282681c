package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables the API expects. Idempotent, safe to run
// on every startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name          TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'user',
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id          UUID PRIMARY KEY,
			user_id     UUID NOT NULL REFERENCES users(id),
			token_hash  TEXT NOT NULL,
			expires_at  TIMESTAMPTZ NOT NULL,
			revoked_at  TIMESTAMPTZ,
			replaced_by UUID,
			created_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS appointments (
			id          UUID PRIMARY KEY,
			owner_id    UUID NOT NULL REFERENCES users(id),
			name        TEXT NOT NULL,
			email       TEXT NOT NULL,
			phone       TEXT NOT NULL,
			doctor_name TEXT NOT NULL,
			specialist  TEXT NOT NULL,
			visit_date  TEXT NOT NULL,
			visit_time  TEXT NOT NULL,
			symptom     TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS appointments_owner_created_idx
			ON appointments (owner_id, created_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
