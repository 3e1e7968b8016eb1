package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateUsers, downCreateUsers)
}

func upCreateUsers(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, []string{
		`CREATE TABLE users (
    id         VARCHAR(36)  PRIMARY KEY,
    email      VARCHAR(255) NOT NULL,
    name       VARCHAR(255) NOT NULL DEFAULT '',
    created_at {ts}         NOT NULL,
    updated_at {ts}         NOT NULL
)`,
		`CREATE UNIQUE INDEX idx_users_email ON users (email)`,
		`CREATE TABLE api_tokens (
    id           VARCHAR(36)  PRIMARY KEY,
    user_id      VARCHAR(36)  NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    name         VARCHAR(255) NOT NULL,
    token_hash   VARCHAR(64)  NOT NULL,
    last_used_at {ts}         NULL,
    expires_at   {ts}         NULL,
    created_at   {ts}         NOT NULL,
    revoked_at   {ts}         NULL
)`,
		`CREATE UNIQUE INDEX idx_api_tokens_hash ON api_tokens (token_hash)`,
		`CREATE INDEX idx_api_tokens_user ON api_tokens (user_id)`,
	})
}

func downCreateUsers(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, []string{
		`DROP TABLE IF EXISTS api_tokens`,
		`DROP TABLE IF EXISTS users`,
	})
}
