package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateProjects, downCreateProjects)
}

func upCreateProjects(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, []string{
		`CREATE TABLE projects (
    id         VARCHAR(36)  PRIMARY KEY,
    name       VARCHAR(255) NOT NULL,
    slug       VARCHAR(64)  NOT NULL,
    created_at {ts}         NOT NULL,
    updated_at {ts}         NOT NULL
)`,
		`CREATE UNIQUE INDEX idx_projects_slug ON projects (slug)`,
		`CREATE TABLE project_users (
    project_id VARCHAR(36) NOT NULL REFERENCES projects (id) ON DELETE CASCADE,
    user_id    VARCHAR(36) NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    role       VARCHAR(16) NOT NULL,
    created_at {ts}        NOT NULL,
    PRIMARY KEY (project_id, user_id)
)`,
		`CREATE TABLE domains (
    id         VARCHAR(36)  PRIMARY KEY,
    project_id VARCHAR(36)  NOT NULL REFERENCES projects (id) ON DELETE CASCADE,
    slug       VARCHAR(190) NOT NULL,
    verified   BOOLEAN      NOT NULL,
    created_at {ts}         NOT NULL
)`,
		`CREATE UNIQUE INDEX idx_domains_slug ON domains (slug)`,
		`CREATE TABLE tags (
    id         VARCHAR(36) PRIMARY KEY,
    project_id VARCHAR(36) NOT NULL REFERENCES projects (id) ON DELETE CASCADE,
    name       VARCHAR(64) NOT NULL,
    color      VARCHAR(16) NOT NULL,
    created_at {ts}        NOT NULL
)`,
		`CREATE UNIQUE INDEX idx_tags_project_name ON tags (project_id, name)`,
	})
}

func downCreateProjects(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, []string{
		`DROP TABLE IF EXISTS tags`,
		`DROP TABLE IF EXISTS domains`,
		`DROP TABLE IF EXISTS project_users`,
		`DROP TABLE IF EXISTS projects`,
	})
}
