package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateLinks, downCreateLinks)
}

// The short-link key lives in link_key because KEY is reserved in MySQL. Keys
// are case-sensitive, hence the binary collation there.
func upCreateLinks(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, []string{
		`CREATE TABLE links (
    id           VARCHAR(36)  PRIMARY KEY,
    project_id   VARCHAR(36)  NOT NULL REFERENCES projects (id) ON DELETE CASCADE,
    user_id      VARCHAR(36)  NOT NULL REFERENCES users (id),
    domain       VARCHAR(190) NOT NULL,
    link_key     VARCHAR(190) {bin} NOT NULL,
    url          {text}       NOT NULL,
    archived     BOOLEAN      NOT NULL,
    expires_at   {ts}         NULL,
    expired_url  {text}       NOT NULL,
    password     VARCHAR(255) NOT NULL,
    proxy        BOOLEAN      NOT NULL,
    title        {text}       NOT NULL,
    description  {text}       NOT NULL,
    image        {text}       NOT NULL,
    rewrite      BOOLEAN      NOT NULL,
    ios          {text}       NOT NULL,
    android      {text}       NOT NULL,
    geo          {text}       NOT NULL,
    public_stats BOOLEAN      NOT NULL,
    comments     {text}       NOT NULL,
    clicks       BIGINT       NOT NULL DEFAULT 0,
    last_clicked {ts}         NULL,
    created_at   {ts}         NOT NULL,
    updated_at   {ts}         NOT NULL
)`,
		`CREATE UNIQUE INDEX idx_links_domain_key ON links (domain, link_key)`,
		`CREATE INDEX idx_links_project ON links (project_id, created_at)`,
		`CREATE TABLE link_tags (
    link_id VARCHAR(36) NOT NULL REFERENCES links (id) ON DELETE CASCADE,
    tag_id  VARCHAR(36) NOT NULL REFERENCES tags (id) ON DELETE CASCADE,
    PRIMARY KEY (link_id, tag_id)
)`,
	})
}

func downCreateLinks(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, []string{
		`DROP TABLE IF EXISTS link_tags`,
		`DROP TABLE IF EXISTS links`,
	})
}
