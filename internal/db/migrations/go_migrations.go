// Package migrations contains dialect-aware Go database migrations. Column
// types for timestamps and long text differ between SQLite, PostgreSQL, and
// MySQL, so the schema is built per dialect instead of in plain SQL files.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// dialect is set by the parent db package before migrations are applied.
var dialect string

// SetDialect configures the SQL dialect for Go migrations.
// Must be called before goose.Up. Valid values: "sqlite3", "postgres", "mysql".
func SetDialect(d string) {
	dialect = d
}

// timestamp returns the column type used for points in time.
func timestamp() string {
	switch dialect {
	case "postgres":
		return "TIMESTAMPTZ"
	case "mysql":
		return "DATETIME(6)"
	default: // sqlite3
		return "DATETIME"
	}
}

// text returns the unbounded text column type. MySQL TEXT columns cannot carry
// a DEFAULT, so callers always insert a value.
func text() string {
	if dialect == "mysql" {
		return "MEDIUMTEXT"
	}
	return "TEXT"
}

// binary returns the collation clause that makes string comparison
// case-sensitive. SQLite and PostgreSQL already compare bytes.
func binary() string {
	if dialect == "mysql" {
		return "COLLATE utf8mb4_bin"
	}
	return ""
}

// ddl expands {ts}, {text}, and {bin} placeholders in stmt for the current dialect.
func ddl(stmt string) string {
	return strings.NewReplacer("{ts}", timestamp(), "{text}", text(), "{bin}", binary()).Replace(stmt)
}

func execAll(ctx context.Context, tx *sql.Tx, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, ddl(stmt)); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
