// Package sqldb contains database/sql implementations of repository interfaces.
// Queries are written with ? placeholders and rebound for postgres.
package sqldb

import (
	"database/sql"
	"time"

	"github.com/example/gmao/internal/db"
)

type dialect string

func (d dialect) rebind(query string) string {
	return db.Rebind(string(d), query)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
