package dbx

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Dialect identifies the SQL flavour a repository talks to.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Rebind returns db unchanged for SQLite and a wrapper that rewrites "?"
// placeholders to "$1, $2, ..." for PostgreSQL.
func Rebind(d Dialect, db DBTX) DBTX {
	if d != DialectPostgres {
		return db
	}
	return &dollarBinder{db: db}
}

type dollarBinder struct {
	db DBTX
}

func (b *dollarBinder) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return b.db.ExecContext(ctx, toDollar(query), args...)
}

func (b *dollarBinder) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return b.db.QueryContext(ctx, toDollar(query), args...)
}

func (b *dollarBinder) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return b.db.QueryRowContext(ctx, toDollar(query), args...)
}

// toDollar rewrites positional placeholders outside of single-quoted literals.
func toDollar(query string) string {
	var sb strings.Builder
	sb.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			sb.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// FormatTime is the on-disk timestamp encoding shared by both dialects.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime is the inverse of FormatTime.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
