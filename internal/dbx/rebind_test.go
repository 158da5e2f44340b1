package dbx

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDollar(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"SELECT * FROM meta WHERE key = ?", "SELECT * FROM meta WHERE key = $1"},
		{"INSERT INTO t (a, b, c) VALUES (?, ?, ?)", "INSERT INTO t (a, b, c) VALUES ($1, $2, $3)"},
		{"SELECT '?' FROM t WHERE a = ?", "SELECT '?' FROM t WHERE a = $1"},
		{"UPDATE t SET v = 'it''s' WHERE id = ?", "UPDATE t SET v = 'it''s' WHERE id = $1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toDollar(tt.in))
	}
}

func TestRebind_SQLiteIsPassThrough(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.Same(t, db, Rebind(DialectSQLite, db))
}

func TestRebind_PostgresRewritesQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM accounts WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM meta WHERE key = $1")).
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte("v")))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM accounts WHERE site = $1 AND username = $2")).
		WithArgs("s", "u").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	h := Rebind(DialectPostgres, db)
	ctx := context.Background()

	_, err = h.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", int64(7))
	require.NoError(t, err)

	var v []byte
	require.NoError(t, h.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", "k").Scan(&v))
	assert.Equal(t, []byte("v"), v)

	rows, err := h.QueryContext(ctx, "SELECT id FROM accounts WHERE site = ? AND username = ?", "s", "u")
	require.NoError(t, err)
	require.NoError(t, rows.Close())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFormatParseTime(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	in := time.Date(2024, 5, 6, 7, 8, 9, 123456789, loc)

	s := FormatTime(in)
	assert.Equal(t, "2024-05-06T04:08:09.123456789Z", s)

	out, err := ParseTime(s)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))

	_, err = ParseTime("yesterday")
	require.Error(t, err)
}
