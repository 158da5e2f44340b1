package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/devberatzengin/LoclLock/internal/audit"
	"github.com/devberatzengin/LoclLock/internal/common"
	"github.com/devberatzengin/LoclLock/internal/dbx"
	"github.com/devberatzengin/LoclLock/internal/logging"
	"github.com/devberatzengin/LoclLock/internal/models"
	"github.com/devberatzengin/LoclLock/internal/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(site, user string) *models.Account {
	return &models.Account{Site: site, Username: user, EncryptedPassword: "v1:token-" + site}
}

func TestAccountStore_SaveAndRead(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	store := e.accounts.WithClock(fixedClock(at))

	a := sample(" github.com ", "octo")
	id, err := store.Save(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, id, a.ID)
	assert.Equal(t, "github.com", a.Site)

	got, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "octo", got.Username)
	assert.True(t, got.CreatedAt.Equal(at))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.Equal(t, 1, countActions(t, e.db, models.ActionAccountAdded))
}

func TestAccountStore_SaveValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.accounts.Save(ctx, sample("", "octo"))
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = e.accounts.Save(ctx, &models.Account{Site: "s", Username: "u"})
	require.ErrorIs(t, err, common.ErrValidation)

	all, err := e.accounts.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, 0, countActions(t, e.db, models.ActionAccountAdded))
}

func TestAccountStore_GetByIDNotFound(t *testing.T) {
	e := newEnv(t)
	_, err := e.accounts.GetByID(context.Background(), 77)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestAccountStore_UpdatePreservesCreatedAt(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	t1 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)

	id, err := e.accounts.WithClock(fixedClock(t1)).Save(ctx, sample("site", "old"))
	require.NoError(t, err)

	upd := sample("site", "new")
	upd.ID = id
	changed, err := e.accounts.WithClock(fixedClock(t2)).Update(ctx, upd)
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := e.accounts.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "new", got.Username)
	assert.True(t, got.CreatedAt.Equal(t1))
	assert.True(t, got.UpdatedAt.Equal(t2))

	upd.ID = 999
	changed, err = e.accounts.Update(ctx, upd)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, countActions(t, e.db, models.ActionAccountUpdated))
}

func TestAccountStore_DeleteIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	id, err := e.accounts.Save(ctx, sample("site", "user"))
	require.NoError(t, err)

	removed, err := e.accounts.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = e.accounts.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 1, countActions(t, e.db, models.ActionAccountDeleted))
}

func TestAccountStore_ReplaceCiphertextInTx(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	id, err := e.accounts.Save(ctx, sample("site", "user"))
	require.NoError(t, err)

	err = e.accounts.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		all, err := e.accounts.LoadAll(ctx, tx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		return e.accounts.ReplaceCiphertext(ctx, tx, id, "v1:rotated")
	})
	require.NoError(t, err)

	got, err := e.accounts.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "v1:rotated", got.EncryptedPassword)
}

func TestAccountStore_FailedSaveAuditsAfterRollback(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repos, err := repomanager.New(dbx.DialectSQLite)
	require.NoError(t, err)
	store := NewAccountStore(db, repos, audit.NewSQLLogger(db, repos.Logs, logging.Nop()))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).WillReturnError(assert.AnError)
	mock.ExpectRollback()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO logs")).
		WithArgs("ERROR", models.ActionAccountAddFailed, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	_, err = store.Save(context.Background(), sample("site", "user"))
	require.ErrorIs(t, err, common.ErrStorage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountStore_SuccessAuditSharesTheTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repos, err := repomanager.New(dbx.DialectSQLite)
	require.NoError(t, err)
	store := NewAccountStore(db, repos, audit.NewSQLLogger(db, repos.Logs, logging.Nop()))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO logs")).
		WithArgs("INFO", models.ActionAccountAdded, "site=site", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(assert.AnError)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO logs")).
		WithArgs("ERROR", models.ActionAccountAddFailed, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))

	_, err = store.Save(context.Background(), sample("site", "user"))
	require.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}
