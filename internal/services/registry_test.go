package services

import (
	"context"
	"testing"

	"github.com/devberatzengin/LoclLock/internal/common"
	"github.com/devberatzengin/LoclLock/internal/cryptox"
	"github.com/devberatzengin/LoclLock/internal/dbx"
	"github.com/devberatzengin/LoclLock/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateActivatesAndPersists(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.registry.IsFirstRun(ctx)
	require.NoError(t, err)
	assert.True(t, first)

	require.NoError(t, e.registry.Create(ctx, []byte("correct horse")))
	assert.True(t, e.session.Active(), "setup must leave the vault usable")

	first, err = e.registry.IsFirstRun(ctx)
	require.NoError(t, err)
	assert.False(t, first)

	meta := e.repos.Metadata(e.db)
	salt, err := meta.Get(ctx, MetaSalt)
	require.NoError(t, err)
	assert.Len(t, salt, testPolicy.SaltLength)

	hash, err := meta.Get(ctx, MetaHash)
	require.NoError(t, err)
	assert.Equal(t, cryptox.MakeVerifier(e.session.Key()), hash)
	assert.NotEqual(t, e.session.Key(), hash, "the key itself is never stored")

	assert.Equal(t, 1, countActions(t, e.db, models.ActionMasterKeyCreated))
}

func TestRegistry_CreateTwiceFails(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.registry.Create(ctx, []byte("password-one")))
	err := e.registry.Create(ctx, []byte("password-two"))
	require.ErrorIs(t, err, common.ErrAlreadyInitialized)
}

func TestRegistry_CreateRejectsWeakPassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	err := e.registry.Create(ctx, []byte("short"))
	require.ErrorIs(t, err, common.ErrValidation)
	assert.False(t, e.session.Active())

	first, err := e.registry.IsFirstRun(ctx)
	require.NoError(t, err)
	assert.True(t, first, "nothing persisted on validation failure")
}

func TestRegistry_PasswordPolicyCountsRunes(t *testing.T) {
	e := newEnv(t)
	assert.NoError(t, e.registry.ValidatePassword([]byte("şifreşşş")))
	assert.ErrorIs(t, e.registry.ValidatePassword([]byte("şifre")), common.ErrValidation)
	assert.ErrorIs(t, e.registry.ValidatePassword([]byte{0xff, 0xfe, 0xfd, 0xfc, 0xfb, 0xfa, 0xf9, 0xf8}), common.ErrValidation)
}

func TestRegistry_Verify(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	ok, err := e.registry.Verify(ctx, []byte("anything at all"))
	require.NoError(t, err)
	assert.False(t, ok, "empty registry verifies nothing")

	require.NoError(t, e.registry.Create(ctx, []byte("correct horse")))
	key := e.session.Key()
	e.session.Clear()

	ok, err = e.registry.Verify(ctx, []byte("wrong horse!!"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, e.session.Active(), "failed verify must not activate anything")

	ok, err = e.registry.Verify(ctx, []byte("correct horse"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, key, e.session.Key())
}

func TestRegistry_FailedVerifyKeepsActiveKey(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.registry.Create(ctx, []byte("correct horse")))
	before := e.session.Key()

	ok, err := e.registry.Verify(ctx, []byte("not the password"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, e.session.Key())
}

func TestRegistry_UsesStoredKDFParams(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.registry.Create(ctx, []byte("correct horse")))
	e.session.Clear()

	changed := testPolicy
	changed.KDF.Iterations = 2000
	later := NewMasterKeyRegistry(e.db, e.repos, e.session, changed, e.audit)

	ok, err := later.Verify(ctx, []byte("correct horse"))
	require.NoError(t, err)
	assert.True(t, ok, "a config change must not lock the user out")
}

func TestRegistry_ReplaceVerificationHashFollowsTx(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.registry.Create(ctx, []byte("correct horse")))

	orig, err := e.repos.Metadata(e.db).Get(ctx, MetaHash)
	require.NoError(t, err)

	err = dbx.WithTx(ctx, e.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		require.NoError(t, e.registry.ReplaceVerificationHash(ctx, tx, []byte("new-hash")))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	got, err := e.repos.Metadata(e.db).Get(ctx, MetaHash)
	require.NoError(t, err)
	assert.Equal(t, orig, got, "rolled back hash change must not persist")
}

func TestRegistry_NewCredentials(t *testing.T) {
	e := newEnv(t)

	a, err := e.registry.NewCredentials([]byte("password-xyz"))
	require.NoError(t, err)
	b, err := e.registry.NewCredentials([]byte("password-xyz"))
	require.NoError(t, err)

	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.Key, b.Key)
	assert.Equal(t, testPolicy.KDF, a.Params)

	a.Wipe()
	assert.Equal(t, make([]byte, 32), a.Key)

	_, err = e.registry.NewCredentials([]byte("tiny"))
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestRegistry_MatchesKey(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	ok, err := e.registry.MatchesKey(ctx, []byte("anything"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, e.registry.Create(ctx, []byte("correct horse")))

	ok, err = e.registry.MatchesKey(ctx, e.session.Key())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.registry.MatchesKey(ctx, make([]byte, 32))
	require.NoError(t, err)
	assert.False(t, ok)
}
