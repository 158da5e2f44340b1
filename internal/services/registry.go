// Package services contains the vault's key management and persistence
// services: the master key registry, the encryption engine and the account
// and category stores. None of them enforce the lock gate; that is the
// vault coordinator's job.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"fmt"
	"unicode/utf8"

	"github.com/devberatzengin/LoclLock/internal/audit"
	"github.com/devberatzengin/LoclLock/internal/common"
	"github.com/devberatzengin/LoclLock/internal/cryptox"
	"github.com/devberatzengin/LoclLock/internal/dbx"
	"github.com/devberatzengin/LoclLock/internal/models"
	"github.com/devberatzengin/LoclLock/internal/repositories/repomanager"
	"github.com/devberatzengin/LoclLock/internal/session"
)

// Meta keys holding the master key verification material.
const (
	MetaSalt = "master_key_salt"
	MetaHash = "master_key_hash"
	MetaKDF  = "master_key_kdf"
)

// KeyPolicy configures how new master keys are created.
type KeyPolicy struct {
	KDF               cryptox.KDFParams
	SaltLength        int
	MinPasswordLength int
}

// Credentials is freshly derived key material that has not been persisted.
type Credentials struct {
	Salt   []byte
	Key    []byte
	Params cryptox.KDFParams
}

// Wipe zeroes the key.
func (c *Credentials) Wipe() {
	common.WipeByteArray(c.Key)
}

// MasterKeyRegistry persists the salt and verification hash of the master
// key and checks candidate passwords against them. It never stores the key.
type MasterKeyRegistry struct {
	db      *sql.DB
	repos   repomanager.RepositoryManager
	session *session.Session
	policy  KeyPolicy
	audit   audit.TxLogger
}

func NewMasterKeyRegistry(db *sql.DB, repos repomanager.RepositoryManager, s *session.Session,
	policy KeyPolicy, a audit.TxLogger) *MasterKeyRegistry {
	return &MasterKeyRegistry{db: db, repos: repos, session: s, policy: policy, audit: a}
}

// ValidatePassword applies the master password policy. It is the single
// place the minimum length is enforced.
func (r *MasterKeyRegistry) ValidatePassword(password []byte) error {
	if !utf8.Valid(password) {
		return common.NewValidationError("password", "must be valid UTF-8")
	}
	if n := utf8.RuneCount(password); n < r.policy.MinPasswordLength {
		return common.NewValidationError("password",
			fmt.Sprintf("must be at least %d characters", r.policy.MinPasswordLength))
	}
	return nil
}

// IsFirstRun reports whether no master key has been set up yet.
func (r *MasterKeyRegistry) IsFirstRun(ctx context.Context) (bool, error) {
	hash, err := r.repos.Metadata(r.db).Get(ctx, MetaHash)
	if err != nil {
		return false, err
	}
	return hash == nil, nil
}

// NewCredentials validates password, draws a fresh salt and derives a key
// with the configured KDF. Nothing is persisted or activated.
func (r *MasterKeyRegistry) NewCredentials(password []byte) (*Credentials, error) {
	if err := r.ValidatePassword(password); err != nil {
		return nil, err
	}
	salt := common.GenerateRandByteArray(r.policy.SaltLength)
	key, err := cryptox.DeriveKey(password, salt, r.policy.KDF)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrCrypto, err)
	}
	return &Credentials{Salt: salt, Key: key, Params: r.policy.KDF}, nil
}

// Create sets up the master key on first run and activates it.
func (r *MasterKeyRegistry) Create(ctx context.Context, password []byte) error {
	first, err := r.IsFirstRun(ctx)
	if err != nil {
		return err
	}
	if !first {
		return common.ErrAlreadyInitialized
	}

	creds, err := r.NewCredentials(password)
	if err != nil {
		return err
	}
	defer creds.Wipe()

	err = dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := r.ReplaceSalt(ctx, tx, creds.Salt, creds.Params); err != nil {
			return err
		}
		if err := r.ReplaceVerificationHash(ctx, tx, cryptox.MakeVerifier(creds.Key)); err != nil {
			return err
		}
		r.audit.InTx(tx).Record(ctx, models.LevelSecurity, models.ActionMasterKeyCreated,
			"kdf="+creds.Params.Algorithm)
		return nil
	})
	if err != nil {
		return err
	}

	r.session.Activate(creds.Key)
	return nil
}

type storedMaterial struct {
	salt   []byte
	hash   []byte
	params cryptox.KDFParams
}

func (r *MasterKeyRegistry) load(ctx context.Context) (*storedMaterial, error) {
	meta := r.repos.Metadata(r.db)

	salt, err := meta.Get(ctx, MetaSalt)
	if err != nil {
		return nil, err
	}
	hash, err := meta.Get(ctx, MetaHash)
	if err != nil {
		return nil, err
	}
	if salt == nil || hash == nil {
		return nil, nil
	}

	params := r.policy.KDF
	raw, err := meta.Get(ctx, MetaKDF)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		if params, err = cryptox.UnmarshalKDFParams(raw); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
		}
	}
	return &storedMaterial{salt: salt, hash: hash, params: params}, nil
}

// Match derives the key for password with the stored salt and compares its
// verification hash in constant time. On a match the derived key is
// returned; the caller owns it. Nothing is activated.
func (r *MasterKeyRegistry) Match(ctx context.Context, password []byte) ([]byte, bool, error) {
	m, err := r.load(ctx)
	if err != nil {
		return nil, false, err
	}
	if m == nil {
		return nil, false, nil
	}

	key, err := cryptox.DeriveKey(password, m.salt, m.params)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", common.ErrCrypto, err)
	}
	if subtle.ConstantTimeCompare(cryptox.MakeVerifier(key), m.hash) != 1 {
		common.WipeByteArray(key)
		return nil, false, nil
	}
	return key, true, nil
}

// MatchesKey reports whether key is the key the stored verification hash
// was computed from.
func (r *MasterKeyRegistry) MatchesKey(ctx context.Context, key []byte) (bool, error) {
	m, err := r.load(ctx)
	if err != nil || m == nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(cryptox.MakeVerifier(key), m.hash) == 1, nil
}

// Verify checks password and, on success, activates the derived key. A
// failed or uninitialized verify leaves the session untouched.
func (r *MasterKeyRegistry) Verify(ctx context.Context, password []byte) (bool, error) {
	key, ok, err := r.Match(ctx, password)
	if err != nil || !ok {
		return false, err
	}
	defer common.WipeByteArray(key)

	r.session.Activate(key)
	return true, nil
}

// ReplaceVerificationHash stores hash through the caller's transaction.
// Only master key rotation uses it.
func (r *MasterKeyRegistry) ReplaceVerificationHash(ctx context.Context, tx dbx.DBTX, hash []byte) error {
	return r.repos.Metadata(tx).Set(ctx, MetaHash, hash)
}

// ReplaceSalt stores salt and the KDF parameters used with it through the
// caller's transaction.
func (r *MasterKeyRegistry) ReplaceSalt(ctx context.Context, tx dbx.DBTX, salt []byte, params cryptox.KDFParams) error {
	raw, err := params.Marshal()
	if err != nil {
		return err
	}
	meta := r.repos.Metadata(tx)
	if err := meta.Set(ctx, MetaSalt, salt); err != nil {
		return err
	}
	return meta.Set(ctx, MetaKDF, raw)
}
