package vault

import (
	"context"
	"fmt"

	"github.com/devberatzengin/LoclLock/internal/common"
	"github.com/devberatzengin/LoclLock/internal/cryptox"
	"github.com/devberatzengin/LoclLock/internal/dbx"
	"github.com/devberatzengin/LoclLock/internal/logging"
	"github.com/devberatzengin/LoclLock/internal/models"
	"github.com/devberatzengin/LoclLock/internal/services"
)

// RotateMasterKey re-encrypts every stored secret from oldKey to newKey and
// replaces the verification hash, all in one transaction. oldKey must match
// the stored hash. On failure nothing is persisted, oldKey is active again
// and the returned error matches common.ErrRotationAborted.
func (v *Vault) RotateMasterKey(ctx context.Context, oldKey, newKey []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter(ctx, "rotate_master_key"); err != nil {
		return err
	}
	if len(newKey) == 0 {
		return common.NewValidationError("new_key", "must not be empty")
	}
	ok, err := v.registry.MatchesKey(ctx, oldKey)
	if err != nil {
		return err
	}
	if !ok {
		return common.NewValidationError("old_key", "does not match the stored master key")
	}
	return v.rotate(ctx, oldKey, newKey, nil)
}

// ChangeMasterPassword verifies oldPassword, derives a key for newPassword
// under a fresh salt and rotates every secret onto it. The new salt and KDF
// parameters are committed with the re-encrypted secrets.
func (v *Vault) ChangeMasterPassword(ctx context.Context, oldPassword, newPassword []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter(ctx, "change_master_password"); err != nil {
		return err
	}

	oldKey, ok, err := v.registry.Match(ctx, oldPassword)
	if err != nil {
		return err
	}
	if !ok {
		v.audit.Record(ctx, models.LevelWarning, models.ActionLoginFailed, "wrong master password on change")
		return common.NewValidationError("old_password", "is wrong")
	}
	defer common.WipeByteArray(oldKey)

	creds, err := v.registry.NewCredentials(newPassword)
	if err != nil {
		return err
	}
	defer creds.Wipe()

	return v.rotate(ctx, oldKey, creds.Key, creds)
}

// rotate is the all-or-nothing re-encryption run. The caller must hold v.mu.
func (v *Vault) rotate(ctx context.Context, oldKey, newKey []byte, creds *services.Credentials) error {
	runID := v.newRunID()
	// A half-applied rotation is never acceptable, so caller cancellation
	// does not reach the transaction.
	ctx = logging.WithRunID(context.WithoutCancel(ctx), runID)

	v.log.Info(ctx, "master key rotation started")

	var count int
	err := v.accounts.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) (err error) {
		// A panic must take the same rollback path as an error, otherwise
		// newKey would stay active over ciphertexts sealed with oldKey.
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("rotation panicked: %v", p)
			}
		}()

		all, err := v.accounts.LoadAll(ctx, tx)
		if err != nil {
			return err
		}

		v.session.Activate(oldKey)
		plain := make([]string, len(all))
		for i := range all {
			if plain[i], err = v.engine.Decrypt(all[i].EncryptedPassword); err != nil {
				return fmt.Errorf("decrypt account %d: %w", all[i].ID, err)
			}
		}

		v.session.Activate(newKey)
		for i := range all {
			token, err := v.engine.Reencrypt(plain[i])
			if err != nil {
				return fmt.Errorf("encrypt account %d: %w", all[i].ID, err)
			}
			if err := v.accounts.ReplaceCiphertext(ctx, tx, all[i].ID, token); err != nil {
				return err
			}
			plain[i] = ""
		}

		if creds != nil {
			if err := v.registry.ReplaceSalt(ctx, tx, creds.Salt, creds.Params); err != nil {
				return err
			}
		}
		if err := v.registry.ReplaceVerificationHash(ctx, tx, cryptox.MakeVerifier(newKey)); err != nil {
			return err
		}

		count = len(all)
		v.audit.InTx(tx).Record(ctx, models.LevelSecurity, models.ActionMasterKeyChangeOK,
			fmt.Sprintf("run=%s accounts=%d", runID, count))
		return nil
	})
	if err != nil {
		v.session.Activate(oldKey)
		v.audit.Record(ctx, models.LevelSecurity, models.ActionMasterKeyChangeFailed,
			fmt.Sprintf("run=%s: %v", runID, err))
		v.log.Error(ctx, "master key rotation rolled back", "error", err)
		return &common.RotationError{RunID: runID, Cause: err}
	}

	v.log.Info(ctx, "master key rotation committed", "accounts", count)
	return nil
}
