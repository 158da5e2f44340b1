package vault

import (
	"context"
	"sync"
	"time"

	"github.com/devberatzengin/LoclLock/internal/audit"
	"github.com/devberatzengin/LoclLock/internal/common"
	"github.com/devberatzengin/LoclLock/internal/logging"
	"github.com/devberatzengin/LoclLock/internal/models"
	"github.com/devberatzengin/LoclLock/internal/search"
	"github.com/devberatzengin/LoclLock/internal/services"
	"github.com/devberatzengin/LoclLock/internal/session"
	"github.com/google/uuid"
)

// State is the lock state of a Vault.
type State int

const (
	Locked State = iota
	Unlocked
)

func (s State) String() string {
	if s == Unlocked {
		return "unlocked"
	}
	return "locked"
}

// Encryptor is the per-secret crypto the vault needs.
// *services.EncryptionEngine implements it.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Reencrypt(plaintext string) (string, error)
	Decrypt(token string) (string, error)
}

// LogReader reads back the audit trail.
type LogReader interface {
	Recent(ctx context.Context, limit int) ([]models.LogEntry, error)
}

// Deps are the collaborators a Vault coordinates.
type Deps struct {
	Session    *session.Session
	Registry   *services.MasterKeyRegistry
	Engine     Encryptor
	Accounts   *services.AccountStore
	Categories *services.CategoryStore
	Searcher   search.Searcher
	Audit      audit.TxLogger
	AuditTrail LogReader
	Log        logging.Logger

	// AutoLockAfter locks the vault when no gated call ran for this long.
	// Zero disables the idle lock.
	AutoLockAfter time.Duration
	// Clock defaults to time.Now.
	Clock func() time.Time
	// NewRunID defaults to uuid.NewString.
	NewRunID func() string
}

type Vault struct {
	mu           sync.Mutex
	state        State
	lastActivity time.Time

	session    *session.Session
	registry   *services.MasterKeyRegistry
	engine     Encryptor
	accounts   *services.AccountStore
	categories *services.CategoryStore
	searcher   search.Searcher
	audit      audit.TxLogger
	trail      LogReader
	log        logging.Logger

	autoLockAfter time.Duration
	now           func() time.Time
	newRunID      func() string
}

// New returns a locked Vault.
func New(d Deps) *Vault {
	v := &Vault{
		state:         Locked,
		session:       d.Session,
		registry:      d.Registry,
		engine:        d.Engine,
		accounts:      d.Accounts,
		categories:    d.Categories,
		searcher:      d.Searcher,
		audit:         d.Audit,
		trail:         d.AuditTrail,
		log:           d.Log,
		autoLockAfter: d.AutoLockAfter,
		now:           d.Clock,
		newRunID:      d.NewRunID,
	}
	if v.searcher == nil {
		v.searcher = search.SubstringSearcher{}
	}
	if v.audit == nil {
		v.audit = audit.Nop()
	}
	if v.log == nil {
		v.log = logging.Nop()
	}
	if v.now == nil {
		v.now = time.Now
	}
	if v.newRunID == nil {
		v.newRunID = uuid.NewString
	}
	// A session left active by an earlier owner is not trusted.
	v.session.Clear()
	return v
}

// State returns the current lock state without counting as activity.
func (v *Vault) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// IsFirstRun reports whether Setup still has to be called.
func (v *Vault) IsFirstRun(ctx context.Context) (bool, error) {
	return v.registry.IsFirstRun(ctx)
}

// Setup creates the master key on first run and unlocks the vault.
func (v *Vault) Setup(ctx context.Context, password []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.registry.Create(ctx, password); err != nil {
		v.log.Warn(ctx, "vault setup failed", "error", err)
		return err
	}
	v.unlockLocked()
	v.log.Info(ctx, "vault initialized")
	return nil
}

// Unlock verifies password and unlocks the vault on a match. A wrong
// password returns false and changes nothing.
func (v *Vault) Unlock(ctx context.Context, password []byte) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	ok, err := v.registry.Verify(ctx, password)
	if err != nil {
		return false, err
	}
	if !ok {
		v.audit.Record(ctx, models.LevelWarning, models.ActionLoginFailed, "wrong master password")
		v.log.Warn(ctx, "unlock rejected")
		return false, nil
	}

	v.unlockLocked()
	v.audit.Record(ctx, models.LevelInfo, models.ActionLoginSuccess, "")
	v.log.Info(ctx, "vault unlocked")
	return true, nil
}

// Lock wipes the active key. Locking a locked vault is a no-op.
func (v *Vault) Lock(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lockLocked(ctx, "explicit lock")
}

// Close locks the vault.
func (v *Vault) Close(ctx context.Context) {
	v.Lock(ctx)
}

func (v *Vault) unlockLocked() {
	v.state = Unlocked
	v.lastActivity = v.now()
}

func (v *Vault) lockLocked(ctx context.Context, reason string) {
	if v.state == Locked {
		return
	}
	v.session.Clear()
	v.state = Locked
	v.audit.Record(ctx, models.LevelInfo, models.ActionVaultLocked, reason)
	v.log.Info(ctx, "vault locked", "reason", reason)
}

// enter is the lock gate. The caller must hold v.mu.
func (v *Vault) enter(ctx context.Context, op string) error {
	if v.state != Unlocked {
		v.log.Warn(ctx, "access denied", "op", op)
		return common.ErrAccessDenied
	}
	now := v.now()
	if v.autoLockAfter > 0 && now.Sub(v.lastActivity) >= v.autoLockAfter {
		v.lockLocked(ctx, "idle timeout")
		v.log.Warn(ctx, "access denied", "op", op, "reason", "idle timeout")
		return common.ErrAccessDenied
	}
	v.lastActivity = now
	return nil
}

// RecentLogs returns the newest audit events, newest first.
func (v *Vault) RecentLogs(ctx context.Context, limit int) ([]models.LogEntry, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter(ctx, "recent_logs"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, common.NewValidationError("limit", "must be positive")
	}
	return v.trail.Recent(ctx, limit)
}
