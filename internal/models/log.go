package models

import "time"

// LogLevel is the severity of an audit event.
type LogLevel string

const (
	LevelInfo     LogLevel = "INFO"
	LevelWarning  LogLevel = "WARNING"
	LevelError    LogLevel = "ERROR"
	LevelSecurity LogLevel = "SECURITY"
)

// Audit actions.
const (
	ActionAccountAdded          = "ACCOUNT_ADDED"
	ActionAccountAddFailed      = "ACCOUNT_ADD_FAILED"
	ActionAccountUpdated        = "ACCOUNT_UPDATED"
	ActionAccountUpdateFailed   = "ACCOUNT_UPDATE_FAILED"
	ActionAccountDeleted        = "ACCOUNT_DELETED"
	ActionAccountDeleteFailed   = "ACCOUNT_DELETE_FAILED"
	ActionCategoryAdded         = "CATEGORY_ADDED"
	ActionCategoryDeleted       = "CATEGORY_DELETED"
	ActionLoginSuccess          = "LOGIN_SUCCESS"
	ActionLoginFailed           = "LOGIN_FAILED"
	ActionMasterKeyCreated      = "MASTER_KEY_CREATED"
	ActionMasterKeyChangeOK     = "MASTER_KEY_CHANGE_SUCCESS"
	ActionMasterKeyChangeFailed = "MASTER_KEY_CHANGE_FAILED"
	ActionVaultLocked           = "VAULT_LOCKED"
)

// LogEntry is one append-only audit record.
type LogEntry struct {
	ID        int64
	Level     LogLevel
	Action    string
	Detail    string
	CreatedAt time.Time
}
