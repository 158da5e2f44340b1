package services

import (
	"fmt"
	"unicode/utf8"

	"github.com/devberatzengin/LoclLock/internal/common"
	"github.com/devberatzengin/LoclLock/internal/cryptox"
	"github.com/devberatzengin/LoclLock/internal/session"
)

// EncryptionEngine encrypts secrets under the session's active key.
type EncryptionEngine struct {
	session         *session.Session
	minSecretLength int
}

func NewEncryptionEngine(s *session.Session, minSecretLength int) *EncryptionEngine {
	return &EncryptionEngine{session: s, minSecretLength: minSecretLength}
}

// Encrypt enforces the minimum secret length and seals plaintext.
func (e *EncryptionEngine) Encrypt(plaintext string) (string, error) {
	if n := utf8.RuneCountInString(plaintext); n < e.minSecretLength {
		return "", common.NewValidationError("password",
			fmt.Sprintf("must be at least %d characters", e.minSecretLength))
	}
	return e.Reencrypt(plaintext)
}

// Reencrypt seals plaintext without the length policy. It exists for data
// that already passed Encrypt once, i.e. master key rotation.
func (e *EncryptionEngine) Reencrypt(plaintext string) (string, error) {
	key := e.session.Key()
	if key == nil {
		return "", common.ErrEmptyKey
	}
	defer common.WipeByteArray(key)

	token, err := cryptox.Seal(key, []byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrCrypto, err)
	}
	return token, nil
}

// Decrypt opens token under the active key. Any failure of the token itself
// is reported as common.ErrWrongKeyOrTampered.
func (e *EncryptionEngine) Decrypt(token string) (string, error) {
	key := e.session.Key()
	if key == nil {
		return "", common.ErrEmptyKey
	}
	defer common.WipeByteArray(key)

	plaintext, err := cryptox.Open(key, token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrWrongKeyOrTampered, err)
	}
	return string(plaintext), nil
}
