// Package common defines the error taxonomy and small helpers shared by every
// LoclLock layer. Callers should use errors.Is / errors.As to match these
// values instead of comparing error strings.
package common

import (
	"errors"
	"fmt"
)

var (
	// Gate errors.
	ErrAccessDenied = errors.New("access denied: vault is locked")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrStorage  = errors.New("storage error")

	// Input errors.
	ErrValidation         = errors.New("validation error")
	ErrAlreadyInitialized = errors.New("vault already initialized")

	// Crypto errors. Both kinds match ErrCrypto.
	ErrCrypto             = errors.New("crypto error")
	ErrEmptyKey           = fmt.Errorf("%w: no active key", ErrCrypto)
	ErrWrongKeyOrTampered = fmt.Errorf("%w: wrong key or tampered ciphertext", ErrCrypto)

	// Rotation errors.
	ErrRotationAborted = errors.New("master key rotation aborted")
)

// ValidationError reports a malformed field or a weak password.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError is a shorthand for &ValidationError{...}.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// RotationError is returned when a master key rotation rolled back. The
// pre-rotation key is active again by the time the caller sees it.
type RotationError struct {
	RunID string
	Cause error
}

func (e *RotationError) Error() string {
	return fmt.Sprintf("%s (run %s): %v", ErrRotationAborted, e.RunID, e.Cause)
}

// Unwrap exposes both ErrRotationAborted and the underlying cause.
func (e *RotationError) Unwrap() []error {
	return []error{ErrRotationAborted, e.Cause}
}

// IsRecoverable reports whether err describes a condition the caller can fix
// and retry (bad input, locked vault, unknown id). Storage, crypto and
// rotation failures are fatal for the current operation.
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, ErrRotationAborted) || errors.Is(err, ErrStorage) || errors.Is(err, ErrCrypto) {
		return false
	}
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrAlreadyInitialized)
}

// StorageErr wraps a driver failure so it matches ErrStorage while keeping
// the original error in the chain.
func StorageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
