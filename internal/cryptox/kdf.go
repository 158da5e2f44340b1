// Package cryptox holds the vault's cryptographic primitives: password based
// key derivation, the verification hash of a derived key and the versioned
// AES-GCM ciphertext token. Nothing here touches storage or session state.
package cryptox

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// Supported key derivation algorithms.
const (
	AlgPBKDF2SHA256 = "pbkdf2-sha256"
	AlgArgon2id     = "argon2id"
)

// KDFParams describes how a password is stretched into a key. The values
// used at setup are persisted next to the salt so later configuration
// changes never lock the user out.
type KDFParams struct {
	Algorithm  string `json:"algorithm"`
	Iterations uint32 `json:"iterations"`
	MemoryKiB  uint32 `json:"memory_kib,omitempty"`
	Threads    uint8  `json:"threads,omitempty"`
	KeyLength  uint32 `json:"key_length"`
}

// Validate checks that p describes a usable derivation.
func (p KDFParams) Validate() error {
	switch p.Algorithm {
	case AlgPBKDF2SHA256:
		if p.Iterations == 0 {
			return fmt.Errorf("kdf: pbkdf2 needs a positive iteration count")
		}
	case AlgArgon2id:
		if p.Iterations == 0 || p.MemoryKiB == 0 || p.Threads == 0 {
			return fmt.Errorf("kdf: argon2id needs time, memory and threads")
		}
	default:
		return fmt.Errorf("kdf: unknown algorithm %q", p.Algorithm)
	}
	switch p.KeyLength {
	case 16, 24, 32:
	default:
		return fmt.Errorf("kdf: key length must be 16, 24 or 32 bytes, got %d", p.KeyLength)
	}
	return nil
}

// Marshal encodes p for the meta table.
func (p KDFParams) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalKDFParams is the inverse of KDFParams.Marshal.
func UnmarshalKDFParams(data []byte) (KDFParams, error) {
	var p KDFParams
	if err := json.Unmarshal(data, &p); err != nil {
		return KDFParams{}, fmt.Errorf("kdf: decode params: %w", err)
	}
	return p, p.Validate()
}

// DeriveKey stretches password with salt. Same inputs always give the same
// key; different salts give unrelated keys.
func DeriveKey(password, salt []byte, p KDFParams) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(salt) == 0 {
		return nil, fmt.Errorf("kdf: empty salt")
	}

	switch p.Algorithm {
	case AlgArgon2id:
		return argon2.IDKey(password, salt, p.Iterations, p.MemoryKiB, p.Threads, p.KeyLength), nil
	default:
		return pbkdf2.Key(password, salt, int(p.Iterations), int(p.KeyLength), sha256.New), nil
	}
}

// MakeVerifier returns the one-way verification hash of a derived key.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}
