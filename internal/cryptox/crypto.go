package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
)

// TokenVersion prefixes every ciphertext token. It is also bound into the
// GCM tag as additional data, so a token cannot be replayed under another
// version.
const TokenVersion = "v1"

const nonceSize = 12

var (
	// ErrMalformedToken is returned for tokens that cannot be parsed.
	ErrMalformedToken = errors.New("malformed ciphertext token")
	// ErrUnknownVersion is returned for tokens with an unsupported prefix.
	ErrUnknownVersion = errors.New("unsupported ciphertext token version")
	// ErrAuthFailed is returned when the GCM tag does not verify.
	ErrAuthFailed = errors.New("ciphertext authentication failed")
)

var tokenEncoding = base64.RawURLEncoding.Strict()

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with AES-GCM under key using a fresh random nonce
// and returns a textual token "v1:<base64url(nonce||ciphertext||tag)>".
// Two seals of the same plaintext never produce the same token.
func Seal(key, plaintext []byte) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	out := aesgcm.Seal(nonce, nonce, plaintext, []byte(TokenVersion))
	return TokenVersion + ":" + tokenEncoding.EncodeToString(out), nil
}

// Open reverses Seal. Any malformed, foreign-version or tampered token fails.
func Open(key []byte, token string) ([]byte, error) {
	version, body, ok := strings.Cut(token, ":")
	if !ok || body == "" {
		return nil, ErrMalformedToken
	}
	if version != TokenVersion {
		return nil, ErrUnknownVersion
	}

	raw, err := tokenEncoding.DecodeString(body)
	if err != nil {
		return nil, ErrMalformedToken
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(raw) < nonceSize+aesgcm.Overhead() {
		return nil, ErrMalformedToken
	}

	plaintext, err := aesgcm.Open(nil, raw[:nonceSize], raw[nonceSize:], []byte(TokenVersion))
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}
