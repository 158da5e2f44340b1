// Package session holds the in-memory active master key.
//
// A Session is the only place a usable key lives. It copies keys on the way
// in and out, and zeroes its copy when cleared, so callers may wipe their own
// buffers freely.
package session

import (
	"sync"

	"github.com/devberatzengin/LoclLock/internal/common"
)

type Session struct {
	mu  sync.RWMutex
	key []byte
}

func New() *Session {
	return &Session{}
}

// Activate replaces the active key with a copy of key. The previous key, if
// any, is wiped.
func (s *Session) Activate(key []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	common.WipeByteArray(s.key)
	s.key = common.CloneBytes(key)
}

// Key returns a copy of the active key, or nil when none is active.
func (s *Session) Key() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return common.CloneBytes(s.key)
}

// Active reports whether a key is held.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.key) > 0
}

// Clear wipes and forgets the active key.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	common.WipeByteArray(s.key)
	s.key = nil
}
