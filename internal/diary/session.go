package diary

import (
	"sync"

	"github.com/walletscope/walletscope/internal/common"
)

// Session holds the diary's ephemeral symmetric key for the duration of an
// unlocked session. Exactly one Session exists per controller; the unlock
// gate is the only writer, the note store reads the key through WithKey.
// The key is never copied out, serialized, or logged.
type Session struct {
	mu  sync.RWMutex
	key []byte
}

// install sets the session key. Any previous key is wiped first.
func (s *Session) install(key []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	common.WipeByteArray(s.key)
	s.key = key
}

// clear wipes and drops the session key. It blocks until every in-flight
// WithKey call has finished, so a running crypto operation always completes
// against the key it started with. Idempotent.
func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	common.WipeByteArray(s.key)
	s.key = nil
}

// Unlocked reports whether a key is currently installed.
func (s *Session) Unlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key != nil
}

// WithKey runs fn with the live session key. The key is only valid for the
// duration of the call and must not escape fn. Fails closed with
// common.ErrLocked when no session is active.
func (s *Session) WithKey(fn func(key []byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == nil {
		return common.ErrLocked
	}
	return fn(s.key)
}
