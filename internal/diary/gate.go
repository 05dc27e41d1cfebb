package diary

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/walletscope/walletscope/internal/common"
	"github.com/walletscope/walletscope/internal/cryptox"
	"github.com/walletscope/walletscope/internal/diary/remote"
	"github.com/walletscope/walletscope/internal/logging"
)

// GateState is a state of the unlock state machine.
type GateState string

const (
	StateUninitialized  GateState = "uninitialized"
	StateAwaitingSetup  GateState = "awaiting_setup"
	StateAwaitingUnlock GateState = "awaiting_unlock"
	StateUnlocking      GateState = "unlocking"
	StateUnlocked       GateState = "unlocked"
	StateLocked         GateState = "locked"
)

// UnlockGate drives the locked/unlocked session lifecycle:
//
//	Uninitialized → (AwaitingSetup | AwaitingUnlock) → Unlocking → Unlocked
//	Unlocking failure returns to AwaitingUnlock; Unlocked → Locked on Lock.
//
// The gate is the sole writer of the Session key. It counts failed attempts
// for the caller's rate limiting but enforces no lockout policy itself.
type UnlockGate struct {
	mu      sync.Mutex
	remote  remote.Client
	session *Session
	logger  logging.Logger

	state          GateState
	salt           []byte
	token          []byte
	isNew          bool
	failedAttempts int
}

func NewUnlockGate(rc remote.Client, session *Session, logger logging.Logger) *UnlockGate {
	return &UnlockGate{
		remote:  rc,
		session: session,
		logger:  logger.With("component", "unlock_gate"),
		state:   StateUninitialized,
	}
}

// Init fetches the stored diary metadata and lands in AwaitingSetup (first
// use) or AwaitingUnlock (existing diary). When no diary exists the gate
// still stores a random decoy salt so that a later unlock attempt costs the
// same as a real one and fails with the same generic error.
func (g *UnlockGate) Init(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	md, err := g.remote.FetchMetadata(ctx)
	if err != nil {
		return fmt.Errorf("metadata fetch: %w", err)
	}

	if md.IsNew {
		g.isNew = true
		g.salt = common.GenerateRandByteArray(cryptox.SaltLen) // decoy
		g.token = common.GenerateRandByteArray(cryptox.TokenLen)
		g.state = StateAwaitingSetup
		return nil
	}

	g.isNew = false
	g.salt = md.Salt
	g.token = md.VerificationToken
	g.state = StateAwaitingUnlock
	return nil
}

// Setup runs the first-time path: generate a fresh salt, derive key and
// verification token from the chosen passphrase, persist both exactly once,
// and transition to Unlocked holding the derived key.
func (g *UnlockGate) Setup(ctx context.Context, passphrase []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(passphrase) == 0 {
		return common.ErrEmptyPassphrase
	}
	if g.state != StateAwaitingSetup {
		if g.state == StateUninitialized {
			return fmt.Errorf("%w: gate not initialized", common.ErrInternal)
		}
		return common.ErrAlreadyInitialized
	}

	g.state = StateUnlocking

	salt := common.GenerateRandByteArray(cryptox.SaltLen)
	key := cryptox.DeriveKey(passphrase, salt)
	token := cryptox.DeriveVerificationToken(key)

	// an abandoned setup must not leave a derived key behind
	if err := ctx.Err(); err != nil {
		common.WipeByteArray(key)
		g.state = StateAwaitingSetup
		return err
	}

	if err := g.remote.Setup(ctx, salt, token); err != nil {
		common.WipeByteArray(key)
		g.state = StateAwaitingSetup
		return fmt.Errorf("diary setup: %w", err)
	}

	g.salt = salt
	g.token = token
	g.isNew = false
	g.session.install(key)
	g.state = StateUnlocked
	g.logger.Info(ctx, "diary initialized")
	return nil
}

// Unlock verifies the passphrase against the stored metadata. A mismatch,
// and likewise the absence of any diary, yields the single generic
// common.ErrIncorrectPassphrase and increments the attempt counter; the two
// failure paths are indistinguishable in both message and timing.
func (g *UnlockGate) Unlock(ctx context.Context, passphrase []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(passphrase) == 0 {
		return common.ErrEmptyPassphrase
	}

	switch g.state {
	case StateAwaitingUnlock, StateAwaitingSetup, StateLocked:
		// allowed; AwaitingSetup runs against the decoy salt
	case StateUnlocked:
		return nil
	default:
		return fmt.Errorf("%w: gate not initialized", common.ErrInternal)
	}

	prev := g.state
	g.state = StateUnlocking

	key := cryptox.DeriveKey(passphrase, g.salt)
	candidate := cryptox.DeriveVerificationToken(key)

	if err := ctx.Err(); err != nil {
		common.WipeByteArray(key)
		g.state = prev
		return err
	}

	haveDiary := 0
	if !g.isNew {
		haveDiary = 1
	}
	match := subtle.ConstantTimeCompare(g.token, candidate) & haveDiary

	if match != 1 {
		common.WipeByteArray(key)
		g.failedAttempts++
		g.state = StateAwaitingUnlock
		if g.isNew {
			g.state = StateAwaitingSetup
		}
		return common.ErrIncorrectPassphrase
	}

	g.session.install(key)
	g.state = StateUnlocked
	g.logger.Info(ctx, "diary unlocked")
	return nil
}

// Lock clears the session key synchronously and transitions to Locked.
// Calling Lock when already locked is a no-op, not an error.
func (g *UnlockGate) Lock() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateUnlocked {
		return
	}
	g.session.clear()
	g.state = StateLocked
}

// State returns the current gate state.
func (g *UnlockGate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// IsNew reports whether the diary has never been set up.
func (g *UnlockGate) IsNew() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isNew
}

// FailedAttempts returns the number of failed unlock attempts, for external
// rate limiting or backoff.
func (g *UnlockGate) FailedAttempts() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.failedAttempts
}

// SaltB64 returns the stored diary salt, base64-encoded. Empty for a diary
// that has not completed setup.
func (g *UnlockGate) SaltB64() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.isNew {
		return ""
	}
	return base64.StdEncoding.EncodeToString(g.salt)
}

// VerificationToken returns the stored verification token, base64-encoded.
// Empty for a diary that has not completed setup.
func (g *UnlockGate) VerificationToken() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.isNew {
		return ""
	}
	return base64.StdEncoding.EncodeToString(g.token)
}
