// Package remote defines the wire contract between the diary library and the
// walletscope backend: metadata fetch, one-time setup, and CRUD over
// encrypted note records. The backend only ever sees ciphertext.
package remote

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnavailable covers network errors and 5xx responses. The note store
	// treats it as a signal to switch to offline mode and queue the mutation.
	ErrUnavailable = errors.New("server unavailable")

	// ErrAlreadyInitialized is returned by Setup when the diary metadata for
	// this user has been persisted before.
	ErrAlreadyInitialized = errors.New("diary already initialized")

	// ErrNotFound is returned for operations on unknown note ids.
	ErrNotFound = errors.New("not found")
)

// Metadata is the per-user diary metadata stored server-side.
// Salt and VerificationToken are opaque to the server.
type Metadata struct {
	Salt              []byte `json:"salt"`
	VerificationToken []byte `json:"verification_token"`
	IsNew             bool   `json:"is_new"`
}

// NoteRecord is an encrypted note as stored and transported. Ciphertext is
// only meaningful together with its nonce and the correct session key.
type NoteRecord struct {
	ID         string     `json:"id"`
	Ciphertext []byte     `json:"ciphertext"`
	Nonce      []byte     `json:"nonce"`
	Scope      string     `json:"scope"`
	Type       string     `json:"type"`
	Tags       []string   `json:"tags"`
	CreatedAt  time.Time  `json:"created_at"`
	EditedAt   *time.Time `json:"edited_at,omitempty"`
}

// Client is the transport used by the diary library.
//
// All methods must honor context cancellation/timeouts and report transport
// failures as (wrapped) ErrUnavailable so callers can distinguish "offline"
// from permanent errors.
type Client interface {
	FetchMetadata(ctx context.Context) (*Metadata, error)
	Setup(ctx context.Context, salt, verificationToken []byte) error

	ListNotes(ctx context.Context) ([]*NoteRecord, error)
	CreateNote(ctx context.Context, rec *NoteRecord) error
	UpdateNote(ctx context.Context, rec *NoteRecord) error
	DeleteNote(ctx context.Context, id string) error
}
