// Package diary implements the end-to-end encrypted annotation layer of
// walletscope: passphrase-gated sessions, an encrypted note store with an
// offline retry queue, and a controller exposing global and per-wallet
// views over one shared session key.
package diary

import (
	"sort"
	"strings"
	"time"

	"github.com/walletscope/walletscope/internal/diary/remote"
)

// Scope binds a note either to the whole watchlist or to one tracked wallet.
type Scope string

// ScopeGlobal is the whole-watchlist scope.
const ScopeGlobal Scope = "global"

// WalletScope returns the scope for a single tracked wallet address.
func WalletScope(address string) Scope {
	return Scope(address)
}

// NoteType classifies a note.
type NoteType string

const (
	NoteTypeThought  NoteType = "thought"
	NoteTypeStrategy NoteType = "strategy"
	NoteTypeTodo     NoteType = "todo"
	NoteTypeNote     NoteType = "note"
)

// Valid reports whether t is one of the known note types.
func (t NoteType) Valid() bool {
	switch t {
	case NoteTypeThought, NoteTypeStrategy, NoteTypeTodo, NoteTypeNote:
		return true
	}
	return false
}

// Note is a decrypted note as held in memory during an unlocked session.
// Plaintext exists only here; it is never persisted or logged.
type Note struct {
	ID        string
	Text      string
	Scope     Scope
	Type      NoteType
	Tags      []string
	CreatedAt time.Time
	EditedAt  *time.Time
}

// lastTouched is the timestamp used for last-write-wins ordering.
func (n *Note) lastTouched() time.Time {
	if n.EditedAt != nil {
		return *n.EditedAt
	}
	return n.CreatedAt
}

// Filter narrows List results. Zero-value fields match everything.
type Filter struct {
	Scope  *Scope
	Type   *NoteType
	Tag    string
	Search string
}

func (f Filter) matches(n *Note) bool {
	if f.Scope != nil && n.Scope != *f.Scope {
		return false
	}
	if f.Type != nil && n.Type != *f.Type {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, tag := range n.Tags {
			if tag == f.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(n.Text), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// sortNewestFirst orders notes by creation time, newest first.
func sortNewestFirst(notes []Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
}

// toRecord converts a note plus its sealed payload into the wire shape.
func toRecord(n *Note, ciphertext, nonce []byte) *remote.NoteRecord {
	return &remote.NoteRecord{
		ID:         n.ID,
		Ciphertext: ciphertext,
		Nonce:      nonce,
		Scope:      string(n.Scope),
		Type:       string(n.Type),
		Tags:       n.Tags,
		CreatedAt:  n.CreatedAt,
		EditedAt:   n.EditedAt,
	}
}
