package models

import "time"

// Note is one encrypted diary record. Ciphertext and nonce are opaque to the
// server; scope, type, and tags are client-supplied routing metadata.
type Note struct {
	ID         string
	UserID     string
	Scope      string
	Type       string
	Tags       []string
	Ciphertext []byte
	Nonce      []byte
	CreatedAt  time.Time
	EditedAt   *time.Time
}
