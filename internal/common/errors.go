// Package common defines shared constants and sentinel errors used across
// client and server layers of walletscope. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors, rejected before any crypto or network call.
	ErrValidation      = errors.New("validation error")
	ErrEmptyPassphrase = errors.New("passphrase must not be empty")
	ErrEmptyNoteText   = errors.New("note text must not be empty")

	// Diary lifecycle errors.
	ErrAlreadyInitialized  = errors.New("diary already initialized")
	ErrIncorrectPassphrase = errors.New("incorrect passphrase")
	ErrLocked              = errors.New("diary is locked")
	ErrDecryptFailed       = errors.New("decryption failed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	ErrAlreadyExists = errors.New("already exists")
)
