// Package models holds the server-side persistence models.
package models

// User is an account holder. The server never sees the account password:
// it stores the client-chosen auth salt and the verifier derived from the
// password on the client.
type User struct {
	ID       string
	Email    string
	Salt     []byte
	Verifier []byte
}
