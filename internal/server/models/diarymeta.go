package models

import "time"

// DiaryMeta is the per-user diary header: the KDF salt and the verification
// token the client checks a candidate passphrase against. The server cannot
// derive the diary key from either.
type DiaryMeta struct {
	UserID            string
	Salt              []byte
	VerificationToken []byte
	CreatedAt         time.Time
}
