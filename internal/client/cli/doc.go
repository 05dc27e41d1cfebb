// Package cli implements the interactive WalletScope client: a REPL over
// the encrypted diary controller and the backend REST API.
//
// The command surface mirrors the diary life cycle: register/login for the
// account, setup/unlock/lock for the passphrase gate, add/list/edit/del for
// notes, scope to switch between the global diary and per-wallet diaries,
// and sync to replay queued offline changes.
//
// Secrets hygiene: passphrases are read without echo (x/term) and wiped as
// soon as they have been handed to the controller. The session key lives
// only inside the diary package.
package cli
