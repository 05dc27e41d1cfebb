// Package cryptox implements the cryptographic core of the diary:
// passphrase key derivation (Argon2id), verification tokens (HKDF-SHA256
// expand), and AEAD sealing of note payloads (AES-256-GCM).
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"

	"github.com/walletscope/walletscope/internal/common"
)

const (
	// KeyLen is the length of the derived AES-256 session key in bytes.
	KeyLen = 32

	// SaltLen is the length of a freshly generated diary salt in bytes.
	SaltLen = 32

	// TokenLen is the length of a verification token in bytes.
	TokenLen = 32
)

// verifyTokenLabel domain-separates the verification token from any
// encryption use of the derived key. Changing it invalidates stored tokens.
const verifyTokenLabel = "walletscope/diary verification token v1"

// DeriveKey derives the symmetric session key from a passphrase and salt
// using Argon2id. Deterministic: same inputs always yield the same key.
// The parameters (t=1, m=64MiB, p=4) keep a leaked ciphertext set resistant
// to offline brute force even for weak passphrases.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeyLen)
}

// DeriveVerificationToken derives a token the server can compare on unlock
// without learning the passphrase or the key. The token is an HKDF-SHA256
// expansion of the key under a fixed label never used for encryption, so
// reconstructing the key from the token is computationally infeasible.
func DeriveVerificationToken(key []byte) []byte {
	r := hkdf.Expand(sha256.New, key, []byte(verifyTokenLabel))
	token := make([]byte, TokenLen)
	if _, err := io.ReadFull(r, token); err != nil {
		// hkdf cannot fail for a single-block read
		panic(err)
	}
	return token
}

// Seal encrypts plain with AES-256-GCM under a freshly generated random
// nonce. The ciphertext and nonce are returned separately; the ciphertext is
// only meaningful together with its nonce and the correct key.
func Seal(plain, key []byte) (ciphertext, nonce []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	nonce = common.GenerateRandByteArray(aesgcm.NonceSize())
	ciphertext = aesgcm.Seal(nil, nonce, plain, nil)
	return ciphertext, nonce, nil
}

// Open decrypts ciphertext with AES-256-GCM. Any authentication failure
// (tampered ciphertext, wrong nonce, wrong key) is reported as
// common.ErrDecryptFailed without further detail; corrupted plaintext is
// never returned.
func Open(ciphertext, nonce, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return nil, common.ErrDecryptFailed
	}

	plain, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, common.ErrDecryptFailed
	}
	return plain, nil
}
