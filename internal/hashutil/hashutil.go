package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the SHA-256 hex digest of plaintext. It is used as the
// storage and lookup key for card numbers and PINs so that plaintext
// values are never persisted.
func Digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
