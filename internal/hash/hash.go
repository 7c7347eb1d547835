// Package hash is the single place passwords are hashed and checked.
// Hashing happens explicitly where a password value is set, never through
// a persistence hook, so re-saving an account without a password edit
// cannot rehash.
package hash

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/accsvc-dev/accsvc/internal/logger"
)

// Cost matches the salt rounds used since the first deployment. Changing it
// only affects newly written hashes; Verify handles any cost.
const Cost = 10

// Password returns a salted bcrypt hash of plaintext. Two calls on the same
// input produce different hashes.
func Password(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plaintext matches hashed. The comparison is
// constant-time with respect to the stored hash. A malformed hash yields
// false, never a panic.
func Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
