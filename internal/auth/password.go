// Package auth provides password hashing and bearer token utilities.
package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the hashing cost used when none is configured.
// Cost 10 keeps interactive login latency acceptable.
const DefaultBcryptCost = 10

// PasswordHasher produces and verifies salted one-way password hashes.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher with the given bcrypt cost.
// Costs outside bcrypt's supported range fall back to the default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of the plaintext password.
// bcrypt generates a random salt per call, so two hashes of the same
// plaintext differ.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(digest(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare reports whether the plaintext password matches the stored hash.
// The underlying comparison is constant-time. A malformed stored hash is
// treated as a mismatch rather than an error.
func (h *PasswordHasher) Compare(password, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), digest(password)) == nil
}

// digest reduces the plaintext to a fixed 44-byte input before bcrypt
// sees it. bcrypt rejects inputs over 72 bytes, so without this step
// passwords at the upper end of the accepted length could not be
// hashed; digesting keeps every byte of the password significant.
func digest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
