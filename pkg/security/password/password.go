// Package password hashes and verifies admin passwords with bcrypt.
//
// Plaintext passwords are never logged or returned in errors.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 12

// ErrEmptyPassword is returned by Hash when the password is empty.
var ErrEmptyPassword = errors.New("password is required")

// Hasher hashes passwords with a fixed bcrypt cost.
type Hasher struct {
	Cost int
}

// NewHasher returns a Hasher using cost, clamped to bcrypt's accepted range.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{Cost: cost}
}

// Hash returns a salted bcrypt hash of plain.
func (h *Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		// bcrypt rejects passwords longer than 72 bytes
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Hash hashes plain with DefaultCost.
func Hash(plain string) (string, error) {
	return NewHasher(DefaultCost).Hash(plain)
}

// Verify reports whether plain matches hash. It returns false for malformed
// hashes instead of failing.
func Verify(plain, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
