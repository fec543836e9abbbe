package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AdminUser is an administrator allowed to sign in to the admin panel.
// PasswordHash holds a bcrypt hash; the plaintext password is never stored.
type AdminUser struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NormalizeEmail trims and lowercases an email address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
