package repository

import (
	"context"

	"newsdesk/internal/domain/entity"
)

// AdminUserRepository reads and seeds administrator accounts.
type AdminUserRepository interface {
	// GetByEmail looks the admin up by normalized email. Returns (nil, nil) if absent.
	GetByEmail(ctx context.Context, email string) (*entity.AdminUser, error)
	// Upsert inserts the admin or replaces the password hash of the existing one.
	Upsert(ctx context.Context, user *entity.AdminUser) error
}
