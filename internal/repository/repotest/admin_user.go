package repotest

import (
	"context"
	"sync"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"
)

// AdminUserStore is an in-memory repository.AdminUserRepository keyed by
// normalized email.
type AdminUserStore struct {
	mu    sync.Mutex
	users map[string]*entity.AdminUser
	Err   error
}

var _ repository.AdminUserRepository = (*AdminUserStore)(nil)

// NewAdminUserStore returns a store holding users.
func NewAdminUserStore(users ...*entity.AdminUser) *AdminUserStore {
	s := &AdminUserStore{users: make(map[string]*entity.AdminUser)}
	for _, u := range users {
		s.users[entity.NormalizeEmail(u.Email)] = u
	}
	return s
}

func (s *AdminUserStore) GetByEmail(_ context.Context, email string) (*entity.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.users[entity.NormalizeEmail(email)], nil
}

func (s *AdminUserStore) Upsert(_ context.Context, u *entity.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	key := entity.NormalizeEmail(u.Email)
	if existing, ok := s.users[key]; ok {
		existing.PasswordHash = u.PasswordHash
		return nil
	}
	s.users[key] = u
	return nil
}
