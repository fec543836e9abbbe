// Package auth implements admin authentication independent of HTTP.
// The HTTP gate in internal/handler/http/auth builds on the Session
// returned here.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"
	"newsdesk/pkg/security/password"

	"github.com/google/uuid"
)

// DefaultSessionTTL is the inactivity timeout of an admin session.
const DefaultSessionTTL = time.Hour

// ErrInvalidCredentials is returned for an unknown email and for a wrong
// password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// MinPasswordLength is enforced when an admin account is provisioned.
const MinPasswordLength = 8

// Session is the record kept in the session cookie.
type Session struct {
	Authenticated bool
	Expiry        time.Time
}

// Valid reports whether s grants admin access at now.
func (s Session) Valid(now time.Time) bool {
	return s.Authenticated && now.Before(s.Expiry)
}

// Touch returns s with its expiry moved to now+ttl.
func (s Session) Touch(now time.Time, ttl time.Duration) Session {
	s.Expiry = now.Add(ttl)
	return s
}

// Service authenticates administrators against the admin_user table.
type Service struct {
	Users repository.AdminUserRepository
	// TTL is the session lifetime. Defaults to DefaultSessionTTL.
	TTL time.Duration
	// Hasher produces the dummy hash compared for unknown emails.
	// Defaults to password.DefaultCost.
	Hasher *password.Hasher
	Now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultSessionTTL
}

// dummy returns a hash with the same cost as real ones so that a lookup
// miss costs as much as a wrong password.
func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		h := s.Hasher
		if h == nil {
			h = password.NewHasher(password.DefaultCost)
		}
		s.dummyHash, _ = h.Hash("newsdesk-no-such-admin")
	})
	return s.dummyHash
}

// Authenticate checks email and pw and returns a fresh session on success.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, pw string) (Session, error) {
	email = entity.NormalizeEmail(email)
	if email == "" || pw == "" {
		return Session{}, ErrInvalidCredentials
	}

	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return Session{}, fmt.Errorf("authenticate: %w", err)
	}
	if user == nil {
		// タイミング差で存在有無が漏れないようにダミー比較
		password.Verify(pw, s.dummy())
		return Session{}, ErrInvalidCredentials
	}
	if !password.Verify(pw, user.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}

	return Session{Authenticated: true}.Touch(s.now(), s.ttl()), nil
}

// Provision creates the admin account for email, or replaces its password
// when it already exists. It is used by the newsadmin command, never by HTTP.
func (s *Service) Provision(ctx context.Context, email, pw string) (*entity.AdminUser, error) {
	email = entity.NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, &entity.ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if len(pw) < MinPasswordLength {
		return nil, &entity.ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength),
		}
	}

	h := s.Hasher
	if h == nil {
		h = password.NewHasher(password.DefaultCost)
	}
	hash, err := h.Hash(pw)
	if err != nil {
		return nil, fmt.Errorf("provision admin: %w", err)
	}

	user := &entity.AdminUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.Users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("provision admin: %w", err)
	}
	return user, nil
}
