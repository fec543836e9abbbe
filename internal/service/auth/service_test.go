package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/service/auth"
	"newsdesk/pkg/security/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

/* ───────── スタブ実装 ───────── */

type stubUsers struct {
	users   map[string]*entity.AdminUser
	err     error
	lookups []string
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*entity.AdminUser, error) {
	s.lookups = append(s.lookups, email)
	if s.err != nil {
		return nil, s.err
	}
	return s.users[email], nil
}

func (s *stubUsers) Upsert(_ context.Context, u *entity.AdminUser) error {
	if s.err != nil {
		return s.err
	}
	s.users[u.Email] = u
	return nil
}

var now = time.Date(2024, 12, 25, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*auth.Service, *stubUsers) {
	t.Helper()
	hasher := password.NewHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("correct horse")
	require.NoError(t, err)

	users := &stubUsers{users: map[string]*entity.AdminUser{
		"admin@example.com": {Email: "admin@example.com", PasswordHash: hash},
	}}
	return &auth.Service{
		Users:  users,
		TTL:    30 * time.Minute,
		Hasher: hasher,
		Now:    func() time.Time { return now },
	}, users
}

func TestAuthenticate_Success(t *testing.T) {
	svc, users := newService(t)

	sess, err := svc.Authenticate(context.Background(), "  Admin@Example.com ", "correct horse")
	require.NoError(t, err)

	assert.True(t, sess.Authenticated)
	assert.Equal(t, now.Add(30*time.Minute), sess.Expiry)
	assert.Equal(t, []string{"admin@example.com"}, users.lookups)
}

func TestAuthenticate_Failures(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "admin@example.com", "wrong"},
		{"unknown email", "nobody@example.com", "correct horse"},
		{"empty email", "", "correct horse"},
		{"empty password", "admin@example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)

			sess, err := svc.Authenticate(context.Background(), tt.email, tt.password)

			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
			assert.False(t, sess.Authenticated)
			assert.False(t, sess.Valid(now))
		})
	}
}

func TestAuthenticate_StoreError(t *testing.T) {
	svc, users := newService(t)
	users.err = errors.New("connection refused")

	_, err := svc.Authenticate(context.Background(), "admin@example.com", "correct horse")

	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.ErrorIs(t, err, users.err)
}

func TestAuthenticate_DefaultTTL(t *testing.T) {
	svc, _ := newService(t)
	svc.TTL = 0

	sess, err := svc.Authenticate(context.Background(), "admin@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, now.Add(auth.DefaultSessionTTL), sess.Expiry)
}

func TestSession_Valid(t *testing.T) {
	tests := []struct {
		name string
		sess auth.Session
		want bool
	}{
		{"zero value", auth.Session{}, false},
		{"authenticated and fresh", auth.Session{Authenticated: true, Expiry: now.Add(time.Minute)}, true},
		{"expired", auth.Session{Authenticated: true, Expiry: now.Add(-time.Second)}, false},
		{"expiry equals now", auth.Session{Authenticated: true, Expiry: now}, false},
		{"not authenticated", auth.Session{Expiry: now.Add(time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sess.Valid(now))
		})
	}
}

func TestSession_Touch(t *testing.T) {
	sess := auth.Session{Authenticated: true, Expiry: now.Add(time.Minute)}

	later := now.Add(50 * time.Minute)
	touched := sess.Touch(later, time.Hour)

	assert.Equal(t, later.Add(time.Hour), touched.Expiry)
	assert.True(t, touched.Valid(later.Add(59*time.Minute)))
	// 元の値は変わらない
	assert.Equal(t, now.Add(time.Minute), sess.Expiry)
}

/* ───────── Provision ───────── */

func TestProvision_CreatesUsableAccount(t *testing.T) {
	svc, users := newService(t)

	user, err := svc.Provision(context.Background(), "  Editor@Example.com ", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, "editor@example.com", user.Email)
	assert.Equal(t, now, user.CreatedAt)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.Same(t, user, users.users["editor@example.com"])

	sess, err := svc.Authenticate(context.Background(), "editor@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)
}

func TestProvision_ReplacesPassword(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Provision(context.Background(), "admin@example.com", "brand new password")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "admin@example.com", "correct horse")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = svc.Authenticate(context.Background(), "admin@example.com", "brand new password")
	assert.NoError(t, err)
}

func TestProvision_Validation(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		pw        string
		wantField string
	}{
		{name: "empty email", email: " ", pw: "long enough", wantField: "email"},
		{name: "no at sign", email: "admin.example.com", pw: "long enough", wantField: "email"},
		{name: "short password", email: "a@b.c", pw: "1234567", wantField: "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users := newService(t)
			before := len(users.users)

			_, err := svc.Provision(context.Background(), tt.email, tt.pw)

			vErr, ok := entity.AsValidationError(err)
			require.True(t, ok, "want *ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Len(t, users.users, before)
		})
	}
}

func TestProvision_StoreError(t *testing.T) {
	svc, users := newService(t)
	users.err = errors.New("connection refused")

	_, err := svc.Provision(context.Background(), "new@example.com", "long enough")

	require.Error(t, err)
	assert.ErrorIs(t, err, users.err)
	assert.Contains(t, err.Error(), "provision admin")
}
