// Package session stores the admin session record in a signed cookie.
//
// The record is encoded as an HS256 JWT. Nothing but the authenticated flag
// and the expiry is kept, so the cookie never carries credentials.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"newsdesk/internal/service/auth"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultCookieName is the name of the session cookie.
const DefaultCookieName = "newsdesk_session"

var (
	// ErrNoSession is returned by Load when the request carries no session cookie.
	ErrNoSession = errors.New("no session")
	// ErrInvalidSession is returned by Load when the cookie is tampered, expired or malformed.
	ErrInvalidSession = errors.New("invalid session")
)

type claims struct {
	Admin bool `json:"adm"`
	jwt.RegisteredClaims
}

// Options configures a Manager.
type Options struct {
	CookieName string
	// Secure marks the cookie Secure. Leave false for plain HTTP development.
	Secure bool
	// TTL is the sliding inactivity timeout. Defaults to auth.DefaultSessionTTL.
	TTL time.Duration
	Now func() time.Time
}

// Manager loads and saves auth.Session values as signed cookies.
type Manager struct {
	secret     []byte
	cookieName string
	secure     bool
	ttl        time.Duration
	now        func() time.Time
}

// NewManager returns a Manager signing with secret.
func NewManager(secret []byte, opts Options) *Manager {
	m := &Manager{
		secret:     secret,
		cookieName: opts.CookieName,
		secure:     opts.Secure,
		ttl:        opts.TTL,
		now:        opts.Now,
	}
	if m.ttl <= 0 {
		m.ttl = auth.DefaultSessionTTL
	}
	if m.cookieName == "" {
		m.cookieName = DefaultCookieName
	}
	if m.now == nil {
		m.now = func() time.Time { return time.Now().UTC() }
	}
	return m
}

// Now returns the manager's clock reading.
func (m *Manager) Now() time.Time {
	return m.now()
}

// TTL returns the inactivity timeout applied when a session is refreshed.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Load decodes the session carried by r.
func (m *Manager) Load(r *http.Request) (auth.Session, error) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return auth.Session{}, ErrNoSession
	}

	var cl claims
	_, err = jwt.ParseWithClaims(c.Value, &cl, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return auth.Session{}, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	return auth.Session{Authenticated: cl.Admin, Expiry: cl.ExpiresAt.Time.UTC()}, nil
}

// Save writes sess to w as the session cookie.
func (m *Manager) Save(w http.ResponseWriter, sess auth.Session) error {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Admin: sess.Authenticated,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(m.now()),
			ExpiresAt: jwt.NewNumericDate(sess.Expiry),
		},
	})
	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	maxAge := int(sess.Expiry.Sub(m.now()).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	http.SetCookie(w, m.cookie(signed, maxAge))
	return nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", -1))
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
