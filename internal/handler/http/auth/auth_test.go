package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"newsdesk/internal/handler/http/session"
	"newsdesk/internal/handler/http/view"
	authservice "newsdesk/internal/service/auth"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* ───────── テスト用ヘルパー ───────── */

var (
	testSecret = []byte("test-secret-key-with-at-least-32-characters")
	testNow    = time.Date(2024, 12, 25, 9, 0, 0, 0, time.UTC)
)

type fakeRenderer struct {
	status int
	name   string
	data   any
}

func (f *fakeRenderer) Render(w http.ResponseWriter, status int, name string, data any) {
	f.status, f.name, f.data = status, name, data
	w.WriteHeader(status)
}

type fakeAuth struct {
	sess authservice.Session
	err  error

	email, password string
}

func (f *fakeAuth) Authenticate(_ context.Context, email, password string) (authservice.Session, error) {
	f.email, f.password = email, password
	return f.sess, f.err
}

func newManager(clock *time.Time) *session.Manager {
	return session.NewManager(testSecret, session.Options{
		TTL: time.Hour,
		Now: func() time.Time { return *clock },
	})
}

func sessionCookie(t *testing.T, mgr *session.Manager, sess authservice.Session) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, mgr.Save(rec, sess))
	return rec.Result().Cookies()[0]
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

/* ───────── ゲート ───────── */

func TestRequirePage(t *testing.T) {
	clock := testNow
	mgr := newManager(&clock)
	valid := sessionCookie(t, mgr, authservice.Session{Authenticated: true, Expiry: testNow.Add(time.Hour)})
	notAdmin := sessionCookie(t, mgr, authservice.Session{Authenticated: false, Expiry: testNow.Add(time.Hour)})

	tests := []struct {
		name     string
		cookie   *http.Cookie
		wantCode int
	}{
		{"no cookie", nil, http.StatusFound},
		{"valid session", valid, http.StatusOK},
		{"not authenticated", notAdmin, http.StatusFound},
		{"tampered", &http.Cookie{Name: session.DefaultCookieName, Value: valid.Value + "x"}, http.StatusFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()

			RequirePage(mgr)(okHandler).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusFound {
				assert.Equal(t, LoginPath, rec.Header().Get("Location"))
			}
		})
	}
}

func TestRequireAPI_Unauthorized(t *testing.T) {
	clock := testNow
	mgr := newManager(&clock)

	rec := httptest.NewRecorder()
	RequireAPI(mgr)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/news", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
}

func TestGate_SlidingExpiry(t *testing.T) {
	clock := testNow
	mgr := newManager(&clock)
	c := sessionCookie(t, mgr, authservice.Session{Authenticated: true, Expiry: testNow.Add(time.Hour)})

	// 50分後のアクセスで有効期限が延長される
	clock = testNow.Add(50 * time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(c)
	rec := httptest.NewRecorder()
	RequireAPI(mgr)(okHandler).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	refreshed := rec.Result().Cookies()
	require.Len(t, refreshed, 1)

	// 元のクッキーは期限切れだが、再発行されたものは有効
	clock = testNow.Add(70 * time.Minute)
	old := httptest.NewRequest(http.MethodGet, "/admin", nil)
	old.AddCookie(c)
	rec = httptest.NewRecorder()
	RequirePage(mgr)(okHandler).ServeHTTP(rec, old)
	assert.Equal(t, http.StatusFound, rec.Code)

	fresh := httptest.NewRequest(http.MethodGet, "/admin", nil)
	fresh.AddCookie(refreshed[0])
	rec = httptest.NewRecorder()
	RequirePage(mgr)(okHandler).ServeHTTP(rec, fresh)
	assert.Equal(t, http.StatusOK, rec.Code)
}

/* ───────── ログイン ───────── */

func postLogin(h *Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, LoginPath, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func TestLoginPage(t *testing.T) {
	views := &fakeRenderer{}
	h := &Handler{Views: views}

	rec := httptest.NewRecorder()
	h.LoginPage(rec, httptest.NewRequest(http.MethodGet, LoginPath+"?error=1", nil))

	assert.Equal(t, http.StatusOK, views.status)
	assert.Equal(t, view.PageLogin, views.name)
	assert.Equal(t, view.LoginPage{Error: true}, views.data)

	h.LoginPage(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, LoginPath, nil))
	assert.Equal(t, view.LoginPage{Error: false}, views.data)
}

func TestLogin_Success(t *testing.T) {
	clock := testNow
	mgr := newManager(&clock)
	authn := &fakeAuth{sess: authservice.Session{Authenticated: true, Expiry: testNow.Add(time.Hour)}}
	h := &Handler{Auth: authn, Sessions: mgr, Views: &fakeRenderer{}}

	rec := postLogin(h, url.Values{"email": {"admin@example.com"}, "password": {"secret"}})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
	assert.Equal(t, "admin@example.com", authn.email)
	assert.Equal(t, "secret", authn.password)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(cookies[0])
	sess, err := mgr.Load(req)
	require.NoError(t, err)
	assert.True(t, sess.Valid(testNow))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	clock := testNow
	h := &Handler{
		Auth:     &fakeAuth{err: authservice.ErrInvalidCredentials},
		Sessions: newManager(&clock),
		Views:    &fakeRenderer{},
	}

	rec := postLogin(h, url.Values{"email": {"admin@example.com"}, "password": {"wrong"}})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, LoginPath+"?error=1", rec.Header().Get("Location"))
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogin_StoreFailure(t *testing.T) {
	clock := testNow
	views := &fakeRenderer{}
	h := &Handler{
		Auth:     &fakeAuth{err: errors.New("authenticate: connection refused")},
		Sessions: newManager(&clock),
		Views:    views,
	}

	rec := postLogin(h, url.Values{"email": {"admin@example.com"}, "password": {"x"}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, view.PageServerError, views.name)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogout(t *testing.T) {
	clock := testNow
	h := &Handler{Sessions: newManager(&clock)}

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/admin/logout", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestRegister_ThrottlesLoginOnly(t *testing.T) {
	clock := testNow
	h := &Handler{
		Auth:     &fakeAuth{err: authservice.ErrInvalidCredentials},
		Sessions: newManager(&clock),
		Views:    &fakeRenderer{},
	}
	blocked := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	mux := http.NewServeMux()
	h.Register(mux, blocked)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, LoginPath, nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, LoginPath, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestThrottled_RendersLoginPage(t *testing.T) {
	views := &fakeRenderer{}
	h := &Handler{Views: views}

	before := testutil.ToFloat64(authRequestsTotal.WithLabelValues(resultThrottled))
	rec := httptest.NewRecorder()
	h.Throttled(rec, httptest.NewRequest(http.MethodPost, LoginPath, nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, view.PageLogin, views.name)
	assert.Equal(t, view.LoginPage{Throttled: true}, views.data)
	assert.Equal(t, before+1, testutil.ToFloat64(authRequestsTotal.WithLabelValues(resultThrottled)))
}
