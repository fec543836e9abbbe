package admin_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/handler/http/admin"
	"newsdesk/internal/handler/http/session"
	"newsdesk/internal/handler/http/view"
	"newsdesk/internal/repository/repotest"
	authservice "newsdesk/internal/service/auth"
	newsUC "newsdesk/internal/usecase/news"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

/* ───────── テスト用ヘルパー ───────── */

var fixedNow = time.Date(2024, 12, 25, 9, 0, 0, 0, time.UTC)

type testServer struct {
	mux    *http.ServeMux
	store  *repotest.NewsStore
	cookie *http.Cookie
}

func newServer(t *testing.T, items ...*entity.News) *testServer {
	t.Helper()
	views, err := view.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	sessions := session.NewManager([]byte("test-secret-key-with-at-least-32-characters"), session.Options{
		Now: func() time.Time { return fixedNow },
	})
	rec := httptest.NewRecorder()
	require.NoError(t, sessions.Save(rec, authservice.Session{Authenticated: true, Expiry: fixedNow.Add(time.Hour)}))

	store := repotest.NewNewsStore(items...)
	svc := &newsUC.Service{Repo: store, Now: func() time.Time { return fixedNow }}

	mux := http.NewServeMux()
	admin.Register(mux, svc, views, sessions)
	return &testServer{mux: mux, store: store, cookie: rec.Result().Cookies()[0]}
}

func (s *testServer) do(req *http.Request, authenticated bool) *httptest.ResponseRecorder {
	if authenticated {
		req.AddCookie(s.cookie)
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req, true)
}

func (s *testServer) sendJSON(method, path, body string, authenticated bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, authenticated)
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil), true)
}

func stored(title, slug string, status entity.Status) *entity.News {
	n := &entity.News{
		ID:        uuid.New(),
		Title:     title,
		Slug:      slug,
		Summary:   "summary",
		Content:   "content",
		Tags:      []string{},
		Status:    status,
		CreatedAt: fixedNow.Add(-time.Hour),
		UpdatedAt: fixedNow.Add(-time.Hour),
	}
	if status == entity.StatusPublished {
		at := fixedNow.Add(-time.Hour)
		n.PublishedAt = &at
	}
	return n
}
