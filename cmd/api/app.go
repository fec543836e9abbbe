package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"newsdesk/internal/config"
	hhttp "newsdesk/internal/handler/http"
	"newsdesk/internal/handler/http/admin"
	hauth "newsdesk/internal/handler/http/auth"
	"newsdesk/internal/handler/http/middleware"
	"newsdesk/internal/handler/http/public"
	"newsdesk/internal/handler/http/requestid"
	"newsdesk/internal/handler/http/session"
	"newsdesk/internal/handler/http/view"
	"newsdesk/internal/observability/tracing"
	"newsdesk/internal/repository"
	authservice "newsdesk/internal/service/auth"
	newsUC "newsdesk/internal/usecase/news"
	"newsdesk/pkg/security/csp"
	"newsdesk/pkg/security/password"

	_ "newsdesk/docs" // swagger docs

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// deps are the storage dependencies of the application.
type deps struct {
	DB     *sql.DB // health checks only; may be nil in tests
	News   repository.NewsRepository
	Admins repository.AdminUserRepository
}

// app is the assembled HTTP application.
type app struct {
	Handler      http.Handler
	LoginLimiter *middleware.RateLimiter
}

// newApp wires use cases, handlers and the middleware chain.
func newApp(cfg *config.Config, logger *slog.Logger, d deps) (*app, error) {
	views, err := view.New(logger)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	trusted, err := middleware.ParseTrustedProxies(cfg.Security.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	var extractor middleware.IPExtractor = &middleware.RemoteAddrExtractor{}
	if len(trusted) > 0 {
		extractor = &middleware.TrustedProxyExtractor{Trusted: trusted}
		logger.Info("trusted proxies configured", slog.Int("count", len(trusted)))
	}

	newsSvc := &newsUC.Service{Repo: d.News}
	authSvc := &authservice.Service{
		Users:  d.Admins,
		TTL:    cfg.Session.TTL,
		Hasher: password.NewHasher(cfg.Security.BcryptCost),
	}
	sessions := session.NewManager([]byte(cfg.Session.SecretKey), session.Options{
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.CookieSecure,
		TTL:        cfg.Session.TTL,
	})
	authHandler := &hauth.Handler{Auth: authSvc, Sessions: sessions, Views: views}
	loginLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Requests:  cfg.Security.LoginRateLimit,
		Window:    cfg.Security.LoginRateWindow,
		Extractor: extractor,
		Denied:    http.HandlerFunc(authHandler.Throttled),
	})

	mux := http.NewServeMux()
	public.Register(mux, newsSvc, views)
	admin.Register(mux, newsSvc, views, sessions)
	authHandler.Register(mux, loginLimiter.Middleware)

	mux.Handle("GET /static/", http.StripPrefix("/static/", view.Static()))
	mux.Handle("GET /health", &hhttp.HealthHandler{
		DB:           d.DB,
		Version:      cfg.Version,
		LoginLimiter: loginLimiter,
		CSPEnabled:   cfg.Security.CSPEnabled,
	})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: d.DB})
	mux.Handle("GET /live", hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	// API ドキュメントは管理者のみ
	mux.Handle("GET /swagger/", hauth.RequirePage(sessions)(httpSwagger.WrapHandler))

	serverError := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		views.Render(w, http.StatusInternalServerError, view.PageServerError, nil)
	})
	cspMW := middleware.CSP(middleware.CSPConfig{
		Enabled:       cfg.Security.CSPEnabled,
		DefaultPolicy: csp.PagePolicy(),
		PathPolicies: map[string]*csp.Builder{
			"/health":   csp.APIPolicy(),
			"/ready":    csp.APIPolicy(),
			"/live":     csp.APIPolicy(),
			"/metrics":  csp.APIPolicy(),
			"/swagger/": csp.SwaggerUIPolicy(),
		},
		ReportOnly: cfg.Security.CSPReportOnly,
	})
	if !cfg.Security.CSPEnabled {
		logger.Warn("CSP is disabled")
	}

	// 先頭が最も外側
	handler := hhttp.Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.Recover(logger, serverError),
		hhttp.LimitRequestBody(cfg.Security.MaxBodyBytes),
		cspMW,
		hhttp.MetricsMiddleware,
	)

	return &app{Handler: handler, LoginLimiter: loginLimiter}, nil
}

// runLimiterCleanup drops idle login limiter entries until ctx is done.
func (a *app) runLimiterCleanup(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.LoginLimiter.Cleanup()
		}
	}
}
