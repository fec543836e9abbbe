// Command api serves the public news pages, the admin panel and the admin
// JSON API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsdesk/internal/config"
	pgRepo "newsdesk/internal/infra/adapter/persistence/postgres"
	"newsdesk/internal/infra/db"
	"newsdesk/internal/observability/logging"
	"newsdesk/internal/observability/tracing"
	"newsdesk/internal/resilience/retry"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// @title           Newsdesk Admin API
// @version         1.0
// @description     ニュース記事の作成・部分更新を行う管理用 JSON API
// @BasePath        /

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name newsdesk_session
// @description ログイン後に発行されるセッションクッキー
func main() {
	cfg, err := config.Load()
	if err != nil {
		// ロガー設定前なので既定ロガーで出力
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var exporters []sdktrace.SpanExporter
	exp, err := tracing.NewOTLPExporter(ctx, cfg.Tracing.OTLPEndpoint)
	if err != nil {
		return err
	}
	if exp != nil {
		exporters = append(exporters, exp)
		logger.Info("exporting traces", slog.String("endpoint", cfg.Tracing.OTLPEndpoint))
	}
	shutdownTracing := tracing.Init(exporters...)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	if err := db.MigrateUp(database); err != nil {
		return err
	}

	app, err := newApp(cfg, logger, deps{
		DB:     database,
		News:   pgRepo.NewNewsRepo(database),
		Admins: pgRepo.NewAdminUserRepo(database),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		app.runLimiterCleanup(gctx, cfg.Security.LoginRateWindow)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// openDatabase connects to Postgres, retrying while the server is still
// starting up.
func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	var database *sql.DB
	err := retry.WithBackoff(ctx, retry.StartupConfig(), "open database", func(ctx context.Context) error {
		d, err := db.Open(ctx, cfg.DatabaseURL, db.ConnectionConfig{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		})
		if err != nil {
			return err
		}
		database = d
		return nil
	})
	return database, err
}
