package db

import (
	"database/sql"
	"fmt"
)

// MigrateUp creates the news and admin_user tables and their indexes.
// Every statement is idempotent so it runs on each startup.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS news (
    id           UUID PRIMARY KEY,
    title        VARCHAR(500) NOT NULL,
    slug         VARCHAR(200) NOT NULL UNIQUE,
    summary      TEXT NOT NULL,
    content      TEXT NOT NULL,
    tags         TEXT[] NOT NULL DEFAULT '{}',
    status       VARCHAR(20) NOT NULL DEFAULT 'draft',
    published_at TIMESTAMPTZ,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    CONSTRAINT chk_news_status CHECK (status IN ('draft', 'published')),
    CONSTRAINT chk_news_publication CHECK (
        (status = 'draft' AND published_at IS NULL) OR
        (status = 'published' AND published_at IS NOT NULL)
    )
)`); err != nil {
		return fmt.Errorf("create news table: %w", err)
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS admin_user (
    id            UUID PRIMARY KEY,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return fmt.Errorf("create admin_user table: %w", err)
	}

	indexes := []string{
		// 公開一覧: WHERE status = 'published' ORDER BY published_at DESC
		`CREATE INDEX IF NOT EXISTS idx_news_status_published_at ON news(status, published_at DESC)`,
		// 管理画面の一覧
		`CREATE INDEX IF NOT EXISTS idx_news_created_at ON news(created_at DESC)`,
		// タグ絞り込み ($1 = ANY(tags))
		`CREATE INDEX IF NOT EXISTS idx_news_tags ON news USING gin(tags)`,
		// メールアドレスは大文字小文字を区別せず一意
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_admin_user_email_lower ON admin_user(lower(email))`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}

// MigrateDown drops everything MigrateUp created.
// Use with caution: this deletes all news and admin accounts.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS news`,
		`DROP TABLE IF EXISTS admin_user`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	}

	return nil
}
