package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"newsdesk/internal/domain/entity"
	pg "newsdesk/internal/infra/adapter/persistence/postgres"
)

func TestAdminUserRepo_GetByEmail(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	want := &entity.AdminUser{
		ID: uuid.New(), Email: "admin@example.com",
		PasswordHash: "$2a$12$hash", CreatedAt: now,
	}

	// メールアドレスは正規化してから検索する
	mock.ExpectQuery(regexp.QuoteMeta("WHERE lower(email) = $1")).
		WithArgs("admin@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow(want.ID.String(), want.Email, want.PasswordHash, want.CreatedAt))

	got, err := pg.NewAdminUserRepo(db).GetByEmail(context.Background(), "  Admin@Example.com ")
	if err != nil {
		t.Fatalf("GetByEmail err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestAdminUserRepo_GetByEmail_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM admin_user").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}))

	got, err := pg.NewAdminUserRepo(db).GetByEmail(context.Background(), "nobody@example.com")
	if err != nil || got != nil {
		t.Fatalf("want (nil, nil), got (%v, %v)", got, err)
	}
}

func TestAdminUserRepo_GetByEmail_DBError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM admin_user").WillReturnError(errors.New("timeout"))

	if _, err := pg.NewAdminUserRepo(db).GetByEmail(context.Background(), "a@b.c"); err == nil {
		t.Fatal("expected error")
	}
}

func TestAdminUserRepo_Upsert(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	u := &entity.AdminUser{
		ID: uuid.New(), Email: "Admin@Example.com",
		PasswordHash: "$2a$12$hash", CreatedAt: time.Now(),
	}
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (lower(email)) DO UPDATE")).
		WithArgs(u.ID, "admin@example.com", u.PasswordHash, u.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := pg.NewAdminUserRepo(db).Upsert(context.Background(), u); err != nil {
		t.Fatalf("Upsert err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
