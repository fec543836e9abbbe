package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"
)

type AdminUserRepo struct {
	db *sql.DB
}

func NewAdminUserRepo(db *sql.DB) repository.AdminUserRepository {
	return &AdminUserRepo{db: db}
}

func (repo *AdminUserRepo) GetByEmail(ctx context.Context, email string) (_ *entity.AdminUser, err error) {
	ctx, done := startQuery(ctx, "GetAdminByEmail")
	defer func() { done(err) }()

	const query = `
SELECT id, email, password_hash, created_at
FROM admin_user
WHERE lower(email) = $1
LIMIT 1`
	var u entity.AdminUser
	err = repo.db.QueryRowContext(ctx, query, entity.NormalizeEmail(email)).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByEmail: %w", err)
	}
	return &u, nil
}

func (repo *AdminUserRepo) Upsert(ctx context.Context, u *entity.AdminUser) (err error) {
	ctx, done := startQuery(ctx, "UpsertAdmin")
	defer func() { done(err) }()

	const query = `
INSERT INTO admin_user (id, email, password_hash, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (lower(email)) DO UPDATE
   SET password_hash = EXCLUDED.password_hash`
	_, err = repo.db.ExecContext(ctx, query,
		u.ID, entity.NormalizeEmail(u.Email), u.PasswordHash, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}
