package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// uniqueViolation is the SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

const newsColumns = `id, title, slug, summary, content, tags, status, published_at, created_at, updated_at`

type NewsRepo struct {
	db *sql.DB
}

func NewNewsRepo(db *sql.DB) repository.NewsRepository {
	return &NewsRepo{db: db}
}

func (repo *NewsRepo) ListPublished(ctx context.Context) ([]*entity.News, error) {
	const query = `
SELECT ` + newsColumns + `
FROM news
WHERE status = 'published'
ORDER BY published_at DESC`
	return repo.list(ctx, "ListPublished", query)
}

func (repo *NewsRepo) ListPublishedByTag(ctx context.Context, tag string) ([]*entity.News, error) {
	const query = `
SELECT ` + newsColumns + `
FROM news
WHERE status = 'published'
  AND $1 = ANY(tags)
ORDER BY published_at DESC`
	return repo.list(ctx, "ListPublishedByTag", query, tag)
}

func (repo *NewsRepo) ListAll(ctx context.Context) ([]*entity.News, error) {
	const query = `
SELECT ` + newsColumns + `
FROM news
ORDER BY created_at DESC`
	return repo.list(ctx, "ListAll", query)
}

func (repo *NewsRepo) Get(ctx context.Context, id uuid.UUID) (_ *entity.News, err error) {
	ctx, done := startQuery(ctx, "Get")
	defer func() { done(err) }()

	const query = `
SELECT ` + newsColumns + `
FROM news
WHERE id = $1
LIMIT 1`
	n, err := scanNews(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return n, nil
}

func (repo *NewsRepo) GetPublishedBySlug(ctx context.Context, slug string) (_ *entity.News, err error) {
	ctx, done := startQuery(ctx, "GetPublishedBySlug")
	defer func() { done(err) }()

	const query = `
SELECT ` + newsColumns + `
FROM news
WHERE slug = $1
  AND status = 'published'
LIMIT 1`
	n, err := scanNews(repo.db.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetPublishedBySlug: %w", err)
	}
	return n, nil
}

func (repo *NewsRepo) Create(ctx context.Context, n *entity.News) (err error) {
	ctx, done := startQuery(ctx, "Create")
	defer func() { done(err) }()

	const query = `
INSERT INTO news
       (id, title, slug, summary, content, tags, status, published_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = repo.db.ExecContext(ctx, query,
		n.ID, n.Title, n.Slug, n.Summary, n.Content, pq.Array(n.Tags),
		n.Status, n.PublishedAt, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", translateError(err))
	}
	return nil
}

func (repo *NewsRepo) Update(ctx context.Context, id uuid.UUID, fn repository.UpdateFunc) (_ *entity.News, err error) {
	ctx, done := startQuery(ctx, "Update")
	defer func() { done(err) }()

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Update: BeginTx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const selectQuery = `
SELECT ` + newsColumns + `
FROM news
WHERE id = $1
FOR UPDATE`
	current, err := scanNews(tx.QueryRowContext(ctx, selectQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("Update: %w", repository.ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if next == nil {
		if err = tx.Commit(); err != nil {
			return nil, fmt.Errorf("Update: Commit: %w", err)
		}
		return current, nil
	}

	const updateQuery = `
UPDATE news SET
       title        = $1,
       slug         = $2,
       summary      = $3,
       content      = $4,
       tags         = $5,
       status       = $6,
       published_at = $7,
       updated_at   = $8
WHERE id = $9
RETURNING ` + newsColumns
	stored, err := scanNews(tx.QueryRowContext(ctx, updateQuery,
		next.Title, next.Slug, next.Summary, next.Content, pq.Array(next.Tags),
		next.Status, next.PublishedAt, next.UpdatedAt, id,
	))
	if err != nil {
		return nil, fmt.Errorf("Update: %w", translateError(err))
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("Update: Commit: %w", err)
	}
	return stored, nil
}

func (repo *NewsRepo) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, done := startQuery(ctx, "Delete")
	defer func() { done(err) }()

	const query = `DELETE FROM news WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("Delete: %w", repository.ErrNoRows)
	}
	return nil
}

func (repo *NewsRepo) list(ctx context.Context, op, query string, args ...any) (_ []*entity.News, err error) {
	ctx, done := startQuery(ctx, op)
	defer func() { done(err) }()

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*entity.News, 0, 32)
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNews(s rowScanner) (*entity.News, error) {
	var n entity.News
	if err := s.Scan(&n.ID, &n.Title, &n.Slug, &n.Summary, &n.Content,
		pq.Array(&n.Tags), &n.Status, &n.PublishedAt, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return &n, nil
}

// translateError maps driver errors the use cases care about to repository errors.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicateSlug
	}
	return err
}
