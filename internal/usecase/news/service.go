package news

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/observability/metrics"
	"newsdesk/internal/repository"

	"github.com/google/uuid"
)

// Service provides news management use cases.
// Validation happens before anything is written, and each logical write
// results in exactly one repository call.
type Service struct {
	Repo repository.NewsRepository
	// Now returns the current time. Defaults to time.Now in UTC.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// ListPublished returns the published items, newest publication first.
func (s *Service) ListPublished(ctx context.Context) ([]*entity.News, error) {
	items, err := s.Repo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published news: %w", err)
	}
	metrics.UpdateNewsPublished(len(items))
	return items, nil
}

// ListPublishedByTag returns the published items carrying tag.
// The tag is normalized the same way tags are normalized on write.
func (s *Service) ListPublishedByTag(ctx context.Context, tag string) ([]*entity.News, error) {
	tags := entity.NormalizeTags([]string{tag})
	if len(tags) == 0 {
		return []*entity.News{}, nil
	}
	items, err := s.Repo.ListPublishedByTag(ctx, tags[0])
	if err != nil {
		return nil, fmt.Errorf("list news by tag: %w", err)
	}
	return items, nil
}

// ListAll returns every item regardless of status, for the admin dashboard.
func (s *Service) ListAll(ctx context.Context) ([]*entity.News, error) {
	items, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all news: %w", err)
	}
	return items, nil
}

// Get retrieves a single item by ID regardless of its status.
// Returns ErrInvalidNewsID for the nil UUID and ErrNewsNotFound if absent.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*entity.News, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidNewsID
	}

	n, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get news: %w", err)
	}
	if n == nil {
		return nil, ErrNewsNotFound
	}
	return n, nil
}

// GetPublishedBySlug retrieves a published item by slug.
// Drafts are reported as ErrNewsNotFound.
func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (*entity.News, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, ErrNewsNotFound
	}

	n, err := s.Repo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get news by slug: %w", err)
	}
	// 念のためステータスも確認する
	if n == nil || !n.IsPublished() {
		return nil, ErrNewsNotFound
	}
	return n, nil
}

// Create validates in and stores a new item.
// When in.Slug is blank the slug is derived from the title.
// Returns a *entity.ValidationError if any field is invalid and
// ErrDuplicateSlug if the slug is already taken.
func (s *Service) Create(ctx context.Context, in entity.NewsInput) (*entity.News, error) {
	if strings.TrimSpace(in.Slug) == "" && strings.TrimSpace(in.Title) != "" {
		in.Slug = entity.Slugify(in.Title)
	}

	n, err := entity.NewNews(in, s.now())
	if err != nil {
		metrics.RecordNewsWrite(metrics.OpCreate, metrics.ResultInvalid)
		return nil, err
	}

	if err := s.Repo.Create(ctx, n); err != nil {
		metrics.RecordNewsWrite(metrics.OpCreate, resultOf(err))
		return nil, translateWriteError("create news", err)
	}
	metrics.RecordNewsWrite(metrics.OpCreate, metrics.ResultSuccess)
	return n, nil
}

// Update applies p to the item identified by id and stores the result in a
// single repository call. The status/publication rule is enforced on the
// merged item. An empty patch returns the current item without writing.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p entity.NewsPatch) (*entity.News, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidNewsID
	}

	now := s.now()
	updated, err := s.Repo.Update(ctx, id, func(current *entity.News) (*entity.News, error) {
		if p.IsEmpty() {
			return nil, nil
		}
		return current.Apply(p, now)
	})
	if _, ok := entity.AsValidationError(err); ok {
		metrics.RecordNewsWrite(metrics.OpUpdate, metrics.ResultInvalid)
		return nil, err
	}
	if err != nil {
		metrics.RecordNewsWrite(metrics.OpUpdate, resultOf(err))
		return nil, translateWriteError("update news", err)
	}
	if !p.IsEmpty() {
		metrics.RecordNewsWrite(metrics.OpUpdate, metrics.ResultSuccess)
	}
	return updated, nil
}

// Publish marks the item as published. A nil at keeps an existing
// publication date or uses the current time.
func (s *Service) Publish(ctx context.Context, id uuid.UUID, at *time.Time) (*entity.News, error) {
	status := entity.StatusPublished
	return s.Update(ctx, id, entity.NewsPatch{Status: &status, PublishedAt: at})
}

// Delete removes the item identified by id.
// Returns ErrNewsNotFound if nothing was deleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrInvalidNewsID
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		metrics.RecordNewsWrite(metrics.OpDelete, resultOf(err))
		return translateWriteError("delete news", err)
	}
	metrics.RecordNewsWrite(metrics.OpDelete, metrics.ResultSuccess)
	return nil
}

func translateWriteError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateSlug):
		return ErrDuplicateSlug
	case errors.Is(err, repository.ErrNoRows):
		return ErrNewsNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, repository.ErrDuplicateSlug):
		return metrics.ResultConflict
	case errors.Is(err, repository.ErrNoRows):
		return metrics.ResultNotFound
	default:
		return metrics.ResultError
	}
}
