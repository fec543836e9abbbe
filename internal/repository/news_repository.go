package repository

import (
	"context"

	"newsdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateFunc derives the new state of an item from its stored state.
// Returning (nil, nil) leaves the item untouched.
type UpdateFunc func(current *entity.News) (*entity.News, error)

// NewsRepository persists News items.
//
// Getters return (nil, nil) when no row matches. Create and Update return
// ErrDuplicateSlug when the slug is already taken by another item.
type NewsRepository interface {
	// ListPublished returns published items ordered by published_at DESC.
	ListPublished(ctx context.Context) ([]*entity.News, error)
	// ListPublishedByTag returns published items carrying tag, newest first.
	ListPublishedByTag(ctx context.Context, tag string) ([]*entity.News, error)
	// ListAll returns every item regardless of status, most recently created first.
	ListAll(ctx context.Context) ([]*entity.News, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.News, error)
	// GetPublishedBySlug returns the published item with slug; drafts are not returned.
	GetPublishedBySlug(ctx context.Context, slug string) (*entity.News, error)
	Create(ctx context.Context, news *entity.News) error
	// Update reads the item with id and stores fn's result in one step, so
	// concurrent updates of the same item are serialized. It returns the
	// stored item, ErrNoRows when id does not exist, and fn's error unchanged
	// (nothing is written in that case).
	Update(ctx context.Context, id uuid.UUID, fn UpdateFunc) (*entity.News, error)
	// Delete removes the item. It returns ErrNoRows when nothing was deleted.
	Delete(ctx context.Context, id uuid.UUID) error
}
