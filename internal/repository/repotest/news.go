// Package repotest provides in-memory repositories for handler and use case
// tests.
package repotest

import (
	"context"
	"sort"
	"sync"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"

	"github.com/google/uuid"
)

// NewsStore is an in-memory repository.NewsRepository. Err, when set, is
// returned by every method. Writes counts Create and Delete calls and
// Update calls that reach the write.
type NewsStore struct {
	mu     sync.Mutex
	items  map[uuid.UUID]*entity.News
	Err    error
	Writes int
}

var _ repository.NewsRepository = (*NewsStore)(nil)

// NewNewsStore returns a store holding items.
func NewNewsStore(items ...*entity.News) *NewsStore {
	s := &NewsStore{items: make(map[uuid.UUID]*entity.News)}
	for _, n := range items {
		s.items[n.ID] = n
	}
	return s
}

// Item returns the stored item with id, or nil.
func (s *NewsStore) Item(id uuid.UUID) *entity.News {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id]
}

// Len returns the number of stored items.
func (s *NewsStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *NewsStore) published(tag string) []*entity.News {
	out := []*entity.News{}
	for _, n := range s.items {
		if !n.IsPublished() {
			continue
		}
		if tag != "" && !hasTag(n, tag) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(*out[j].PublishedAt) })
	return out
}

func hasTag(n *entity.News, tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (s *NewsStore) ListPublished(_ context.Context) ([]*entity.News, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.published(""), nil
}

func (s *NewsStore) ListPublishedByTag(_ context.Context, tag string) ([]*entity.News, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.published(tag), nil
}

func (s *NewsStore) ListAll(_ context.Context) ([]*entity.News, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]*entity.News, 0, len(s.items))
	for _, n := range s.items {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *NewsStore) Get(_ context.Context, id uuid.UUID) (*entity.News, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.items[id], nil
}

func (s *NewsStore) GetPublishedBySlug(_ context.Context, slug string) (*entity.News, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, n := range s.items {
		if n.Slug == slug && n.IsPublished() {
			return n, nil
		}
	}
	return nil, nil
}

func (s *NewsStore) slugTaken(n *entity.News) bool {
	for id, other := range s.items {
		if id != n.ID && other.Slug == n.Slug {
			return true
		}
	}
	return false
}

func (s *NewsStore) Create(_ context.Context, n *entity.News) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Writes++
	if s.Err != nil {
		return s.Err
	}
	if s.slugTaken(n) {
		return repository.ErrDuplicateSlug
	}
	s.items[n.ID] = n
	return nil
}

func (s *NewsStore) Update(_ context.Context, id uuid.UUID, fn repository.UpdateFunc) (*entity.News, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	current, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return current, nil
	}
	s.Writes++
	if s.slugTaken(next) {
		return nil, repository.ErrDuplicateSlug
	}
	s.items[id] = next
	return next, nil
}

func (s *NewsStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Writes++
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.items[id]; !ok {
		return repository.ErrNoRows
	}
	delete(s.items, id)
	return nil
}
