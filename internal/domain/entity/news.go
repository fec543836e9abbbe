// Package entity defines the core domain entities and validation logic for the application.
// It contains the News item and the AdminUser, along with their validation rules,
// normalization helpers and domain-specific errors.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a News item.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	return s == StatusDraft || s == StatusPublished
}

// displayDateLayout is the DD/MM/YYYY layout used on public pages.
const displayDateLayout = "02/01/2006"

// News represents a news item managed through the admin panel.
// Values are built by NewNews and modified by Apply, so a News held by the
// rest of the application always satisfies the status/publication invariant:
// a draft has no PublishedAt, a published item always has one.
type News struct {
	ID          uuid.UUID
	Title       string
	Slug        string
	Summary     string
	Content     string
	Tags        []string
	Status      Status
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewsInput carries the fields of a News item to be created.
type NewsInput struct {
	Title       string
	Slug        string
	Summary     string
	Content     string
	Tags        []string
	Status      Status // empty means draft
	PublishedAt *time.Time
}

// NewsPatch carries a partial update. Nil fields are left unchanged.
type NewsPatch struct {
	Title       *string
	Slug        *string
	Summary     *string
	Content     *string
	Tags        *[]string
	Status      *Status
	PublishedAt *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p NewsPatch) IsEmpty() bool {
	return p.Title == nil && p.Slug == nil && p.Summary == nil && p.Content == nil &&
		p.Tags == nil && p.Status == nil && p.PublishedAt == nil
}

// NewNews validates and normalizes in and returns a new News item stamped with now.
// It returns a *ValidationError naming the offending field when in is invalid.
func NewNews(in NewsInput, now time.Time) (*News, error) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}
	slug, err := NormalizeSlug(in.Slug)
	if err != nil {
		return nil, err
	}
	summary, err := validateRequired("summary", in.Summary)
	if err != nil {
		return nil, err
	}
	content, err := validateRequired("content", in.Content)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = StatusDraft
	}
	if !status.IsValid() {
		return nil, &ValidationError{Field: "status", Message: "must be draft or published"}
	}

	publishedAt, err := reconcilePublication(status, in.PublishedAt, nil, now)
	if err != nil {
		return nil, err
	}

	return &News{
		ID:          uuid.New(),
		Title:       title,
		Slug:        slug,
		Summary:     summary,
		Content:     content,
		Tags:        NormalizeTags(in.Tags),
		Status:      status,
		PublishedAt: publishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Apply returns a copy of n with p applied. Provided fields go through the same
// normalization and validation as NewNews, and the status/publication rule is
// checked against the merged result. n is never modified.
func (n News) Apply(p NewsPatch, now time.Time) (*News, error) {
	out := n
	out.Tags = append([]string(nil), n.Tags...)

	if p.Title != nil {
		title, err := validateTitle(*p.Title)
		if err != nil {
			return nil, err
		}
		out.Title = title
	}
	if p.Slug != nil {
		slug, err := NormalizeSlug(*p.Slug)
		if err != nil {
			return nil, err
		}
		out.Slug = slug
	}
	if p.Summary != nil {
		summary, err := validateRequired("summary", *p.Summary)
		if err != nil {
			return nil, err
		}
		out.Summary = summary
	}
	if p.Content != nil {
		content, err := validateRequired("content", *p.Content)
		if err != nil {
			return nil, err
		}
		out.Content = content
	}
	if p.Tags != nil {
		out.Tags = NormalizeTags(*p.Tags)
	}
	if p.Status != nil {
		if !p.Status.IsValid() {
			return nil, &ValidationError{Field: "status", Message: "must be draft or published"}
		}
		out.Status = *p.Status
	}

	publishedAt, err := reconcilePublication(out.Status, p.PublishedAt, n.PublishedAt, now)
	if err != nil {
		return nil, err
	}
	out.PublishedAt = publishedAt
	out.UpdatedAt = now
	return &out, nil
}

// reconcilePublication returns the publication date for an item in status,
// given the requested date and the date the item currently carries.
func reconcilePublication(status Status, requested, current *time.Time, now time.Time) (*time.Time, error) {
	switch status {
	case StatusDraft:
		if requested != nil {
			return nil, &ValidationError{
				Field:   "published_at",
				Message: "cannot be set on a draft",
			}
		}
		return nil, nil
	default:
		if requested != nil {
			t := *requested
			return &t, nil
		}
		if current != nil {
			t := *current
			return &t, nil
		}
		t := now
		return &t, nil
	}
}

// IsPublished reports whether the item is visible to public readers.
func (n *News) IsPublished() bool {
	return n.Status == StatusPublished
}

// PublishedAtFormatted returns the publication date as DD/MM/YYYY, or an
// empty string for drafts.
func (n *News) PublishedAtFormatted() string {
	if n.PublishedAt == nil {
		return ""
	}
	return n.PublishedAt.Format(displayDateLayout)
}
