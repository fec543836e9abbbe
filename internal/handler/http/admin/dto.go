package admin

import (
	"time"

	"newsdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// DTO is the JSON representation of a news item.
type DTO struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	Content     string     `json:"content"`
	Tags        []string   `json:"tags"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toDTO(n *entity.News) DTO {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return DTO{
		ID:          n.ID,
		Title:       n.Title,
		Slug:        n.Slug,
		Summary:     n.Summary,
		Content:     n.Content,
		Tags:        tags,
		Status:      string(n.Status),
		PublishedAt: n.PublishedAt,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

// createRequest is the body of POST /admin/news. Status defaults to draft.
type createRequest struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	Content     string     `json:"content"`
	Tags        []string   `json:"tags"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at"`
}

// patchRequest is the body of PATCH /admin/news/{id}. Absent fields are left unchanged.
type patchRequest struct {
	Title       *string    `json:"title"`
	Slug        *string    `json:"slug"`
	Summary     *string    `json:"summary"`
	Content     *string    `json:"content"`
	Tags        *[]string  `json:"tags"`
	Status      *string    `json:"status"`
	PublishedAt *time.Time `json:"published_at"`
}

func (p patchRequest) toPatch() entity.NewsPatch {
	patch := entity.NewsPatch{
		Title:       p.Title,
		Slug:        p.Slug,
		Summary:     p.Summary,
		Content:     p.Content,
		Tags:        p.Tags,
		PublishedAt: p.PublishedAt,
	}
	if p.Status != nil {
		s := entity.Status(*p.Status)
		patch.Status = &s
	}
	return patch
}
