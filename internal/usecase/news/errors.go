// Package news provides use cases for managing news items.
// It implements the public read paths and the admin write paths on top of
// the news repository, keeping entity validation ahead of every store call.
package news

import "errors"

// Sentinel errors for news use case operations.
var (
	// ErrNewsNotFound indicates that the requested item does not exist, or is
	// not visible to the caller (drafts on public read paths).
	ErrNewsNotFound = errors.New("news not found")

	// ErrInvalidNewsID indicates that the provided ID is not a valid news ID.
	ErrInvalidNewsID = errors.New("invalid news ID")

	// ErrDuplicateSlug indicates that another item already uses the slug.
	ErrDuplicateSlug = errors.New("news with this slug already exists")
)
