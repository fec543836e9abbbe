package pathutil

import (
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a news ID taken from a path segment
// (typically r.PathValue("id")).
//
// Returns ErrInvalidID if raw is not a UUID or is the nil UUID.
//
//	id, err := ParseID(r.PathValue("id"))
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}
