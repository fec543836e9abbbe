package entity

import (
	"errors"
	"fmt"
)

// ErrValidationFailed is matched by every *ValidationError through errors.Is,
// so callers that only need the category do not have to unwrap.
var ErrValidationFailed = errors.New("validation failed")

// ValidationError names the field that was rejected and why. Message is
// phrased to follow the field name ("is required", "must be ...").
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// AsValidationError extracts a *ValidationError from err's chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
