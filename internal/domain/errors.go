package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound signals an unknown review id. It propagates to callers as a
// distinguishable failure (404 at the HTTP boundary).
var ErrNotFound = errors.New("review not found")

// ValidationError is malformed filter or action input; surfaced
// immediately, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
