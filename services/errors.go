package services

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the domain services. Handlers translate them to
// HTTP codes; anything not matching is treated as an internal error. Delivery
// failures are not part of this set; the router swallows and counts them.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("not allowed")
	ErrInvalidState    = errors.New("invalid state")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError reports malformed caller input, detected before any
// mutation. The message is safe to return to the client verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
