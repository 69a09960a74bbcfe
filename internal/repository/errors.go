package repository

import (
	"errors"
	"strings"
)

// ErrDuplicateEmail is returned when a unique email constraint is violated.
var ErrDuplicateEmail = errors.New("email already in use")

// isUniqueViolation matches the Postgres duplicate-key error without pulling
// driver error codes into every call site.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}
