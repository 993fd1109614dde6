package repository

import "errors"

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a user insert violates the unique
// email constraint.
var ErrDuplicateEmail = errors.New("email already taken")
