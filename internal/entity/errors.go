package entity

import "errors"

// Domain errors
var (
	// ErrUnauthorized means the request carries no resolvable user identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrFileNotFound covers both a missing file and a file owned by another
	// user. The two cases are deliberately indistinguishable to the caller.
	ErrFileNotFound = errors.New("file not found")

	// Validation errors
	ErrMissingField = errors.New("missing required field")
	ErrInvalidField = errors.New("invalid field value")
)
