package entities

import "errors"

// Domain errors shared by the repositories and the procedures built on them.
// Storage-level errors are translated onto these by the database package.
var (
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrInvalidInput        = errors.New("invalid input")
)
