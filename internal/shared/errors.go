package shared

import "errors"

var (

	// common errors
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")

	// auth-specific errors
	ErrInvalidToken            = errors.New("invalid token")
	ErrInvalidAuthHeaderFormat = errors.New("invalid auth header format")
	ErrUnauthorized            = errors.New("unauthorized")

	// batch-specific errors
	ErrOwnershipMismatch = errors.New("batch contains records not owned by caller")

	// upload-specific errors
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)
