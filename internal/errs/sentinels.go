// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateAWB indicates a unique-constraint violation on the waybill code.
	// Callers should treat it as retryable with a freshly generated code.
	ErrDuplicateAWB = errors.New("duplicate awb code")

	// ErrUnauthorized indicates failed authentication, regardless of cause.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation indicates invalid caller input rejected before any store mutation.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyFile indicates an uploaded file with no data rows.
	ErrEmptyFile = errors.New("uploaded file is empty")
)
