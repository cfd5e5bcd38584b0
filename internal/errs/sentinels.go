// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across backend/service layers.
var (
	// ErrValidation indicates input rejected before any network call (empty fields).
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates the backend rejected the session credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., username taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyCart indicates checkout was attempted without an active cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrBusy indicates a mutating operation was rejected because another is in flight.
	ErrBusy = errors.New("operation in flight")
)
