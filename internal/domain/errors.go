package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing name, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the caller is not the owner of the trip
// being read or mutated. Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write lost a race it cannot recover from
// inside the transaction (serialization failure, deadlock, lock timeout).
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized is returned when a request carries no usable identity.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrStore tags failures of the underlying store that are none of the above.
// The original cause stays in the chain. Handlers map this to HTTP 500.
var ErrStore = errors.New("store error")

// IsKnown reports whether err carries one of the domain error kinds other
// than ErrStore.
func IsKnown(err error) bool {
	for _, target := range []error{ErrNotFound, ErrValidation, ErrForbidden, ErrConflict, ErrUnauthorized} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
