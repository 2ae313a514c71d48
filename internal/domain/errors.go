package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist or belongs to another user. The two cases are
// deliberately indistinguishable to callers.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. rating out of range, malformed country code).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write would violate a uniqueness constraint,
// such as signing up with an email that is already registered.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized is returned for bad credentials or an invalid token.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrUpstream wraps a failure reported by an external collaborator (places
// lookup, photo storage). The wrapping error carries the upstream's reason.
// Handlers should map this to HTTP 502.
var ErrUpstream = errors.New("upstream error")

// ErrUnavailable is returned when an upstream is temporarily refused by the
// circuit breaker. Handlers should map this to HTTP 503.
var ErrUnavailable = errors.New("upstream unavailable")
