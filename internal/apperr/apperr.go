// Package apperr defines the domain error taxonomy. Services wrap these
// sentinels with context; handlers translate them to HTTP statuses.
package apperr

import "errors"

var (
	// ErrNotFound - the requested id or email does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict - a uniqueness constraint was violated.
	ErrConflict = errors.New("already exists")
	// ErrUnauthorized - bad credentials, locked-out or unconfirmed account,
	// expired or invalid token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotAuthorized - identity is known but insufficiently privileged.
	// Kept generic so a denial never reveals whether the target exists.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrPatch - malformed or inapplicable json-patch document.
	ErrPatch = errors.New("patch failed")
	// ErrValidation - malformed input shape.
	ErrValidation = errors.New("invalid request")
	// ErrUpstream - an external collaborator failed.
	ErrUpstream = errors.New("upstream service error")
)
