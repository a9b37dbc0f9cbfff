// Package security holds the access-status policy and the
// ownership-or-admin authorization guard.
package security

import (
	"context"
	"fmt"

	"carpool-backend/internal/apperr"
	"carpool-backend/internal/models"
)

// CheckAccess maps an account status to an authentication decision.
// Pure mapping, no side effects; it must be re-evaluated on every
// authentication attempt because the status can change between logins.
//
// Suspended accounts are allowed to authenticate; the restriction to
// profile-only operations is enforced by the services.
func CheckAccess(status models.AccessStatus) error {
	switch status {
	case models.StatusActive, models.StatusAdmin, models.StatusDev, models.StatusSuspended:
		return nil
	case models.StatusLockedOut:
		return fmt.Errorf("%w: locked out after repeated failed attempts", apperr.ErrUnauthorized)
	case models.StatusStaged:
		return fmt.Errorf("%w: email not confirmed yet", apperr.ErrUnauthorized)
	default:
		return fmt.Errorf("%w: not permitted", apperr.ErrUnauthorized)
	}
}

// Principal is the acting identity attached to a request after token
// validation. It is threaded through context, never kept in global state.
type Principal struct {
	ID     int64
	Email  string
	Status models.AccessStatus
}

// IsAdmin reports whether the principal has admin privileges.
func (p Principal) IsAdmin() bool {
	return p.Status == models.StatusAdmin
}

// ResolveID resolves the self-reference shorthand: a target id of 0 means
// "the caller's own id". Callers resolve this before invoking CanActOn.
func (p Principal) ResolveID(id int64) int64 {
	if id == 0 {
		return p.ID
	}
	return id
}

// CanActOn allows the principal to act on a resource owned by targetID if
// it is their own record or they are an admin. The denial is generic on
// purpose: it must not leak whether the target id exists.
func (p Principal) CanActOn(targetID int64) error {
	if p.ID == targetID || p.IsAdmin() {
		return nil
	}
	return apperr.ErrNotAuthorized
}

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal returns a context carrying the acting identity.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom extracts the acting identity from the context.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
