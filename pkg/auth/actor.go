package auth

import (
	"slices"

	"github.com/google/uuid"

	"github.com/homescout/homescout-backend/pkg/enums"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
)

// Actor is the authenticated identity passed into every service call.
// The zero value is an anonymous visitor.
type Actor struct {
	UserID   uuid.UUID
	Username string
	Role     enums.Role
}

// Anonymous reports whether no one is signed in.
func (a Actor) Anonymous() bool {
	return a.UserID == uuid.Nil
}

// Is reports whether the actor holds the given role.
func (a Actor) Is(role enums.Role) bool {
	return !a.Anonymous() && a.Role == role
}

// IsStaff reports whether the actor is an employee or admin.
func (a Actor) IsStaff() bool {
	return !a.Anonymous() && a.Role.IsStaff()
}

// Require returns UNAUTHORIZED for anonymous actors and FORBIDDEN when the
// actor's role is not in roles.
func (a Actor) Require(roles ...enums.Role) error {
	if a.Anonymous() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required")
	}
	if !slices.Contains(roles, a.Role) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "role not permitted").
			WithDetails(map[string]any{"role": a.Role})
	}
	return nil
}
