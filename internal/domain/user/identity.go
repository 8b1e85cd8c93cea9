package user

import "context"

// Identity is the authenticated caller, resolved once per request by the
// auth middleware and passed down instead of being re-derived from claims
// in every handler.
type Identity struct {
	UserID     string
	Email      string
	EmployeeID *string
	Role       Role
}

// Can reports whether the identity's role grants the permission.
func (i Identity) Can(permission Permission) bool {
	return HasPermission(i.Role, permission)
}

// OwnsEmployee reports whether the identity is linked to the given employee.
func (i Identity) OwnsEmployee(employeeID string) bool {
	return i.EmployeeID != nil && *i.EmployeeID == employeeID
}

type identityCtxKey struct{}

// NewContext returns a context carrying the identity.
func NewContext(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// IdentityFromContext extracts the identity set by the auth middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(Identity)
	return identity, ok
}
