package middleware

import (
	"fmt"
	"net/http"

	"github.com/peoplekit/absence-backend-go/internal/domain/user"
	"github.com/peoplekit/absence-backend-go/internal/handler/http/response"
)

// RequirePermission checks the resolved identity against the permission table.
// Must run after ResolveIdentity.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := user.IdentityFromContext(r.Context())
			if !ok {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			if !identity.Can(permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, identity.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
