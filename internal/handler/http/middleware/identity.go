package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/peoplekit/absence-backend-go/internal/domain/auth"
	"github.com/peoplekit/absence-backend-go/internal/domain/user"
	"github.com/peoplekit/absence-backend-go/internal/handler/http/response"
)

// ResolveIdentity builds the caller's identity from the verified token claims
// once, so handlers and services never re-parse claims.
func ResolveIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		identity := user.Identity{UserID: userID}
		if email, ok := claims["email"].(string); ok {
			identity.Email = email
		}
		if roleStr, ok := claims["role"].(string); ok {
			identity.Role = user.Role(roleStr)
		}
		if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
			identity.EmployeeID = &employeeID
		}

		ctx := user.NewContext(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
