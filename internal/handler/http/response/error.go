package response

import (
	"errors"
	"net/http"

	"github.com/peoplekit/absence-backend-go/internal/domain/absence"
	"github.com/peoplekit/absence-backend-go/internal/domain/auth"
	"github.com/peoplekit/absence-backend-go/internal/domain/employee"
	"github.com/peoplekit/absence-backend-go/internal/domain/user"
	"github.com/peoplekit/absence-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Overlap conflicts carry the colliding records back to the caller.
	var overlapErr *absence.OverlapError
	if errors.As(err, &overlapErr) {
		OverlapConflict(w, overlapErr.Error(), absence.ToResponses(overlapErr.Records))
		return
	}

	// Resolving a record that is no longer pending names its current status.
	var stateErr *absence.InvalidStateError
	if errors.As(err, &stateErr) {
		BadRequest(w, stateErr.Error(), nil)
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrEmailNotVerified):
		Forbidden(w, "Email not verified")
	case errors.Is(err, auth.ErrNoGoogleAccount):
		Forbidden(w, "No account linked to this google identity")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")

	// User domain errors
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrNoEmployeeProfile):
		BadRequest(w, "No employee profile linked to this account", nil)
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrEmployeeInactive):
		BadRequest(w, "Employee is not active", nil)

	// Absence domain errors
	case errors.Is(err, absence.ErrRecordNotFound):
		NotFound(w, "Absence record not found")
	case errors.Is(err, absence.ErrEndBeforeStart):
		BadRequest(w, "End date is before start date", nil)
	case errors.Is(err, absence.ErrRecurrenceTarget):
		BadRequest(w, "Linked earlier sickness record not found", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
