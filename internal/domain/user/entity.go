package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // HR administrator - full access
	RoleHR       Role = "hr"       // HR staff - can file and resolve absences
	RoleManager  Role = "manager"  // Can approve absences for their reports
	RoleEmployee Role = "employee" // Regular employee
)

type User struct {
	ID              string
	Email           string
	PasswordHash    *string
	Role            Role
	OAuthProvider   *string
	OAuthProviderID *string
	EmailVerified   bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO / Join
	EmployeeID *string
}

// IsAdmin checks if user is an HR administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanApprove checks if user can resolve absence requests
func (u *User) CanApprove() bool {
	return u.Role == RoleAdmin || u.Role == RoleHR || u.Role == RoleManager
}
