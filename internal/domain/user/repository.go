package user

import "context"

// UserRepository - interface for users table
type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, u User) error
	// ListIDsByRoles returns the user ids holding any of the given roles,
	// used as the distribution list for admin notifications.
	ListIDsByRoles(ctx context.Context, roles []Role) ([]string, error)
}
