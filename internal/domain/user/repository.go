package user

import "context"

// Repository is the persistence contract for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// ListIDs returns every user ID, oldest account first. Used by the
	// background view refresher.
	ListIDs(ctx context.Context) ([]string, error)
}
