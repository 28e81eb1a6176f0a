package ports

import (
	"context"

	"github.com/fitexperts/experts-api/internal/core/domain"
)

// UserRepository persists expert accounts.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrUserExists when the email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateProfile applies all changes in a single write and returns the stored user.
	UpdateProfile(ctx context.Context, id string, changes []domain.ProfileChange) (*domain.User, error)
}
