package ports

import (
	"context"

	"github.com/binarcar/car-rental/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create stores a new user. Returns domain.ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// RoleRepository resolves the seeded role reference data.
type RoleRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)
}
