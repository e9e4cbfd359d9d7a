package ports

import (
	"context"

	"github.com/binarcar/car-rental/internal/core/domain"
)

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	User        *domain.User
	Role        *domain.Role
	AccessToken string
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// AccessPolicy resolves a bearer token into the principal stored for it and
// checks the principal's current role against the required ones. An empty
// required list accepts any recognised role.
type AccessPolicy interface {
	Resolve(ctx context.Context, token string, required ...domain.RoleName) (*domain.Principal, error)
}
