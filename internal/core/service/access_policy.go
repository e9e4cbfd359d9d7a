package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/binarcar/car-rental/internal/core/domain"
	"github.com/binarcar/car-rental/internal/core/ports"
)

// TokenVerifier abstracts token verification for the access policy.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

type accessPolicy struct {
	tokens TokenVerifier
	users  ports.UserRepository
	roles  ports.RoleRepository
	log    zerolog.Logger
}

// NewAccessPolicy returns the policy used by the authorization middleware.
func NewAccessPolicy(tokens TokenVerifier, users ports.UserRepository, roles ports.RoleRepository, log zerolog.Logger) ports.AccessPolicy {
	return &accessPolicy{tokens: tokens, users: users, roles: roles, log: log}
}

// Resolve verifies the token, then loads the user and the user's current role
// from storage. The role embedded in the token only has to be a recognised
// name; the decision itself is made on the stored role.
func (p *accessPolicy) Resolve(ctx context.Context, token string, required ...domain.RoleName) (*domain.Principal, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims, err := p.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}

	if _, err := domain.ParseRoleName(claims.Role); err != nil {
		p.log.Warn().Str("user_id", claims.UserID).Str("role", claims.Role).Msg("token carries unknown role")
		return nil, fmt.Errorf("%w: %w", domain.ErrForbidden, err)
	}

	user, err := p.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	role, err := p.roles.FindByID(ctx, user.RoleID)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.ErrForbidden, err)
		}
		return nil, fmt.Errorf("resolve role: %w", err)
	}
	if _, err := domain.ParseRoleName(string(role.Name)); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrForbidden, err)
	}

	if len(required) > 0 && !slices.Contains(required, role.Name) {
		p.log.Debug().Str("user_id", user.ID).Str("role", string(role.Name)).Msg("role not permitted")
		return nil, domain.ErrForbidden
	}

	return &domain.Principal{User: user, Role: role}, nil
}
