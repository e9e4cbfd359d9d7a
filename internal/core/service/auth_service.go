package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/binarcar/car-rental/internal/core/domain"
	"github.com/binarcar/car-rental/internal/core/ports"
	"github.com/binarcar/car-rental/internal/pkg/metrics"
)

// Hasher abstracts the credential hashing primitive.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(password, digest string) bool
}

// TokenIssuer abstracts token issuance.
type TokenIssuer interface {
	Issue(user *domain.User, role *domain.Role) (string, error)
}

// AuthService implements registration and login.
type AuthService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	hasher Hasher
	tokens TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, roles ports.RoleRepository, hasher Hasher, tokens TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, roles: roles, hasher: hasher, tokens: tokens, log: log}
}

// Register creates a CUSTOMER account and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	role, err := s.roles.FindByName(ctx, domain.RoleCustomer)
	if err != nil {
		return nil, fmt.Errorf("register: default role: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:                uuid.NewString(),
		Name:              name,
		Email:             email,
		EncryptedPassword: digest,
		RoleID:            role.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.tokens.Issue(user, role)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user registered")

	return &ports.AuthResult{User: user, Role: role, AccessToken: token}, nil
}

// Login checks the password and issues a token carrying the user's current role.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "unknown_user").Inc()
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Compare(password, user.EncryptedPassword) {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "bad_password").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	role, err := s.roles.FindByID(ctx, user.RoleID)
	if err != nil {
		return nil, fmt.Errorf("login: role: %w", err)
	}

	token, err := s.tokens.Issue(user, role)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	s.log.Debug().Str("user_id", user.ID).Msg("user logged in")

	return &ports.AuthResult{User: user, Role: role, AccessToken: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
