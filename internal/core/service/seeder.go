package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/binarcar/car-rental/internal/core/domain"
	"github.com/binarcar/car-rental/internal/core/ports"
)

const demoPassword = "123456"

// DemoUsers are the customer accounts created by SeedDemoUsers.
var DemoUsers = []struct{ Name, Email string }{
	{"Johnny", "johnny@binar.co.id"},
	{"Fikri", "fikri@binar.co.id"},
	{"Brian", "brian@binar.co.id"},
	{"Ranggawarsita", "ranggawarsita@binar.co.id"},
	{"Jayabaya", "jayabaya@binar.co.id"},
}

// SeedDemoUsers creates the demo customers that do not exist yet. Running it
// again is a no-op.
func SeedDemoUsers(ctx context.Context, users ports.UserRepository, roles ports.RoleRepository, hasher Hasher, log zerolog.Logger) error {
	role, err := roles.FindByName(ctx, domain.RoleCustomer)
	if err != nil {
		return fmt.Errorf("seed users: resolve %s role: %w", domain.RoleCustomer, err)
	}

	digest, err := hasher.Hash(demoPassword)
	if err != nil {
		return fmt.Errorf("seed users: hash password: %w", err)
	}

	created := 0
	for _, demo := range DemoUsers {
		_, err := users.FindByEmail(ctx, demo.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("seed users: lookup %s: %w", demo.Email, err)
		}

		now := time.Now().UTC()
		err = users.Create(ctx, &domain.User{
			ID:                uuid.NewString(),
			Name:              demo.Name,
			Email:             demo.Email,
			EncryptedPassword: digest,
			RoleID:            role.ID,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
		if err != nil && !errors.Is(err, domain.ErrEmailTaken) {
			return fmt.Errorf("seed users: create %s: %w", demo.Email, err)
		}
		if err == nil {
			created++
		}
	}

	log.Info().Int("created", created).Int("total", len(DemoUsers)).Msg("demo users seeded")
	return nil
}
