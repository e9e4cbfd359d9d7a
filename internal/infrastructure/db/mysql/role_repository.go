package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/binarcar/car-rental/internal/core/domain"
)

// RoleRepository implements ports.RoleRepository on MySQL. Roles are seeded
// by the first migration.
type RoleRepository struct {
	db *sql.DB
}

func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	return r.findOne(ctx, `SELECT id, name FROM roles WHERE id = ?`, id)
}

func (r *RoleRepository) FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	return r.findOne(ctx, `SELECT id, name FROM roles WHERE name = ?`, string(name))
}

func (r *RoleRepository) findOne(ctx context.Context, query string, arg string) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		role domain.Role
		name string
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&role.ID, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find role: %w", err)
	}
	role.Name = domain.RoleName(name)
	return &role, nil
}
