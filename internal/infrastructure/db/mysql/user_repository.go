package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/binarcar/car-rental/internal/core/domain"
)

// UserRepository implements ports.UserRepository on MySQL.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		INSERT INTO users (id, name, email, encrypted_password, role_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Name, u.Email, u.EncryptedPassword, u.RoleID, u.CreatedAt.UTC(), u.UpdatedAt.UTC())
	if err != nil {
		if isDuplicateEntry(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email", email)
}

// findOne looks a user up by one of the indexed columns. column is never user input.
func (r *UserRepository) findOne(ctx context.Context, column, value string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		SELECT id, name, email, encrypted_password, role_id, created_at, updated_at
		FROM users
		WHERE ` + column + ` = ?
		LIMIT 1
	`

	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.EncryptedPassword,
		&u.RoleID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}
