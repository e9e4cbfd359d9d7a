package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/binarcar/car-rental/internal/core/domain"
)

const carColumns = `id, name, price, image, size, is_currently_rented, created_at, updated_at`

// CarRepository implements ports.CarRepository on MySQL. Rentals live in the
// user_cars table.
type CarRepository struct {
	db *sql.DB
}

func NewCarRepository(db *sql.DB) *CarRepository {
	return &CarRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCar(s rowScanner) (*domain.Car, error) {
	c := &domain.Car{}
	if err := s.Scan(&c.ID, &c.Name, &c.Price, &c.Image, &c.Size, &c.IsCurrentlyRented, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns every car, oldest first.
func (r *CarRepository) List(ctx context.Context) ([]*domain.Car, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+carColumns+` FROM cars ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	defer rows.Close()

	cars := make([]*domain.Car, 0)
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan car: %w", err)
		}
		cars = append(cars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cars: %w", err)
	}
	return cars, nil
}

func (r *CarRepository) FindByID(ctx context.Context, id string) (*domain.Car, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c, err := scanCar(r.db.QueryRowContext(ctx, `SELECT `+carColumns+` FROM cars WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find car: %w", err)
	}
	return c, nil
}

func (r *CarRepository) Create(ctx context.Context, c *domain.Car) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		INSERT INTO cars (` + carColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Price, c.Image, c.Size, c.IsCurrentlyRented, c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert car: %w", err)
	}
	return nil
}

func (r *CarRepository) Update(ctx context.Context, c *domain.Car) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		UPDATE cars
		SET name = ?, price = ?, image = ?, size = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query, c.Name, c.Price, c.Image, c.Size, c.UpdatedAt.UTC(), c.ID)
	if err != nil {
		return fmt.Errorf("update car: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update car: %w", err)
	}
	if n > 0 {
		return nil
	}

	// MySQL reports changed rows, so an update that rewrote identical values
	// also affects zero rows.
	exists, err := carExists(ctx, r.db, c.ID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrCarNotFound
	}
	return nil
}

func (r *CarRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	if n == 0 {
		return domain.ErrCarNotFound
	}
	return nil
}

// Rent sets is_currently_rented only where it is still 0 and inserts the
// rental in the same transaction. Zero affected rows means another rent won
// or the car does not exist.
func (r *CarRepository) Rent(ctx context.Context, rental *domain.Rental) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rent: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE cars SET is_currently_rented = 1, updated_at = ? WHERE id = ? AND is_currently_rented = 0`,
		rental.CreatedAt.UTC(), rental.CarID,
	)
	if err != nil {
		return fmt.Errorf("flag car rented: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("flag car rented: %w", err)
	}
	if n == 0 {
		exists, err := carExists(ctx, tx, rental.CarID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrCarNotFound
		}
		return domain.ErrCarAlreadyRented
	}

	var endedAt sql.NullTime
	if rental.RentEndedAt != nil {
		endedAt = sql.NullTime{Time: rental.RentEndedAt.UTC(), Valid: true}
	}

	query := `
		INSERT INTO user_cars (id, user_id, car_id, rent_started_at, rent_ended_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query, rental.ID, rental.UserID, rental.CarID, rental.RentStartedAt.UTC(), endedAt, rental.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("insert rental: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rent: %w", err)
	}
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func carExists(ctx context.Context, q queryRower, id string) (bool, error) {
	var exists bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM cars WHERE id = ?)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check car exists: %w", err)
	}
	return exists, nil
}
