package ports

import (
	"context"

	"github.com/binarcar/car-rental/internal/core/domain"
)

// CarRepository defines persistence operations for cars and their rentals.
type CarRepository interface {
	List(ctx context.Context) ([]*domain.Car, error)
	FindByID(ctx context.Context, id string) (*domain.Car, error)
	Create(ctx context.Context, car *domain.Car) error
	// Update replaces the mutable attributes of an existing car. The
	// availability flag is left untouched.
	Update(ctx context.Context, car *domain.Car) error
	Delete(ctx context.Context, id string) error

	// Rent flips the car's availability flag and stores the rental as one
	// conditional write: the flag is only set when it is currently false.
	// Returns domain.ErrCarAlreadyRented when the flag was already set and
	// domain.ErrCarNotFound when the car does not exist.
	Rent(ctx context.Context, rental *domain.Rental) error
}

// CarCache is a read-through cache in front of CarRepository reads.
type CarCache interface {
	GetCar(ctx context.Context, id string) (*domain.Car, bool)
	SetCar(ctx context.Context, car *domain.Car)
	GetList(ctx context.Context) ([]*domain.Car, bool)
	SetList(ctx context.Context, cars []*domain.Car)
	// Invalidate drops the list entry and, when ids are given, those cars.
	Invalidate(ctx context.Context, ids ...string)
}
