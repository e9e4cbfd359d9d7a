package ports

import (
	"context"
	"time"

	"github.com/binarcar/car-rental/internal/core/domain"
)

// CarInput carries the writable attributes of a car.
type CarInput struct {
	Name  string
	Price float64
	Image string
	Size  string
}

// RentInput carries the parameters of a rent request.
type RentInput struct {
	CarID         string
	UserID        string
	RentStartedAt time.Time
	RentEndedAt   *time.Time // optional
}

// CarService defines use-case operations for the car inventory.
type CarService interface {
	List(ctx context.Context) ([]*domain.Car, error)
	Get(ctx context.Context, id string) (*domain.Car, error)
	Create(ctx context.Context, input CarInput) (*domain.Car, error)
	Update(ctx context.Context, id string, input CarInput) (*domain.Car, error)
	Delete(ctx context.Context, id string) error
	Rent(ctx context.Context, input RentInput) (*domain.Rental, error)
}
