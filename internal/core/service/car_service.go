package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/binarcar/car-rental/internal/core/domain"
	"github.com/binarcar/car-rental/internal/core/ports"
	"github.com/binarcar/car-rental/internal/pkg/metrics"
)

type CarService struct {
	repo  ports.CarRepository
	cache ports.CarCache
	log   zerolog.Logger

	// gen counts invalidations. A read-through fill is dropped when gen
	// moved during the storage read; fillMu makes the check and the fill
	// atomic with respect to invalidate.
	gen    atomic.Uint64
	fillMu sync.RWMutex
}

// NewCarService wires the car use cases. A nil cache disables caching.
func NewCarService(repo ports.CarRepository, cache ports.CarCache, log zerolog.Logger) *CarService {
	if cache == nil {
		cache = noopCache{}
	}
	return &CarService{repo: repo, cache: cache, log: log}
}

func (s *CarService) List(ctx context.Context) ([]*domain.Car, error) {
	if cars, ok := s.cache.GetList(ctx); ok {
		return cars, nil
	}

	gen := s.gen.Load()
	cars, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	s.fill(gen, func() { s.cache.SetList(ctx, cars) })
	return cars, nil
}

func (s *CarService) Get(ctx context.Context, id string) (*domain.Car, error) {
	if car, ok := s.cache.GetCar(ctx, id); ok {
		return car, nil
	}

	gen := s.gen.Load()
	car, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get car: %w", err)
	}
	s.fill(gen, func() { s.cache.SetCar(ctx, car) })
	return car, nil
}

func (s *CarService) Create(ctx context.Context, in ports.CarInput) (*domain.Car, error) {
	if err := validateCarInput(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	car := &domain.Car{
		ID:                uuid.NewString(),
		Name:              in.Name,
		Price:             in.Price,
		Image:             in.Image,
		Size:              in.Size,
		IsCurrentlyRented: false,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Create(ctx, car); err != nil {
		s.log.Error().Err(err).Msg("failed to create car")
		return nil, fmt.Errorf("create car: %w", err)
	}
	s.invalidate(ctx)

	s.log.Info().Str("car_id", car.ID).Msg("car created")
	return car, nil
}

func (s *CarService) Update(ctx context.Context, id string, in ports.CarInput) (*domain.Car, error) {
	if err := validateCarInput(in); err != nil {
		return nil, err
	}

	car, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update car: %w", err)
	}

	car.Name = in.Name
	car.Price = in.Price
	car.Image = in.Image
	car.Size = in.Size
	car.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, car); err != nil {
		return nil, fmt.Errorf("update car: %w", err)
	}
	s.invalidate(ctx, id)

	s.log.Info().Str("car_id", id).Msg("car updated")
	return car, nil
}

func (s *CarService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	s.invalidate(ctx, id)

	s.log.Info().Str("car_id", id).Msg("car deleted")
	return nil
}

// Rent moves an available car to rented and records the rental. The
// availability check and the flag flip happen in a single conditional write
// in the repository, so concurrent rents of one car yield one success.
func (s *CarService) Rent(ctx context.Context, in ports.RentInput) (*domain.Rental, error) {
	if in.RentStartedAt.IsZero() {
		return nil, fmt.Errorf("%w: rentStartedAt is required", domain.ErrValidation)
	}
	if in.RentEndedAt != nil && in.RentEndedAt.Before(in.RentStartedAt) {
		return nil, fmt.Errorf("%w: rentEndedAt must not be before rentStartedAt", domain.ErrValidation)
	}

	rental := &domain.Rental{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		CarID:         in.CarID,
		RentStartedAt: in.RentStartedAt.UTC(),
		CreatedAt:     time.Now().UTC(),
	}
	if in.RentEndedAt != nil {
		ended := in.RentEndedAt.UTC()
		rental.RentEndedAt = &ended
	}

	err := s.repo.Rent(ctx, rental)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrCarNotFound):
		metrics.RentalsTotal.WithLabelValues("unknown_car").Inc()
		return nil, fmt.Errorf("rent car %s: %w", in.CarID, domain.ErrRentUnknownCar)
	case errors.Is(err, domain.ErrCarAlreadyRented):
		metrics.RentalsTotal.WithLabelValues("conflict").Inc()
		return nil, fmt.Errorf("rent car %s: %w", in.CarID, err)
	default:
		metrics.RentalsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("car_id", in.CarID).Msg("failed to rent car")
		return nil, fmt.Errorf("rent car %s: %w", in.CarID, err)
	}
	s.invalidate(ctx, in.CarID)

	metrics.RentalsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("car_id", in.CarID).Str("user_id", in.UserID).Str("rental_id", rental.ID).Msg("car rented")
	return rental, nil
}

// fill stores a value read from storage unless an invalidation happened
// since gen was loaded. Writers in other processes are not covered; their
// changes show up once the entry expires.
func (s *CarService) fill(gen uint64, set func()) {
	s.fillMu.RLock()
	defer s.fillMu.RUnlock()
	if s.gen.Load() != gen {
		return
	}
	set()
}

func (s *CarService) invalidate(ctx context.Context, ids ...string) {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	s.gen.Add(1)
	s.cache.Invalidate(ctx, ids...)
}

func validateCarInput(in ports.CarInput) error {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(in.Image) == "" {
		missing = append(missing, "image")
	}
	if strings.TrimSpace(in.Size) == "" {
		missing = append(missing, "size")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, strings.Join(missing, ", "))
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	return nil
}

type noopCache struct{}

func (noopCache) GetCar(context.Context, string) (*domain.Car, bool) { return nil, false }
func (noopCache) SetCar(context.Context, *domain.Car)                {}
func (noopCache) GetList(context.Context) ([]*domain.Car, bool)      { return nil, false }
func (noopCache) SetList(context.Context, []*domain.Car)             {}
func (noopCache) Invalidate(context.Context, ...string)              {}
