package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/binarcar/car-rental/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	clone := *u
	r.byID[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type stubRoleRepo struct {
	byID map[string]*domain.Role
}

// newStubRoleRepo seeds the two recognised roles with ids "role-customer"
// and "role-admin".
func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{byID: map[string]*domain.Role{
		"role-customer": {ID: "role-customer", Name: domain.RoleCustomer},
		"role-admin":    {ID: "role-admin", Name: domain.RoleAdmin},
	}}
}

func (r *stubRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	role, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	clone := *role
	return &clone, nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name domain.RoleName) (*domain.Role, error) {
	for _, role := range r.byID {
		if role.Name == name {
			clone := *role
			return &clone, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

// stubCarRepo mirrors the conditional update of the real repositories: the
// availability check and the flag flip happen under one lock.
type stubCarRepo struct {
	mu      sync.Mutex
	cars    map[string]*domain.Car
	rentals []*domain.Rental
	listErr error
	rentErr error
}

func newStubCarRepo(cars ...*domain.Car) *stubCarRepo {
	r := &stubCarRepo{cars: make(map[string]*domain.Car)}
	for _, c := range cars {
		clone := *c
		r.cars[c.ID] = &clone
	}
	return r
}

func (r *stubCarRepo) List(_ context.Context) ([]*domain.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.Car, 0, len(r.cars))
	for _, c := range r.cars {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubCarRepo) FindByID(_ context.Context, id string) (*domain.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cars[id]
	if !ok {
		return nil, domain.ErrCarNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCarRepo) Create(_ context.Context, c *domain.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *c
	r.cars[c.ID] = &clone
	return nil
}

func (r *stubCarRepo) Update(_ context.Context, c *domain.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.cars[c.ID]
	if !ok {
		return domain.ErrCarNotFound
	}
	clone := *c
	clone.IsCurrentlyRented = existing.IsCurrentlyRented
	r.cars[c.ID] = &clone
	return nil
}

func (r *stubCarRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cars[id]; !ok {
		return domain.ErrCarNotFound
	}
	delete(r.cars, id)
	return nil
}

func (r *stubCarRepo) Rent(_ context.Context, rental *domain.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rentErr != nil {
		return r.rentErr
	}
	c, ok := r.cars[rental.CarID]
	if !ok {
		return domain.ErrCarNotFound
	}
	if c.IsCurrentlyRented {
		return domain.ErrCarAlreadyRented
	}
	c.IsCurrentlyRented = true
	clone := *rental
	r.rentals = append(r.rentals, &clone)
	return nil
}

// stubCache records invalidations and serves whatever was stored.
type stubCache struct {
	mu          sync.Mutex
	cars        map[string]*domain.Car
	list        []*domain.Car
	hasList     bool
	invalidated [][]string
}

func newStubCache() *stubCache {
	return &stubCache{cars: make(map[string]*domain.Car)}
}

func (c *stubCache) GetCar(_ context.Context, id string) (*domain.Car, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	car, ok := c.cars[id]
	return car, ok
}

func (c *stubCache) SetCar(_ context.Context, car *domain.Car) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cars[car.ID] = car
}

func (c *stubCache) GetList(_ context.Context) ([]*domain.Car, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list, c.hasList
}

func (c *stubCache) SetList(_ context.Context, cars []*domain.Car) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list, c.hasList = cars, true
}

func (c *stubCache) Invalidate(_ context.Context, ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list, c.hasList = nil, false
	for _, id := range ids {
		delete(c.cars, id)
	}
	c.invalidated = append(c.invalidated, ids)
}
