package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/binarcar/car-rental/internal/core/domain"
	"github.com/binarcar/car-rental/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, name, email, password string) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (*ports.AuthResult, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

type stubCarService struct {
	listFn   func(ctx context.Context) ([]*domain.Car, error)
	getFn    func(ctx context.Context, id string) (*domain.Car, error)
	createFn func(ctx context.Context, in ports.CarInput) (*domain.Car, error)
	updateFn func(ctx context.Context, id string, in ports.CarInput) (*domain.Car, error)
	deleteFn func(ctx context.Context, id string) error
	rentFn   func(ctx context.Context, in ports.RentInput) (*domain.Rental, error)
}

func (s *stubCarService) List(ctx context.Context) ([]*domain.Car, error) { return s.listFn(ctx) }
func (s *stubCarService) Get(ctx context.Context, id string) (*domain.Car, error) {
	return s.getFn(ctx, id)
}
func (s *stubCarService) Create(ctx context.Context, in ports.CarInput) (*domain.Car, error) {
	return s.createFn(ctx, in)
}
func (s *stubCarService) Update(ctx context.Context, id string, in ports.CarInput) (*domain.Car, error) {
	return s.updateFn(ctx, id, in)
}
func (s *stubCarService) Delete(ctx context.Context, id string) error { return s.deleteFn(ctx, id) }
func (s *stubCarService) Rent(ctx context.Context, in ports.RentInput) (*domain.Rental, error) {
	return s.rentFn(ctx, in)
}

// stubPolicy grants every request the configured principal, or fails with err.
type stubPolicy struct {
	principal *domain.Principal
	err       error
}

func (p *stubPolicy) Resolve(_ context.Context, _ string, _ ...domain.RoleName) (*domain.Principal, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.principal, nil
}

func customerPrincipal() *domain.Principal {
	return &domain.Principal{
		User: &domain.User{ID: "user-1", Name: "Johnny", Email: "johnny@binar.co.id", RoleID: "role-customer"},
		Role: &domain.Role{ID: "role-customer", Name: domain.RoleCustomer},
	}
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer token")
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
