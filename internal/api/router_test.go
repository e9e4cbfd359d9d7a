package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/binarcar/car-rental/internal/core/domain"
	"github.com/binarcar/car-rental/internal/core/ports"
)

type stubAuth struct{}

func (stubAuth) Register(_ context.Context, name, email, _ string) (*ports.AuthResult, error) {
	if email == "johnny@binar.co.id" {
		return nil, domain.ErrEmailTaken
	}
	return &ports.AuthResult{
		User:        &domain.User{ID: "user-2", Name: name, Email: email},
		Role:        &domain.Role{ID: "role-customer", Name: domain.RoleCustomer},
		AccessToken: "customer-token",
	}, nil
}

func (stubAuth) Login(_ context.Context, email, password string) (*ports.AuthResult, error) {
	if email != "johnny@binar.co.id" {
		return nil, domain.ErrUserNotFound
	}
	if password != "123456" {
		return nil, domain.ErrInvalidCredentials
	}
	return &ports.AuthResult{AccessToken: "customer-token"}, nil
}

type stubCars struct {
	rented map[string]bool
}

func (s *stubCars) List(context.Context) ([]*domain.Car, error) {
	return []*domain.Car{{ID: "car-1", Name: "Avanza"}}, nil
}

func (s *stubCars) Get(_ context.Context, id string) (*domain.Car, error) {
	if id != "car-1" {
		return nil, domain.ErrCarNotFound
	}
	return &domain.Car{ID: id, Name: "Avanza"}, nil
}

func (s *stubCars) Create(_ context.Context, in ports.CarInput) (*domain.Car, error) {
	return &domain.Car{ID: "car-2", Name: in.Name, Price: in.Price, Image: in.Image, Size: in.Size}, nil
}

func (s *stubCars) Update(_ context.Context, id string, in ports.CarInput) (*domain.Car, error) {
	if id != "car-1" {
		return nil, domain.ErrCarNotFound
	}
	return &domain.Car{ID: id, Name: in.Name}, nil
}

func (s *stubCars) Delete(_ context.Context, id string) error {
	if id != "car-1" {
		return domain.ErrCarNotFound
	}
	return nil
}

func (s *stubCars) Rent(_ context.Context, in ports.RentInput) (*domain.Rental, error) {
	if in.CarID != "car-1" {
		return nil, domain.ErrRentUnknownCar
	}
	if s.rented[in.CarID] {
		return nil, domain.ErrCarAlreadyRented
	}
	s.rented[in.CarID] = true
	return &domain.Rental{ID: "rental-1", CarID: in.CarID, UserID: in.UserID, RentStartedAt: in.RentStartedAt}, nil
}

// tokenPolicy maps fixed tokens to principals and mirrors the real
// resolution order closely enough for routing tests.
type tokenPolicy struct{}

func (tokenPolicy) Resolve(_ context.Context, token string, required ...domain.RoleName) (*domain.Principal, error) {
	var role domain.RoleName
	switch token {
	case "":
		return nil, domain.ErrUnauthenticated
	case "customer-token":
		role = domain.RoleCustomer
	case "admin-token":
		role = domain.RoleAdmin
	case "unknown-role-token":
		return nil, domain.ErrForbidden
	default:
		return nil, domain.ErrUnauthenticated
	}
	if len(required) > 0 && required[0] != role {
		return nil, domain.ErrForbidden
	}
	return &domain.Principal{
		User: &domain.User{ID: "user-1", Name: "Johnny", Email: "johnny@binar.co.id"},
		Role: &domain.Role{ID: "role-" + strings.ToLower(string(role)), Name: role},
	}, nil
}

func newTestRouter() *echo.Echo {
	return NewRouter(Deps{
		Auth:          stubAuth{},
		Cars:          &stubCars{rented: map[string]bool{}},
		Policy:        tokenPolicy{},
		AuthRateLimit: 100,
		Registerer:    prometheus.NewRegistry(),
		Log:           zerolog.New(io.Discard),
	})
}

func TestRouter_Routes(t *testing.T) {
	e := newTestRouter()

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		body     string
		wantCode int
		wantMsg  string
	}{
		{name: "root", method: http.MethodGet, path: "/", wantCode: http.StatusOK},
		{name: "documentation", method: http.MethodGet, path: "/documentation.json", wantCode: http.StatusOK},
		{name: "liveness", method: http.MethodGet, path: "/health", wantCode: http.StatusOK},
		{name: "readiness without probes", method: http.MethodGet, path: "/health/ready", wantCode: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/v1/unknown", wantCode: http.StatusNotFound, wantMsg: "Not found"},

		{name: "register", method: http.MethodPost, path: "/v1/auth/register", body: `{"name":"Udin","email":"udin@binar.co.id","password":"123456"}`, wantCode: http.StatusCreated},
		{name: "register taken email", method: http.MethodPost, path: "/v1/auth/register", body: `{"name":"Johnny","email":"johnny@binar.co.id","password":"123456"}`, wantCode: http.StatusUnprocessableEntity},
		{name: "register malformed email", method: http.MethodPost, path: "/v1/auth/register", body: `{"name":"Udin","email":{"email":"udin@binar.co.id"},"password":"123456"}`, wantCode: http.StatusInternalServerError},
		{name: "login", method: http.MethodPost, path: "/v1/auth/login", body: `{"email":"johnny@binar.co.id","password":"123456"}`, wantCode: http.StatusCreated},
		{name: "login unknown user", method: http.MethodPost, path: "/v1/auth/login", body: `{"email":"ghost@binar.co.id","password":"123456"}`, wantCode: http.StatusNotFound},
		{name: "login wrong password", method: http.MethodPost, path: "/v1/auth/login", body: `{"email":"johnny@binar.co.id","password":"654321"}`, wantCode: http.StatusUnauthorized},
		{name: "login malformed", method: http.MethodPost, path: "/v1/auth/login", body: `{"email":["johnny@binar.co.id"],"password":"123456"}`, wantCode: http.StatusInternalServerError},

		{name: "whoami", method: http.MethodGet, path: "/v1/auth/whoami", token: "customer-token", wantCode: http.StatusOK},
		{name: "whoami without token", method: http.MethodGet, path: "/v1/auth/whoami", wantCode: http.StatusUnauthorized},
		{name: "whoami unknown role", method: http.MethodGet, path: "/v1/auth/whoami", token: "unknown-role-token", wantCode: http.StatusForbidden, wantMsg: "Access forbidden!"},

		{name: "list cars", method: http.MethodGet, path: "/v1/cars", wantCode: http.StatusOK},
		{name: "get car", method: http.MethodGet, path: "/v1/cars/car-1", wantCode: http.StatusOK},
		{name: "get missing car", method: http.MethodGet, path: "/v1/cars/nope", wantCode: http.StatusNotFound},
		{name: "create car as admin", method: http.MethodPost, path: "/v1/cars", token: "admin-token", body: `{"name":"Xenia","price":250000,"image":"x","size":"SMALL"}`, wantCode: http.StatusCreated},
		{name: "create car as customer", method: http.MethodPost, path: "/v1/cars", token: "customer-token", body: `{"name":"Xenia","price":250000,"image":"x","size":"SMALL"}`, wantCode: http.StatusForbidden, wantMsg: "Access forbidden!"},
		{name: "create car with array name", method: http.MethodPost, path: "/v1/cars", token: "admin-token", body: `{"name":["Xenia"],"price":250000,"image":"x","size":"SMALL"}`, wantCode: http.StatusUnprocessableEntity},
		{name: "update car", method: http.MethodPut, path: "/v1/cars/car-1", token: "admin-token", body: `{"name":"Xenia","price":250000,"image":"x","size":"SMALL"}`, wantCode: http.StatusOK},
		{name: "update car with object price", method: http.MethodPut, path: "/v1/cars/car-1", token: "admin-token", body: `{"name":"Xenia","price":{},"image":"x","size":"SMALL"}`, wantCode: http.StatusUnprocessableEntity},
		{name: "delete car", method: http.MethodDelete, path: "/v1/cars/car-1", token: "admin-token", wantCode: http.StatusNoContent},
		{name: "rent car", method: http.MethodPost, path: "/v1/cars/car-1/rent", token: "customer-token", body: `{"rentStartedAt":"2022-06-01T10:00:00Z"}`, wantCode: http.StatusCreated},
		{name: "rent rented car", method: http.MethodPost, path: "/v1/cars/car-1/rent", token: "customer-token", body: `{"rentStartedAt":"2022-06-01T10:00:00Z"}`, wantCode: http.StatusUnprocessableEntity},
		{name: "rent unknown car", method: http.MethodPost, path: "/v1/cars/nope/rent", token: "customer-token", body: `{"rentStartedAt":"2022-06-01T10:00:00Z"}`, wantCode: http.StatusInternalServerError},
		{name: "rent without token", method: http.MethodPost, path: "/v1/cars/car-1/rent", body: `{"rentStartedAt":"2022-06-01T10:00:00Z"}`, wantCode: http.StatusUnauthorized},
	}

	// Cases run in order against one router: "rent rented car" relies on "rent car".
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			if tt.token != "" {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			if rec.Header().Get(echo.HeaderXRequestID) == "" {
				t.Fatalf("expected a request id header")
			}
			if tt.wantMsg == "" {
				return
			}

			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error.Message != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, resp.Error.Message)
			}
		})
	}
}
