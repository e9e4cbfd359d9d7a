package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/binarcar/car-rental/internal/core/domain"
	"github.com/binarcar/car-rental/internal/core/ports"
	"github.com/binarcar/car-rental/internal/pkg/metrics"
)

const principalKey = "principal"

// Authorize resolves the bearer token into a principal and rejects the request
// unless the caller's stored role is one of required. With no required roles
// any recognised role is accepted.
func Authorize(policy ports.AccessPolicy, required ...domain.RoleName) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := policy.Resolve(c.Request().Context(), bearerToken(c), required...)
			metrics.AccessDecisionsTotal.WithLabelValues(decision(err)).Inc()
			if err != nil {
				return err
			}

			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// PrincipalFrom returns the principal stored by Authorize.
func PrincipalFrom(c echo.Context) (*domain.Principal, error) {
	p, ok := c.Get(principalKey).(*domain.Principal)
	if !ok || p == nil || p.User == nil {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Anything else yields an empty string.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decision(err error) string {
	switch {
	case err == nil:
		return "allowed"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrUserNotFound):
		return "unknown_user"
	default:
		return "error"
	}
}
