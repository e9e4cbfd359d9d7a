package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/binarcar/car-rental/internal/core/domain"
)

type errorBody struct {
	Message string `json:"message"`
}

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error errorBody `json:"error"`
}

// errorMapping is checked in order, so wrapping errors must come before the
// errors they wrap (ErrForbidden wraps ErrRoleNotFound, for instance).
var errorMapping = []struct {
	err     error
	code    int
	message string
}{
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "Unauthorized"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "Unauthorized"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Password is not correct!"},
	{domain.ErrForbidden, http.StatusForbidden, "Access forbidden!"},
	{domain.ErrUnknownRole, http.StatusForbidden, "Access forbidden!"},
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{domain.ErrCarNotFound, http.StatusNotFound, "Car not found"},
	{domain.ErrRoleNotFound, http.StatusNotFound, "Role not found"},
	{domain.ErrEmailTaken, http.StatusUnprocessableEntity, "Email already taken"},
	{domain.ErrCarAlreadyRented, http.StatusUnprocessableEntity, "Car is already rented"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": {"message": "<message>"}}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: errorBody{Message: msg}})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (404 from router, 405, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return m.code, m.message
		}
	}

	// Validation messages come from the request schema and are safe to show.
	if errors.Is(err, domain.ErrValidation) {
		return http.StatusUnprocessableEntity, err.Error()
	}

	// Malformed bodies and renting an unknown car are reported as 500 with
	// their own message.
	if errors.Is(err, domain.ErrMalformedInput) || errors.Is(err, domain.ErrRentUnknownCar) {
		log.Warn().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Str("request_id", requestID(c)).
			Msg("request failed")
		return http.StatusInternalServerError, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", requestID(c)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
