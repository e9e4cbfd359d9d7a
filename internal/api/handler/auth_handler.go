package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/binarcar/car-rental/internal/api/middleware"
	"github.com/binarcar/car-rental/internal/core/domain"
	"github.com/binarcar/car-rental/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a CUSTOMER account.
//
// @Summary      Register a new customer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindBody(c, &req, domain.ErrMalformedInput, domain.ErrValidation); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		User:        toUserResponse(res.User, res.Role),
		AccessToken: res.AccessToken,
	})
}

// Login authenticates a user and returns an access token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      201   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindBody(c, &req, domain.ErrMalformedInput, domain.ErrValidation); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, loginResponse{AccessToken: res.AccessToken})
}

// WhoAmI returns the profile of the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/auth/whoami [get]
func (h *AuthHandler) WhoAmI(c echo.Context) error {
	p, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(p.User, p.Role))
}
