package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/binarcar/car-rental/internal/api/middleware"
	"github.com/binarcar/car-rental/internal/core/domain"
	"github.com/binarcar/car-rental/internal/core/ports"
)

// CarHandler handles HTTP requests for the car inventory.
type CarHandler struct {
	service ports.CarService
}

func NewCarHandler(service ports.CarService) *CarHandler {
	return &CarHandler{service: service}
}

// List handles GET /v1/cars.
//
// @Summary      List cars
// @Tags         cars
// @Produce      json
// @Success      200  {array}   carResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/cars [get]
func (h *CarHandler) List(c echo.Context) error {
	cars, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCarListResponse(cars))
}

// Get handles GET /v1/cars/:id.
//
// @Summary      Get a car
// @Tags         cars
// @Produce      json
// @Param        id   path      string  true  "Car id"
// @Success      200  {object}  carResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/cars/{id} [get]
func (h *CarHandler) Get(c echo.Context) error {
	car, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCarResponse(car))
}

// Create handles POST /v1/cars.
//
// @Summary      Create a car
// @Tags         cars
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      carRequest  true  "Car attributes"
// @Success      201   {object}  carResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/cars [post]
func (h *CarHandler) Create(c echo.Context) error {
	var req carRequest
	if err := bindBody(c, &req, domain.ErrValidation, domain.ErrValidation); err != nil {
		return err
	}

	car, err := h.service.Create(c.Request().Context(), toCarInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCarResponse(car))
}

// Update handles PUT /v1/cars/:id.
//
// @Summary      Update a car
// @Tags         cars
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string      true  "Car id"
// @Param        body  body      carRequest  true  "Car attributes"
// @Success      200   {object}  carResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/cars/{id} [put]
func (h *CarHandler) Update(c echo.Context) error {
	var req carRequest
	if err := bindBody(c, &req, domain.ErrValidation, domain.ErrValidation); err != nil {
		return err
	}

	car, err := h.service.Update(c.Request().Context(), c.Param("id"), toCarInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCarResponse(car))
}

// Delete handles DELETE /v1/cars/:id.
//
// @Summary      Delete a car
// @Tags         cars
// @Security     BearerAuth
// @Param        id   path  string  true  "Car id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/cars/{id} [delete]
func (h *CarHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Rent handles POST /v1/cars/:id/rent for the authenticated user.
//
// @Summary      Rent a car
// @Tags         cars
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Car id"
// @Param        body  body      rentRequest  true  "Rental interval; rentEndedAt is optional"
// @Success      201   {object}  rentalResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/cars/{id}/rent [post]
func (h *CarHandler) Rent(c echo.Context) error {
	p, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}

	var req rentRequest
	if err := bindBody(c, &req, domain.ErrValidation, domain.ErrValidation); err != nil {
		return err
	}

	rental, err := h.service.Rent(c.Request().Context(), ports.RentInput{
		CarID:         c.Param("id"),
		UserID:        p.User.ID,
		RentStartedAt: req.RentStartedAt,
		RentEndedAt:   req.RentEndedAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRentalResponse(rental))
}
