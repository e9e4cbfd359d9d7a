package handler

import (
	"time"

	"github.com/binarcar/car-rental/internal/core/domain"
	"github.com/binarcar/car-rental/internal/core/ports"
)

// errorBody and errorResponse document the envelope rendered by
// api.NewHTTPErrorHandler.
type errorBody struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type carRequest struct {
	Name  string   `json:"name"  validate:"required"`
	Price *float64 `json:"price" validate:"required,gte=0"`
	Image string   `json:"image" validate:"required"`
	Size  string   `json:"size"  validate:"required"`
}

type rentRequest struct {
	RentStartedAt time.Time  `json:"rentStartedAt"`
	RentEndedAt   *time.Time `json:"rentEndedAt"`
}

type carResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Price             float64   `json:"price"`
	Image             string    `json:"image"`
	Size              string    `json:"size"`
	IsCurrentlyRented bool      `json:"isCurrentlyRented"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type rentalResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	CarID         string     `json:"carId"`
	RentStartedAt time.Time  `json:"rentStartedAt"`
	RentEndedAt   *time.Time `json:"rentEndedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func toCarInput(r carRequest) ports.CarInput {
	in := ports.CarInput{Name: r.Name, Image: r.Image, Size: r.Size}
	if r.Price != nil {
		in.Price = *r.Price
	}
	return in
}

func toCarResponse(c *domain.Car) carResponse {
	return carResponse{
		ID:                c.ID,
		Name:              c.Name,
		Price:             c.Price,
		Image:             c.Image,
		Size:              c.Size,
		IsCurrentlyRented: c.IsCurrentlyRented,
		CreatedAt:         c.CreatedAt.UTC(),
		UpdatedAt:         c.UpdatedAt.UTC(),
	}
}

func toCarListResponse(cars []*domain.Car) []carResponse {
	out := make([]carResponse, len(cars))
	for i, c := range cars {
		out[i] = toCarResponse(c)
	}
	return out
}

func toRentalResponse(r *domain.Rental) rentalResponse {
	return rentalResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		CarID:         r.CarID,
		RentStartedAt: r.RentStartedAt.UTC(),
		RentEndedAt:   r.RentEndedAt,
		CreatedAt:     r.CreatedAt.UTC(),
	}
}
