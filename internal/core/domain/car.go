package domain

import "time"

// Car is a rentable vehicle. IsCurrentlyRented is the availability flag and
// only moves from false to true through a rental.
type Car struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Price             float64   `json:"price"`
	Image             string    `json:"image"`
	Size              string    `json:"size"`
	IsCurrentlyRented bool      `json:"isCurrentlyRented"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Available reports whether the car can be rented.
func (c *Car) Available() bool {
	return !c.IsCurrentlyRented
}

// Rental links a user to a car for a time interval. RentEndedAt is optional.
type Rental struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	CarID         string     `json:"carId"`
	RentStartedAt time.Time  `json:"rentStartedAt"`
	RentEndedAt   *time.Time `json:"rentEndedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}
