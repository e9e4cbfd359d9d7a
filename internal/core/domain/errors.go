package domain

import "errors"

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrUnknownRole        = errors.New("unknown role")

	ErrUserNotFound = errors.New("user not found")
	ErrRoleNotFound = errors.New("role not found")
	ErrCarNotFound  = errors.New("car not found")

	ErrEmailTaken       = errors.New("email already registered")
	ErrCarAlreadyRented = errors.New("car is already rented")
	ErrValidation       = errors.New("validation failed")

	// ErrMalformedInput marks request bodies whose JSON shape does not match
	// the expected types on the auth endpoints. It is surfaced as a 500.
	ErrMalformedInput = errors.New("malformed input")

	// ErrRentUnknownCar is returned by Rent when the car id does not exist.
	// Clients have always received a 500 for this case, so it is kept apart
	// from ErrCarNotFound.
	ErrRentUnknownCar = errors.New("rent target does not exist")
)
