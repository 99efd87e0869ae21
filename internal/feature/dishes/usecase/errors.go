package usecase

import "errors"

var (
	// ErrDishNotFound is returned when a dish does not exist or is not visible to the caller.
	ErrDishNotFound = errors.New("dish not found")

	// ErrMissingFields is returned when a required field is absent or invalid.
	ErrMissingFields = errors.New("missing fields")
)
