// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrPasswordTooLong is returned when a password does not fit bcrypt's 72-byte input.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

	// ErrInvalidCredentials is returned when the email is unknown or the password does not match.
	// Both cases share one error so callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionRevoked is returned when attempting to use a revoked session.
	ErrSessionRevoked = errors.New("session has been revoked")

	// ErrSessionExpired is returned when attempting to use an expired session.
	ErrSessionExpired = errors.New("session has expired")

	// ErrInvalidToken is returned when a session cookie value is malformed, tampered with,
	// or does not match the stored session.
	ErrInvalidToken = errors.New("invalid session token")
)
