package services

import "errors"

// Define common service errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict") // e.g., duplicate email, contractor already booked
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidState       = errors.New("invalid state for operation")
	ErrInvalidTransition  = errors.New("invalid state transition")
	// ErrCancellationWindow is returned when a customer cancels less than
	// seven days before the scheduled date.
	ErrCancellationWindow = errors.New("cancellation window has passed")
)
