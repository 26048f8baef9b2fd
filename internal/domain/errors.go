package domain

import "errors"

// Sentinel errors matched with errors.Is across services and handlers.
var (
	ErrValidation = errors.New("validation failed")

	ErrUserNotFound    = errors.New("user not found")
	ErrFlightNotFound  = errors.New("flight not found")
	ErrBookingNotFound = errors.New("booking not found")

	ErrUserExists         = errors.New("user already exists with this email")
	ErrFlightNumberExists = errors.New("flight number already exists")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("please verify your email before logging in")
	ErrAccessDenied       = errors.New("access denied")

	ErrUnknownAccount  = errors.New("invalid email or code")
	ErrAlreadyVerified = errors.New("email is already verified")
	ErrNoPendingCode   = errors.New("no verification code found")
	ErrCodeExpired     = errors.New("verification code has expired")
	ErrInvalidCode     = errors.New("invalid verification code")

	ErrCapacityExceeded      = errors.New("not enough seats available")
	ErrAlreadyCancelled      = errors.New("booking is already cancelled")
	ErrInventoryUpdateFailed = errors.New("failed to update flight seats")
)
