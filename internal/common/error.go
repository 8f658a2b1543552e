// Package common defines shared constants and sentinel errors used across
// client and server layers of the carpool service. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// ErrorValidation marks missing or malformed input. Services wrap it with
	// the offending field, e.g. fmt.Errorf("%w: ride_id is required", ErrorValidation).
	ErrorValidation = errors.New("validation error")

	// Ledger errors.
	ErrDuplicateRequest = errors.New("you already have a pending or accepted request for this ride")
	ErrNoSeatsAvailable = errors.New("no seats available")
	ErrInvalidState     = errors.New("request is not pending")

	// Account errors.
	ErrDuplicateEmail = errors.New("email already exists")
	ErrDuplicateErpID = errors.New("erp id already exists")

	// ErrTransientStore is returned once retries against an unavailable store
	// are exhausted.
	ErrTransientStore = errors.New("store temporarily unavailable")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
