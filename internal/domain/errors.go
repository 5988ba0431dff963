package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrBadRequest  = errors.New("bad request")
	ErrUnavailable = errors.New("storage unavailable")

	// Issuance-time validation failures. Neither creates an OTP record
	// nor triggers a delivery attempt.
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrPersonalEmail = errors.New("personal email domain not allowed")
)
