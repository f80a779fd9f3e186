// Package common defines shared constants and sentinel errors used across
// the token provider. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Request validation.
	ErrBadRequest = errors.New("bad request")

	// Renewal token lookup (strict refresh flow only).
	ErrNotFound = errors.New("renewal token not found or expired")

	// Access token validation.
	ErrExpired          = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrIssuerMismatch   = errors.New("token issuer mismatch")
	ErrAudienceMismatch = errors.New("token audience mismatch")

	// Internal failures. Never echoed to callers verbatim.
	ErrStore          = errors.New("store error")
	ErrSigning        = errors.New("signing error")
	ErrIssuanceFailed = errors.New("issuance failed")

	// Caller gave up (deadline exceeded or cancelled).
	ErrCancelled = errors.New("request cancelled")
)

// IsValidationFailure reports whether err is one of the access token
// validation reasons that may be shown to a client.
func IsValidationFailure(err error) bool {
	return errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrIssuerMismatch) ||
		errors.Is(err, ErrAudienceMismatch)
}
