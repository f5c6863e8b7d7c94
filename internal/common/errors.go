// Package common defines shared constants and sentinel errors used across
// client and server layers of the resume builder. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")

	// Validation errors. Wrapped with field detail via fmt.Errorf("%w: ...").
	ErrValidation       = errors.New("validation error")
	ErrPasswordMismatch = errors.New("new password and confirmation do not match")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	// Token verification failures, one per cause.
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenNotYetValid      = errors.New("token not yet valid")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
)

// IsTokenError reports whether err is one of the token verification failures.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenNotYetValid) ||
		errors.Is(err, ErrTokenSignatureInvalid)
}
