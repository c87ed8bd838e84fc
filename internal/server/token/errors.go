package token

import "errors"

// Validation failures. Callers reject all of them the same way; they stay
// distinct for logs and tests.
var (
	// ErrInvalidSignature indicates that the signed region was altered or
	// signed with a different secret.
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrExpired indicates that the token's exp is not in the future.
	ErrExpired = errors.New("token expired")

	// ErrMalformed indicates a token that is not a three-segment JWT or whose
	// payload lacks a subject or a known role.
	ErrMalformed = errors.New("malformed token")

	// ErrEmptySecret is returned by NewService when no signing secret is set.
	ErrEmptySecret = errors.New("signing secret cannot be empty")
)
