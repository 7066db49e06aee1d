package usecase

import "errors"

var (
	// ErrForbidden is returned when the caller may not perform the operation.
	ErrForbidden = errors.New("operation not permitted")

	// ErrUnauthenticated is returned when an operation needs a signed-in caller.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrAlreadyLiked is returned by Like when the caller already likes the vlog.
	ErrAlreadyLiked = errors.New("vlog already liked")

	// ErrNotLiked is returned by Unlike when the caller does not like the vlog.
	ErrNotLiked = errors.New("vlog not liked")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
