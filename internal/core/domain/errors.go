package domain

import (
	"errors"
	"fmt"
)

// Failure taxonomy. Every error returned by the core wraps exactly one of these.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

var (
	ErrInvalidToken  = fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	ErrOrderNotFound = fmt.Errorf("order %w", ErrNotFound)
	ErrUserNotFound  = fmt.Errorf("user %w", ErrNotFound)
	ErrEmailTaken    = fmt.Errorf("%w: user with the email already exists", ErrConflict)
	ErrUsernameTaken = fmt.Errorf("%w: user with the username already exists", ErrConflict)
)
