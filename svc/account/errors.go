package account

import "errors"

// Error classes. Every error returned by this package matches exactly one of
// them with errors.Is, which is what transports use to pick a status code.
var (
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrExpiredToken = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidCode  = errors.New("invalid code")
)

// Conflict errors
var (
	ErrDuplicateEmail = newError(ErrConflict, "User already exist with this email!")
	ErrDuplicatePhone = newError(ErrConflict, "User already exist with this phone number!")
)

// Authentication errors
var (
	ErrLoginRequired       = newError(ErrUnauthorized, "Please login to access this resource")
	ErrInvalidRefreshToken = newError(ErrUnauthorized, "Invalid refresh token")
	ErrUserNoLongerExists  = newError(ErrUnauthorized, "User no longer exists")
)

// Lookup errors
var (
	ErrUserNotFound = newError(ErrNotFound, "User not found with this email")
)

// Activation errors
var (
	ErrInvalidActivationCode = newError(ErrInvalidCode, "Invalid activation code")
)

// accountError carries a client-facing message and the class it belongs to.
type accountError struct {
	class error
	msg   string
}

func newError(class error, msg string) error {
	return &accountError{class: class, msg: msg}
}

func (e *accountError) Error() string { return e.msg }

func (e *accountError) Unwrap() error { return e.class }
