package services

import "errors"

// Sentinel errors returned by the service layer. Handlers translate these
// into HTTP status codes; anything else is treated as an internal failure.
var (
	// ErrDuplicateEmail is returned when a registration reuses an email
	// that already exists (case-insensitive).
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCredentials is returned on login with an unknown email or
	// a wrong password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountInactive is returned when a deactivated account presents
	// otherwise valid credentials.
	ErrAccountInactive = errors.New("account deactivated")

	// ErrWrongPassword is returned by a password change when the supplied
	// current password does not match the stored hash.
	ErrWrongPassword = errors.New("current password is incorrect")
)
