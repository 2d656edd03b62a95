package authgate

import "errors"

var (
	// ErrInvalidCredentials is returned for any password-step failure.
	// The message deliberately does not reveal whether the account
	// exists or which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrLockedOut is returned while the account-level lockout holds.
	// No provider is consulted until the window elapses.
	ErrLockedOut = errors.New("account temporarily locked")

	// ErrSignupNotSupported is returned when Signup is called without a
	// registrar configured.
	ErrSignupNotSupported = errors.New("signup not supported")
)
