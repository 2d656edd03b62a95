package mfa

import "errors"

var (
	// ErrMFANotEnabled is returned when MFA operations are invoked while
	// the system-wide switch is off.
	ErrMFANotEnabled = errors.New("multi-factor authentication is not enabled")

	// ErrMethodNotEnrolled is returned when a verification or disable is
	// attempted for a method the user has not enabled.
	ErrMethodNotEnrolled = errors.New("method not enrolled for user")

	// ErrNoPendingSetup is returned when a setup confirmation arrives
	// without a matching setup in progress.
	ErrNoPendingSetup = errors.New("no setup in progress")

	// ErrInvalidPassword is returned when the password re-confirmation
	// required by sensitive operations fails.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidCode is returned when a submitted TOTP or backup code
	// does not verify.
	ErrInvalidCode = errors.New("invalid code")

	// ErrCodeReplayed is returned when a TOTP passcode from an
	// already-consumed time step is submitted again.
	ErrCodeReplayed = errors.New("code already used")
)
