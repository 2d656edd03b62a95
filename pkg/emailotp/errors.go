package emailotp

import "errors"

var (
	// ErrNoActiveChallenge is returned when verification is attempted
	// with no live challenge for the user.
	ErrNoActiveChallenge = errors.New("no active challenge")

	// ErrCodeExpired is returned when the challenge's code has passed
	// its expiry.
	ErrCodeExpired = errors.New("code expired")

	// ErrInvalidCode is returned when the submitted code does not match.
	ErrInvalidCode = errors.New("invalid code")

	// ErrAttemptsExceeded is returned when the per-code attempt cap is
	// reached; the challenge is consumed and a new code must be sent.
	ErrAttemptsExceeded = errors.New("too many attempts for this code")

	// ErrDeliveryFailed is returned when the code email could not be
	// sent. The challenge remains valid for a retried delivery.
	ErrDeliveryFailed = errors.New("failed to deliver code")
)
