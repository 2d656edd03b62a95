package tokengenerator

import "errors"

var (
	// ErrTokenExpired is returned when a token is past its TTL.
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenMisuse is returned when a token is presented to an operation
	// its purpose does not cover (e.g. a challenge token used as a session).
	ErrTokenMisuse = errors.New("token not valid for this operation")
)
