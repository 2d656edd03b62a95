package mfa

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists one Profile per user.
type Repository interface {
	// Get returns the user's profile. A user with nothing stored gets
	// an empty profile with just the UserID set, not an error.
	Get(ctx context.Context, userID uuid.UUID) (Profile, error)

	// Update applies fn to the user's profile under a per-user lock and
	// persists the result. The profile is created on first use. fn's
	// error aborts the update without persisting.
	Update(ctx context.Context, userID uuid.UUID, fn func(*Profile) error) error
}
