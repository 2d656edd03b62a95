package emailotp

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists at most one challenge per user.
type Repository interface {
	// Replace stores challenge as the user's live challenge,
	// superseding any earlier one.
	Replace(ctx context.Context, challenge Challenge) error

	// Get returns the user's current challenge, or ErrNoActiveChallenge
	// if none exists.
	Get(ctx context.Context, userID uuid.UUID) (Challenge, error)

	// Update applies fn to the user's current challenge under a
	// per-user lock. The challenge state after fn runs is persisted
	// even when fn returns an error, so attempt counts survive failed
	// verifications; fn's error is returned to the caller. Returns
	// ErrNoActiveChallenge if no challenge exists.
	Update(ctx context.Context, userID uuid.UUID, fn func(*Challenge) error) error

	// Delete removes the user's challenge if present.
	Delete(ctx context.Context, userID uuid.UUID) error
}
