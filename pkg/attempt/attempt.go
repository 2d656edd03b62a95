// Package attempt records verification outcomes and derives login
// lockout state from recent consecutive failures.
package attempt

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Attempt is one recorded verification outcome.
type Attempt struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Method    string    `json:"method"`
	Success   bool      `json:"success"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists attempts and serves the trailing window queries
// the lockout check needs.
type Repository interface {
	// Record stores a new attempt.
	Record(ctx context.Context, attempt Attempt) error

	// ListSince returns the user's attempts at or after since, most
	// recent first.
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]Attempt, error)
}
