package emailotp

import (
	"time"

	"github.com/google/uuid"
)

// Challenge is one outstanding email code for a user. The plaintext code
// is never stored; CodeHash holds its SHA-256 digest.
type Challenge struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CodeHash  string    `json:"code_hash"`
	Attempts  int       `json:"attempts"`
	Used      bool      `json:"used"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Live reports whether the challenge can still accept verification
// attempts at the given time.
func (c Challenge) Live(at time.Time) bool {
	return !c.Used && at.Before(c.ExpiresAt)
}
