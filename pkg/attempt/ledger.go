package attempt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Ledger evaluates lockout policy over recorded attempts. A user is
// locked out when their consecutive failures inside the trailing window
// reach the configured maximum; any success inside the window resets
// the count.
type Ledger struct {
	repository  Repository
	maxFailures int
	window      time.Duration
	now         func() time.Time
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		l.now = now
	}
}

// NewLedger creates a Ledger enforcing maxFailures consecutive failures
// within window.
func NewLedger(repository Repository, maxFailures int, window time.Duration, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		repository:  repository,
		maxFailures: maxFailures,
		window:      window,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RecordFailure stores a failed attempt for the given method.
func (l *Ledger) RecordFailure(ctx context.Context, userID uuid.UUID, method, ipAddress, userAgent string) error {
	return l.record(ctx, userID, method, ipAddress, userAgent, false)
}

// RecordSuccess stores a successful attempt, which resets the
// consecutive failure count.
func (l *Ledger) RecordSuccess(ctx context.Context, userID uuid.UUID, method, ipAddress, userAgent string) error {
	return l.record(ctx, userID, method, ipAddress, userAgent, true)
}

func (l *Ledger) record(ctx context.Context, userID uuid.UUID, method, ipAddress, userAgent string, success bool) error {
	err := l.repository.Record(ctx, Attempt{
		ID:        uuid.New(),
		UserID:    userID,
		Method:    method,
		Success:   success,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: l.now().UTC(),
	})
	if err != nil {
		slog.Error("Failed to record verification attempt", "userID", userID, "method", method, "error", err)
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

// IsLockedOut reports whether the user has accumulated enough recent
// consecutive failures to be locked out, and if so when the lockout
// expires.
func (l *Ledger) IsLockedOut(ctx context.Context, userID uuid.UUID) (bool, time.Time, error) {
	now := l.now().UTC()
	attempts, err := l.repository.ListSince(ctx, userID, now.Add(-l.window))
	if err != nil {
		return false, time.Time{}, fmt.Errorf("failed to list attempts: %w", err)
	}

	failures := 0
	var pivot time.Time
	for _, a := range attempts {
		if a.Success {
			break
		}
		failures++
		if failures == l.maxFailures {
			pivot = a.CreatedAt
		}
	}

	if failures < l.maxFailures {
		return false, time.Time{}, nil
	}

	// The lockout clears once the count of failures still inside the
	// window drops below the maximum.
	until := pivot.Add(l.window)
	slog.Warn("User is locked out", "userID", userID, "failures", failures, "until", until)
	return true, until, nil
}
