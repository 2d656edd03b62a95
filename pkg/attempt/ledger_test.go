package attempt

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerNotLockedOutBelowThreshold(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	ledger := NewLedger(repo, 5, 15*time.Minute)
	userID := uuid.New()

	for i := 0; i < 4; i++ {
		require.NoError(t, ledger.RecordFailure(ctx, userID, "email_otp", "203.0.113.7", "go-test"))
	}

	locked, _, err := ledger.IsLockedOut(ctx, userID)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestLedgerLocksOutAtThreshold(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	ledger := NewLedger(repo, 5, 15*time.Minute)
	userID := uuid.New()

	for i := 0; i < 5; i++ {
		require.NoError(t, ledger.RecordFailure(ctx, userID, "totp", "203.0.113.7", "go-test"))
	}

	locked, until, err := ledger.IsLockedOut(ctx, userID)
	require.NoError(t, err)
	assert.True(t, locked)
	assert.True(t, until.After(time.Now().UTC()))
}

func TestLedgerSuccessResetsCount(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	ledger := NewLedger(repo, 5, 15*time.Minute, WithClock(clock))
	userID := uuid.New()

	for i := 0; i < 4; i++ {
		require.NoError(t, ledger.RecordFailure(ctx, userID, "email_otp", "203.0.113.7", "go-test"))
		now = now.Add(time.Second)
	}
	require.NoError(t, ledger.RecordSuccess(ctx, userID, "email_otp", "203.0.113.7", "go-test"))
	now = now.Add(time.Second)
	require.NoError(t, ledger.RecordFailure(ctx, userID, "email_otp", "203.0.113.7", "go-test"))

	locked, _, err := ledger.IsLockedOut(ctx, userID)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestLedgerLockoutExpiresWithWindow(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	ledger := NewLedger(repo, 3, 15*time.Minute, WithClock(clock))
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, ledger.RecordFailure(ctx, userID, "backup_code", "203.0.113.7", "go-test"))
		now = now.Add(time.Second)
	}

	locked, until, err := ledger.IsLockedOut(ctx, userID)
	require.NoError(t, err)
	assert.True(t, locked)

	// Advance past the window; the old failures no longer count.
	now = until.Add(time.Second)
	locked, _, err = ledger.IsLockedOut(ctx, userID)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestLedgerIgnoresOtherUsers(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	ledger := NewLedger(repo, 3, 15*time.Minute)
	userID := uuid.New()
	otherID := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, ledger.RecordFailure(ctx, otherID, "email_otp", "203.0.113.7", "go-test"))
	}

	locked, _, err := ledger.IsLockedOut(ctx, userID)
	require.NoError(t, err)
	assert.False(t, locked)
}
