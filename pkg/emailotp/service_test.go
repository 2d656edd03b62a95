package emailotp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/notification"
)

func newTestService(t *testing.T, opts ...Option) (*Service, *InMemoryRepository, *notification.MockNotifier) {
	t.Helper()

	repo := NewInMemoryRepository()
	mock := &notification.MockNotifier{}
	nm := notification.NewNotificationManager()
	nm.RegisterNotifier(notification.EmailSystem, mock)
	require.NoError(t, notification.RegisterDefaultNotices(nm))

	return NewService(repo, nm, opts...), repo, mock
}

func sentCode(t *testing.T, mock *notification.MockNotifier) string {
	t.Helper()
	sent := mock.Sent()
	require.NotEmpty(t, sent)
	code, ok := sent[len(sent)-1].Data["Code"].(string)
	require.True(t, ok)
	return code
}

func TestSendAndVerify(t *testing.T) {
	ctx := context.Background()
	svc, repo, mock := newTestService(t)
	userID := uuid.New()

	require.NoError(t, svc.Send(ctx, userID, "alice@example.com", "Alice"))

	code := sentCode(t, mock)
	assert.Len(t, code, DefaultCodeLength)

	// Only the digest is stored.
	challenge, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.NotEqual(t, code, challenge.CodeHash)
	assert.Equal(t, HashCode(code), challenge.CodeHash)

	require.NoError(t, svc.Verify(ctx, userID, code))

	// A consumed challenge cannot be verified again.
	err = svc.Verify(ctx, userID, code)
	assert.ErrorIs(t, err, ErrNoActiveChallenge)
}

func TestVerifyWithoutChallenge(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	err := svc.Verify(ctx, uuid.New(), "123456")
	assert.ErrorIs(t, err, ErrNoActiveChallenge)
}

func TestSendSupersedesEarlierChallenge(t *testing.T) {
	ctx := context.Background()
	svc, _, mock := newTestService(t)
	userID := uuid.New()

	require.NoError(t, svc.Send(ctx, userID, "alice@example.com", "Alice"))
	first := sentCode(t, mock)

	require.NoError(t, svc.Send(ctx, userID, "alice@example.com", "Alice"))
	second := sentCode(t, mock)

	if first == second {
		t.Skip("generated codes collided")
	}

	err := svc.Verify(ctx, userID, first)
	assert.ErrorIs(t, err, ErrInvalidCode)

	require.NoError(t, svc.Verify(ctx, userID, second))
}

func TestVerifyAttemptCap(t *testing.T) {
	ctx := context.Background()
	svc, repo, mock := newTestService(t, WithMaxAttempts(3))
	userID := uuid.New()

	require.NoError(t, svc.Send(ctx, userID, "alice@example.com", "Alice"))
	code := sentCode(t, mock)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	assert.ErrorIs(t, svc.Verify(ctx, userID, wrong), ErrInvalidCode)
	assert.ErrorIs(t, svc.Verify(ctx, userID, wrong), ErrInvalidCode)
	assert.ErrorIs(t, svc.Verify(ctx, userID, wrong), ErrAttemptsExceeded)

	// The challenge is consumed; even the right code no longer works.
	assert.ErrorIs(t, svc.Verify(ctx, userID, code), ErrNoActiveChallenge)

	challenge, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.True(t, challenge.Used)
}

func TestVerifyExpiredCode(t *testing.T) {
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, mock := newTestService(t,
		WithCodeExpiry(10*time.Minute),
		WithClock(func() time.Time { return now }),
	)
	userID := uuid.New()

	require.NoError(t, svc.Send(ctx, userID, "alice@example.com", "Alice"))
	code := sentCode(t, mock)

	now = now.Add(10*time.Minute + time.Second)
	err := svc.Verify(ctx, userID, code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestSendDeliveryFailureKeepsChallenge(t *testing.T) {
	ctx := context.Background()
	svc, repo, mock := newTestService(t)
	mock.FailWith = errors.New("smtp unreachable")
	userID := uuid.New()

	err := svc.Send(ctx, userID, "alice@example.com", "Alice")
	assert.ErrorIs(t, err, ErrDeliveryFailed)

	// Challenge is stored and still live for a retried delivery.
	challenge, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, challenge.Used)
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	svc, _, mock := newTestService(t)
	userID := uuid.New()

	require.NoError(t, svc.Send(ctx, userID, "alice@example.com", "Alice"))
	code := sentCode(t, mock)

	require.NoError(t, svc.Invalidate(ctx, userID))
	assert.ErrorIs(t, svc.Verify(ctx, userID, code), ErrNoActiveChallenge)
}
