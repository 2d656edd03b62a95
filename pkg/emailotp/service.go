package emailotp

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/notification"
)

const (
	// DefaultCodeLength is the number of digits in a code.
	DefaultCodeLength = 6
	// DefaultCodeExpiry is how long a code stays valid.
	DefaultCodeExpiry = 10 * time.Minute
	// DefaultMaxAttempts is the per-code verification attempt cap.
	DefaultMaxAttempts = 3
)

// Service sends and verifies email one-time codes.
type Service struct {
	repository    Repository
	notifications *notification.NotificationManager
	codeLength    int
	codeExpiry    time.Duration
	maxAttempts   int
	now           func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCodeLength sets the number of digits in generated codes.
func WithCodeLength(length int) Option {
	return func(s *Service) {
		s.codeLength = length
	}
}

// WithCodeExpiry sets how long codes stay valid.
func WithCodeExpiry(expiry time.Duration) Option {
	return func(s *Service) {
		s.codeExpiry = expiry
	}
}

// WithMaxAttempts sets the per-code verification attempt cap.
func WithMaxAttempts(max int) Option {
	return func(s *Service) {
		s.maxAttempts = max
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates an email OTP service.
func NewService(repository Repository, notifications *notification.NotificationManager, opts ...Option) *Service {
	s := &Service{
		repository:    repository,
		notifications: notifications,
		codeLength:    DefaultCodeLength,
		codeExpiry:    DefaultCodeExpiry,
		maxAttempts:   DefaultMaxAttempts,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CodeExpiry returns the configured code lifetime.
func (s *Service) CodeExpiry() time.Duration {
	return s.codeExpiry
}

// Send generates a fresh code for the user, stores its digest as the
// user's live challenge and emails the plaintext to the given address.
// Any earlier challenge is superseded. If delivery fails the challenge
// stays valid and ErrDeliveryFailed is returned so the caller can offer
// a resend.
func (s *Service) Send(ctx context.Context, userID uuid.UUID, email, userName string) error {
	code, err := generateCode(s.codeLength)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	now := s.now().UTC()
	challenge := Challenge{
		ID:        uuid.New(),
		UserID:    userID,
		CodeHash:  HashCode(code),
		ExpiresAt: now.Add(s.codeExpiry),
		CreatedAt: now,
	}
	if err := s.repository.Replace(ctx, challenge); err != nil {
		return fmt.Errorf("failed to store challenge: %w", err)
	}
	slog.Info("Created email OTP challenge", "userID", userID, "expiresAt", challenge.ExpiresAt)

	err = s.notifications.Send(notification.MFACodeNotice, notification.NotificationData{
		To: email,
		Data: map[string]interface{}{
			"UserName":      userName,
			"Code":          code,
			"ExpiryMinutes": int(s.codeExpiry.Minutes()),
		},
	})
	if err != nil {
		slog.Error("Failed to deliver email OTP", "userID", userID, "error", err)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}

// Verify checks code against the user's live challenge. A match
// consumes the challenge. A mismatch counts against the per-code
// attempt cap; reaching the cap consumes the challenge and returns
// ErrAttemptsExceeded.
func (s *Service) Verify(ctx context.Context, userID uuid.UUID, code string) error {
	now := s.now().UTC()
	return s.repository.Update(ctx, userID, func(c *Challenge) error {
		if c.Used {
			return ErrNoActiveChallenge
		}
		if !now.Before(c.ExpiresAt) {
			return ErrCodeExpired
		}

		digest := HashCode(code)
		if subtle.ConstantTimeCompare([]byte(c.CodeHash), []byte(digest)) != 1 {
			c.Attempts++
			if c.Attempts >= s.maxAttempts {
				c.Used = true
				slog.Warn("Email OTP attempt cap reached", "userID", userID)
				return ErrAttemptsExceeded
			}
			return ErrInvalidCode
		}

		c.Used = true
		return nil
	})
}

// Invalidate discards any live challenge for the user.
func (s *Service) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return s.repository.Delete(ctx, userID)
}

// HashCode returns the hex-encoded SHA-256 digest of a code.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// generateCode produces a random string of decimal digits.
func generateCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
