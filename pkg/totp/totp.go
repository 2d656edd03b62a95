// Package totp wraps RFC 6238 time-based one-time password generation
// and validation for authenticator app enrollment.
package totp

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// Period is the TOTP time step in seconds.
	Period = 30
	// Digits is the passcode length.
	Digits = otp.DigitsSix
)

// Provider generates secrets and validates passcodes for one issuer.
type Provider struct {
	issuer string
	skew   uint
	now    func() time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithSkew sets how many adjacent time steps are accepted on either side
// of the current one.
func WithSkew(skew uint) Option {
	return func(p *Provider) {
		p.skew = skew
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		p.now = now
	}
}

// NewProvider creates a Provider for the given issuer name.
func NewProvider(issuer string, opts ...Option) *Provider {
	p := &Provider{
		issuer: issuer,
		skew:   1,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GenerateSecret creates a new base32 secret for accountName and returns
// the secret together with its otpauth:// provisioning URI.
func (p *Provider) GenerateSecret(accountName string) (secret, uri string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      p.issuer,
		AccountName: accountName,
		Period:      Period,
		Digits:      Digits,
	})
	if err != nil {
		slog.Error("Failed to generate totp secret", "issuer", p.issuer, "error", err)
		return "", "", fmt.Errorf("failed to generate totp secret: %w", err)
	}
	return key.Secret(), key.URL(), nil
}

// ProvisioningURI rebuilds the otpauth:// URI for an existing secret.
func (p *Provider) ProvisioningURI(secret, accountName string) string {
	return fmt.Sprintf("otpauth://totp/%s:%s?secret=%s&issuer=%s&period=%d&digits=%d",
		p.issuer, accountName, secret, p.issuer, Period, 6)
}

// CodeAt computes the passcode for a secret at the given time.
func (p *Provider) CodeAt(secret string, at time.Time) (string, error) {
	code, err := totp.GenerateCodeCustom(secret, at.UTC(), p.validateOpts())
	if err != nil {
		return "", fmt.Errorf("failed to generate totp passcode: %w", err)
	}
	return code, nil
}

// Verify checks a passcode against the secret at the current time,
// accepting codes within the configured skew. On success it also returns
// the time step the passcode matched, which callers use to reject replay
// of the same step.
func (p *Provider) Verify(secret, passcode string) (bool, int64, error) {
	now := p.now().UTC()
	valid, err := totp.ValidateCustom(passcode, secret, now, p.validateOpts())
	if err != nil {
		slog.Error("Failed to validate totp passcode", "error", err)
		return false, 0, fmt.Errorf("failed to validate totp passcode: %w", err)
	}
	if !valid {
		return false, 0, nil
	}

	// Find which step inside the skew window produced the match.
	step := now.Unix() / Period
	for offset := -int64(p.skew); offset <= int64(p.skew); offset++ {
		at := time.Unix((step+offset)*Period, 0).UTC()
		code, err := totp.GenerateCodeCustom(secret, at, p.validateOpts())
		if err != nil {
			continue
		}
		if code == passcode {
			return true, step + offset, nil
		}
	}
	return true, step, nil
}

func (p *Provider) validateOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    Period,
		Skew:      p.skew,
		Digits:    Digits,
		Algorithm: otp.AlgorithmSHA1,
	}
}
