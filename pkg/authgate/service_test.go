package authgate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/attempt"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/config"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/directory"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/emailotp"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/mfa"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/notification"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/tokengenerator"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/totp"
)

type gateEnv struct {
	gate *Service
	mfa  *mfa.Service
	dir  *directory.InMemoryDirectory
	mock *notification.MockNotifier
	totp *totp.Provider
	now  *time.Time
}

func newGateEnv(t *testing.T, cfg config.MFAConfig) *gateEnv {
	t.Helper()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	dir := directory.NewInMemoryDirectory()

	mock := &notification.MockNotifier{}
	nm := notification.NewNotificationManager()
	nm.RegisterNotifier(notification.EmailSystem, mock)
	require.NoError(t, notification.RegisterDefaultNotices(nm))

	totpProvider := totp.NewProvider(cfg.Issuer, totp.WithSkew(uint(cfg.TOTPSkew)), totp.WithClock(clock))
	emailSvc := emailotp.NewService(emailotp.NewInMemoryRepository(), nm,
		emailotp.WithCodeExpiry(cfg.CodeExpiry),
		emailotp.WithMaxAttempts(cfg.MaxCodeAttempts),
		emailotp.WithClock(clock),
	)
	mfaSvc := mfa.NewService(cfg, mfa.NewInMemoryRepository(), dir, totpProvider, emailSvc, nm)

	ledger := attempt.NewLedger(attempt.NewInMemoryRepository(), cfg.MaxLoginAttempts, cfg.LockoutWindow, attempt.WithClock(clock))

	generator := tokengenerator.NewJwtTokenGenerator("test-signing-secret", cfg.Issuer, "recruiter-portal-api")
	tokens := tokengenerator.NewJwtService(generator)

	gate := NewService(dir, mfaSvc, tokens, ledger, WithRegistrar(dir))

	return &gateEnv{gate: gate, mfa: mfaSvc, dir: dir, mock: mock, totp: totpProvider, now: &now}
}

func enabledConfig() config.MFAConfig {
	cfg := config.DefaultMFAConfig()
	cfg.Enabled = true
	return cfg
}

func lastCode(t *testing.T, mock *notification.MockNotifier) string {
	t.Helper()
	sent := mock.Sent()
	require.NotEmpty(t, sent)
	code, ok := sent[len(sent)-1].Data["Code"].(string)
	require.True(t, ok)
	return code
}

func TestLoginWithoutMFA(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultMFAConfig() // system switch off
	env := newGateEnv(t, cfg)

	_, err := env.gate.Signup(ctx, "alice@example.com", "Alice", "s3cret-pass", []string{"recruiter"})
	require.NoError(t, err)

	result, err := env.gate.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.False(t, result.MFARequired)
	require.NotNil(t, result.AccessToken)
	assert.NotEmpty(t, result.AccessToken.Token)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	env := newGateEnv(t, enabledConfig())

	_, err := env.gate.Signup(ctx, "alice@example.com", "Alice", "s3cret-pass", nil)
	require.NoError(t, err)

	// Wrong password and unknown account fail identically.
	_, err = env.gate.Login(ctx, "alice@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.gate.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMandatorySignupNeedsNoSetup(t *testing.T) {
	ctx := context.Background()
	cfg := enabledConfig()
	cfg.Mandatory = true
	env := newGateEnv(t, cfg)

	user, err := env.gate.Signup(ctx, "alice@example.com", "Alice", "s3cret-pass", nil)
	require.NoError(t, err)

	status, err := env.mfa.Status(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, status.SystemEnabled)
	assert.True(t, status.EmailOTPEnabled)
	assert.False(t, status.SetupRequired)

	result, err := env.gate.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, result.MFARequired)
	assert.False(t, result.SetupRequired)
	assert.Contains(t, result.Methods, mfa.MethodEmailOTP)
	require.NotNil(t, result.ChallengeToken)

	require.NoError(t, env.gate.SendEmailCode(ctx, result.ChallengeToken.Token))
	code := lastCode(t, env.mock)

	access, err := env.gate.CompleteLogin(ctx, result.ChallengeToken.Token, mfa.MethodEmailOTP, code, "198.51.100.4", "go-test")
	require.NoError(t, err)
	assert.NotEmpty(t, access.Token)
}

func TestMandatoryPreExistingUserSetupFlow(t *testing.T) {
	ctx := context.Background()
	cfg := enabledConfig()
	cfg.Mandatory = true
	env := newGateEnv(t, cfg)

	// Account created outside the signup path: no enrollment.
	_, err := env.dir.Register(ctx, "bob@example.com", "Bob", "correct-horse", nil)
	require.NoError(t, err)

	result, err := env.gate.Login(ctx, "bob@example.com", "correct-horse")
	require.NoError(t, err)
	assert.True(t, result.MFARequired)
	assert.True(t, result.SetupRequired)
	require.NotNil(t, result.ChallengeToken)

	status, err := env.gate.Status(ctx, result.ChallengeToken.Token)
	require.NoError(t, err)
	assert.True(t, status.SetupRequired)

	setup, err := env.gate.SetupMethod(ctx, result.ChallengeToken.Token, mfa.MethodEmailOTP)
	require.NoError(t, err)
	assert.Nil(t, setup)

	require.NoError(t, env.gate.SendEmailCode(ctx, result.ChallengeToken.Token))
	code := lastCode(t, env.mock)

	access, err := env.gate.CompleteLogin(ctx, result.ChallengeToken.Token, mfa.MethodEmailOTP, code, "198.51.100.4", "go-test")
	require.NoError(t, err)
	assert.NotEmpty(t, access.Token)

	// Enrollment stuck: the next login offers email OTP without setup.
	result, err = env.gate.Login(ctx, "bob@example.com", "correct-horse")
	require.NoError(t, err)
	assert.False(t, result.SetupRequired)
	assert.Contains(t, result.Methods, mfa.MethodEmailOTP)
}

func TestTOTPSetupThroughChallenge(t *testing.T) {
	ctx := context.Background()
	cfg := enabledConfig()
	cfg.Mandatory = true
	env := newGateEnv(t, cfg)

	_, err := env.dir.Register(ctx, "bob@example.com", "Bob", "correct-horse", nil)
	require.NoError(t, err)

	result, err := env.gate.Login(ctx, "bob@example.com", "correct-horse")
	require.NoError(t, err)
	require.NotNil(t, result.ChallengeToken)

	setup, err := env.gate.SetupMethod(ctx, result.ChallengeToken.Token, mfa.MethodTOTP)
	require.NoError(t, err)
	require.NotNil(t, setup)
	assert.Contains(t, setup.ProvisioningURI, "otpauth://totp/")

	passcode, err := env.totp.CodeAt(setup.Secret, *env.now)
	require.NoError(t, err)

	access, err := env.gate.CompleteLogin(ctx, result.ChallengeToken.Token, mfa.MethodTOTP, passcode, "198.51.100.4", "go-test")
	require.NoError(t, err)
	assert.NotEmpty(t, access.Token)
}

func TestCompleteLoginRejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	env := newGateEnv(t, enabledConfig())

	_, err := env.gate.Signup(ctx, "alice@example.com", "Alice", "s3cret-pass", nil)
	require.NoError(t, err)

	// MFA optional and not enrolled: login yields an access token.
	result, err := env.gate.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotNil(t, result.AccessToken)

	// An access token must never pass for a challenge token.
	_, err = env.gate.CompleteLogin(ctx, result.AccessToken.Token, mfa.MethodEmailOTP, "123456", "198.51.100.4", "go-test")
	assert.ErrorIs(t, err, tokengenerator.ErrTokenMisuse)
}

func TestCompleteLoginLockout(t *testing.T) {
	ctx := context.Background()
	cfg := enabledConfig()
	cfg.Mandatory = true
	cfg.MaxLoginAttempts = 3
	// Generous per-code cap and expiry so the account lockout is the
	// limit being exercised, not the challenge's own.
	cfg.MaxCodeAttempts = 10
	cfg.CodeExpiry = time.Hour
	env := newGateEnv(t, cfg)

	_, err := env.gate.Signup(ctx, "alice@example.com", "Alice", "s3cret-pass", nil)
	require.NoError(t, err)

	result, err := env.gate.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	token := result.ChallengeToken.Token

	require.NoError(t, env.gate.SendEmailCode(ctx, token))
	code := lastCode(t, env.mock)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i := 0; i < cfg.MaxLoginAttempts; i++ {
		_, err = env.gate.CompleteLogin(ctx, token, mfa.MethodEmailOTP, wrong, "198.51.100.4", "go-test")
		assert.ErrorIs(t, err, emailotp.ErrInvalidCode)
		*env.now = env.now.Add(time.Second)
	}

	// Locked: even the correct code is rejected without being consumed.
	_, err = env.gate.CompleteLogin(ctx, token, mfa.MethodEmailOTP, code, "198.51.100.4", "go-test")
	assert.ErrorIs(t, err, ErrLockedOut)

	// After the window elapses the correct code goes through.
	*env.now = env.now.Add(cfg.LockoutWindow)
	access, err := env.gate.CompleteLogin(ctx, token, mfa.MethodEmailOTP, code, "198.51.100.4", "go-test")
	require.NoError(t, err)
	assert.NotEmpty(t, access.Token)
}

func TestSignupWithoutRegistrar(t *testing.T) {
	ctx := context.Background()
	env := newGateEnv(t, enabledConfig())

	gate := NewService(env.dir, env.mfa, nil, nil)
	_, err := gate.Signup(ctx, "alice@example.com", "Alice", "s3cret-pass", nil)
	assert.ErrorIs(t, err, ErrSignupNotSupported)
}
