package authgate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/attempt"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/directory"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/mfa"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/tokengenerator"
)

// Registrar creates new user accounts. The in-memory directory
// implements it; hosts with an external identity store plug in their
// own.
type Registrar interface {
	Register(ctx context.Context, email, name, password string, roles []string) (directory.User, error)
}

// LoginResult is the outcome of the password step.
type LoginResult struct {
	// MFARequired means the caller must complete a challenge before an
	// access token is issued. When false, AccessToken is set.
	MFARequired bool `json:"mfa_required"`

	// SetupRequired means the user has no enrolled method and must call
	// SetupMethod with the challenge token first.
	SetupRequired bool `json:"setup_required"`

	// Methods lists the ways the challenge can be answered.
	Methods []mfa.Method `json:"methods,omitempty"`

	AccessToken    *tokengenerator.TokenValue `json:"access_token,omitempty"`
	ChallengeToken *tokengenerator.TokenValue `json:"challenge_token,omitempty"`
}

// Service runs the login state machine.
type Service struct {
	userDirectory directory.UserDirectory
	mfaService    *mfa.Service
	tokens        tokengenerator.TokenService
	ledger        *attempt.Ledger
	registrar     Registrar
}

// Option configures a Service.
type Option func(*Service)

// WithRegistrar enables Signup through the given account creator.
func WithRegistrar(registrar Registrar) Option {
	return func(s *Service) {
		s.registrar = registrar
	}
}

// NewService creates the login orchestrator.
func NewService(
	userDirectory directory.UserDirectory,
	mfaService *mfa.Service,
	tokens tokengenerator.TokenService,
	ledger *attempt.Ledger,
	opts ...Option,
) *Service {
	s := &Service{
		userDirectory: userDirectory,
		mfaService:    mfaService,
		tokens:        tokens,
		ledger:        ledger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup creates an account and, in mandatory mode, auto-enrolls it in
// the email code method so the first login never hits a setup wall.
func (s *Service) Signup(ctx context.Context, email, name, password string, roles []string) (directory.User, error) {
	if s.registrar == nil {
		return directory.User{}, ErrSignupNotSupported
	}

	user, err := s.registrar.Register(ctx, email, name, password, roles)
	if err != nil {
		return directory.User{}, fmt.Errorf("failed to register user: %w", err)
	}
	slog.Info("User registered", "userID", user.ID)

	if err := s.mfaService.AutoEnroll(ctx, user); err != nil {
		return directory.User{}, err
	}
	return user, nil
}

// Login runs the password step. On success it either returns an access
// token directly or, when policy demands a second factor, a short-lived
// challenge token scoped to completing it. All password-step failures
// surface as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.userDirectory.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			slog.Info("Login attempt for unknown email")
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.Active {
		slog.Info("Login attempt for inactive user", "userID", user.ID)
		return LoginResult{}, ErrInvalidCredentials
	}

	ok, err := s.userDirectory.VerifyPassword(ctx, user.ID, password)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		slog.Info("Password mismatch", "userID", user.ID)
		return LoginResult{}, ErrInvalidCredentials
	}

	decision, err := s.mfaService.Resolve(ctx, user.ID)
	if err != nil {
		return LoginResult{}, err
	}

	if !decision.Required {
		token, err := s.issueAccess(ctx, user)
		if err != nil {
			return LoginResult{}, err
		}
		return LoginResult{AccessToken: &token}, nil
	}

	challenge, err := s.tokens.IssueChallengeToken(user.ID.String())
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to issue challenge token: %w", err)
	}

	profile, err := s.mfaService.Status(ctx, user.ID)
	if err != nil {
		return LoginResult{}, err
	}
	var methods []mfa.Method
	if profile.TOTPEnabled {
		methods = append(methods, mfa.MethodTOTP)
	}
	if profile.EmailOTPEnabled {
		methods = append(methods, mfa.MethodEmailOTP)
	}
	if profile.BackupCodesRemaining > 0 {
		methods = append(methods, mfa.MethodBackupCode)
	}

	slog.Info("Login challenged", "userID", user.ID, "setupRequired", decision.SetupRequired)
	return LoginResult{
		MFARequired:    true,
		SetupRequired:  decision.SetupRequired,
		Methods:        methods,
		ChallengeToken: &challenge,
	}, nil
}

// CompleteLogin verifies a submitted code against the challenge token's
// subject and, on success, exchanges the challenge for an access token.
// The lockout check runs before any provider is consulted, and every
// attempt lands in the ledger either way.
//
// A code for a not-yet-enrolled method is treated as a setup
// confirmation when a setup is in progress, so mandatory-mode users
// enroll and finish their first login in one step.
func (s *Service) CompleteLogin(ctx context.Context, challengeToken string, method mfa.Method, code, ipAddress, userAgent string) (tokengenerator.TokenValue, error) {
	userID, err := s.subject(challengeToken)
	if err != nil {
		return tokengenerator.TokenValue{}, err
	}
	if !method.Valid() {
		return tokengenerator.TokenValue{}, fmt.Errorf("unknown verification method: %s", method)
	}

	locked, until, err := s.ledger.IsLockedOut(ctx, userID)
	if err != nil {
		return tokengenerator.TokenValue{}, err
	}
	if locked {
		slog.Warn("Verification blocked by lockout", "userID", userID, "until", until)
		return tokengenerator.TokenValue{}, ErrLockedOut
	}

	verifyErr := s.mfaService.Verify(ctx, userID, method, code)
	if errors.Is(verifyErr, mfa.ErrMethodNotEnrolled) {
		verifyErr = s.confirmSetup(ctx, userID, method, code)
	}

	if verifyErr != nil {
		if recordErr := s.ledger.RecordFailure(ctx, userID, string(method), ipAddress, userAgent); recordErr != nil {
			slog.Error("Failed to record attempt", "userID", userID, "error", recordErr)
		}
		return tokengenerator.TokenValue{}, verifyErr
	}

	if err := s.ledger.RecordSuccess(ctx, userID, string(method), ipAddress, userAgent); err != nil {
		slog.Error("Failed to record attempt", "userID", userID, "error", err)
	}

	user, err := s.userDirectory.FindByID(ctx, userID)
	if err != nil {
		return tokengenerator.TokenValue{}, fmt.Errorf("failed to find user: %w", err)
	}
	slog.Info("Second factor verified", "userID", userID, "method", method)
	return s.issueAccess(ctx, user)
}

// SetupMethod starts enrollment for the challenge token's subject.
// Email OTP sends a setup code; TOTP returns a fresh secret and
// provisioning URI. Either way, CompleteLogin with a valid code
// finishes both the enrollment and the login.
func (s *Service) SetupMethod(ctx context.Context, challengeToken string, method mfa.Method) (*mfa.TOTPSetup, error) {
	userID, err := s.subject(challengeToken)
	if err != nil {
		return nil, err
	}

	switch method {
	case mfa.MethodEmailOTP:
		return nil, s.mfaService.BeginEmailOTPSetup(ctx, userID)
	case mfa.MethodTOTP:
		setup, err := s.mfaService.BeginTOTPSetup(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &setup, nil
	default:
		return nil, fmt.Errorf("method does not support setup: %s", method)
	}
}

// SendEmailCode emails a fresh login code to the challenge token's
// subject, superseding any earlier one.
func (s *Service) SendEmailCode(ctx context.Context, challengeToken string) error {
	userID, err := s.subject(challengeToken)
	if err != nil {
		return err
	}
	err = s.mfaService.SendLoginCode(ctx, userID)
	if errors.Is(err, mfa.ErrMethodNotEnrolled) {
		// Setup in progress; resend the setup code instead.
		return s.mfaService.BeginEmailOTPSetup(ctx, userID)
	}
	return err
}

// Status reports the enrollment summary for the challenge token's
// subject, so clients mid-login can render the right prompt.
func (s *Service) Status(ctx context.Context, challengeToken string) (mfa.Status, error) {
	userID, err := s.subject(challengeToken)
	if err != nil {
		return mfa.Status{}, err
	}
	return s.mfaService.Status(ctx, userID)
}

func (s *Service) confirmSetup(ctx context.Context, userID uuid.UUID, method mfa.Method, code string) error {
	switch method {
	case mfa.MethodTOTP:
		err := s.mfaService.ConfirmTOTPSetup(ctx, userID, code)
		if errors.Is(err, mfa.ErrNoPendingSetup) {
			return mfa.ErrMethodNotEnrolled
		}
		return err
	case mfa.MethodEmailOTP:
		return s.mfaService.ConfirmEmailOTPSetup(ctx, userID, code)
	default:
		return mfa.ErrMethodNotEnrolled
	}
}

func (s *Service) subject(challengeToken string) (uuid.UUID, error) {
	subject, err := s.tokens.Validate(challengeToken, tokengenerator.PurposeMFA)
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid token subject: %w", err)
	}
	return userID, nil
}

func (s *Service) issueAccess(ctx context.Context, user directory.User) (tokengenerator.TokenValue, error) {
	token, err := s.tokens.IssueAccessToken(user.ID.String(), map[string]interface{}{
		"email": user.Email,
		"roles": user.Roles,
	})
	if err != nil {
		return tokengenerator.TokenValue{}, fmt.Errorf("failed to issue access token: %w", err)
	}
	return token, nil
}
