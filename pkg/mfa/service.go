package mfa

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/backupcode"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/config"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/directory"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/emailotp"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/notification"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/totp"
)

// Service manages second-factor enrollment and verification.
type Service struct {
	cfg           config.MFAConfig
	repository    Repository
	userDirectory directory.UserDirectory
	totpProvider  *totp.Provider
	emailOTP      *emailotp.Service
	notifications *notification.NotificationManager
}

// NewService creates an MFA service.
func NewService(
	cfg config.MFAConfig,
	repository Repository,
	userDirectory directory.UserDirectory,
	totpProvider *totp.Provider,
	emailOTP *emailotp.Service,
	notifications *notification.NotificationManager,
) *Service {
	return &Service{
		cfg:           cfg,
		repository:    repository,
		userDirectory: userDirectory,
		totpProvider:  totpProvider,
		emailOTP:      emailOTP,
		notifications: notifications,
	}
}

// Config returns the system-wide MFA configuration the service runs
// under.
func (s *Service) Config() config.MFAConfig {
	return s.cfg
}

// Resolve applies the login policy to the user's current profile.
func (s *Service) Resolve(ctx context.Context, userID uuid.UUID) (Decision, error) {
	profile, err := s.repository.Get(ctx, userID)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return Resolve(s.cfg, profile), nil
}

// Status reports the user's enrollment summary.
func (s *Service) Status(ctx context.Context, userID uuid.UUID) (Status, error) {
	profile, err := s.repository.Get(ctx, userID)
	if err != nil {
		return Status{}, fmt.Errorf("failed to load profile: %w", err)
	}
	decision := Resolve(s.cfg, profile)
	return Status{
		SystemEnabled:        s.cfg.Enabled,
		Mandatory:            s.cfg.Mandatory,
		TOTPEnabled:          profile.TOTPEnabled && profile.TOTPVerified,
		EmailOTPEnabled:      profile.EmailOTPEnabled && profile.EmailOTPVerified,
		SetupRequired:        decision.SetupRequired,
		BackupCodesGenerated: len(profile.BackupCodeHashes) > 0,
		BackupCodesRemaining: backupcode.Remaining(profile.BackupCodeHashes),
	}, nil
}

// AutoEnroll enrolls a freshly signed-up user in the email code method
// and issues their first backup code set, so mandatory-mode users never
// face a setup step on first login. The backup codes are emailed to the
// user. No-op unless the system is in mandatory mode.
func (s *Service) AutoEnroll(ctx context.Context, user directory.User) error {
	if !s.cfg.Enabled || !s.cfg.Mandatory {
		return nil
	}

	codes, hashes, err := backupcode.Generate(s.cfg.BackupCodeCount, s.cfg.BackupCodeLength)
	if err != nil {
		return fmt.Errorf("failed to generate backup codes: %w", err)
	}

	err = s.repository.Update(ctx, user.ID, func(p *Profile) error {
		p.EmailOTPEnabled = true
		p.EmailOTPVerified = true
		p.BackupCodeHashes = hashes
		p.RecoveryEmail = user.Email
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to auto-enroll user: %w", err)
	}
	slog.Info("Auto-enrolled user in email OTP", "userID", user.ID)

	err = s.notifications.Send(notification.BackupCodesNotice, notification.NotificationData{
		To: user.Email,
		Data: map[string]interface{}{
			"UserName": user.Name,
			"Codes":    codes,
		},
	})
	if err != nil {
		// Enrollment stands; the user can regenerate codes later.
		slog.Error("Failed to email backup codes", "userID", user.ID, "error", err)
	}
	return nil
}

// BeginEmailOTPSetup starts email code enrollment by sending a code to
// the user's address. Enrollment completes in ConfirmEmailOTPSetup.
func (s *Service) BeginEmailOTPSetup(ctx context.Context, userID uuid.UUID) error {
	if !s.cfg.Enabled {
		return ErrMFANotEnabled
	}
	if !s.cfg.EmailOTPEnabled {
		return ErrMFANotEnabled
	}

	user, err := s.userDirectory.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	return s.emailOTP.Send(ctx, userID, user.Email, user.Name)
}

// ConfirmEmailOTPSetup completes email code enrollment once the user
// proves they received the setup code.
func (s *Service) ConfirmEmailOTPSetup(ctx context.Context, userID uuid.UUID, code string) error {
	if !s.cfg.Enabled {
		return ErrMFANotEnabled
	}

	if err := s.emailOTP.Verify(ctx, userID, code); err != nil {
		return err
	}

	user, err := s.userDirectory.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	err = s.repository.Update(ctx, userID, func(p *Profile) error {
		p.EmailOTPEnabled = true
		p.EmailOTPVerified = true
		p.RecoveryEmail = user.Email
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to enable email OTP: %w", err)
	}
	slog.Info("Email OTP enabled", "userID", userID)
	return nil
}

// DisableEmailOTP turns the email code method off. The account password
// must be re-confirmed, and any live challenge is discarded.
func (s *Service) DisableEmailOTP(ctx context.Context, userID uuid.UUID, password string) error {
	if !s.cfg.Enabled {
		return ErrMFANotEnabled
	}
	if err := s.confirmPassword(ctx, userID, password); err != nil {
		return err
	}

	err := s.repository.Update(ctx, userID, func(p *Profile) error {
		if !p.EmailOTPEnabled {
			return ErrMethodNotEnrolled
		}
		p.EmailOTPEnabled = false
		p.EmailOTPVerified = false
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.emailOTP.Invalidate(ctx, userID); err != nil {
		slog.Error("Failed to discard live challenge", "userID", userID, "error", err)
	}
	slog.Info("Email OTP disabled", "userID", userID)
	return nil
}

// BeginTOTPSetup generates a fresh authenticator secret for the user and
// returns it with its provisioning URI. The method stays disabled until
// ConfirmTOTPSetup proves possession.
func (s *Service) BeginTOTPSetup(ctx context.Context, userID uuid.UUID) (TOTPSetup, error) {
	if !s.cfg.Enabled {
		return TOTPSetup{}, ErrMFANotEnabled
	}

	user, err := s.userDirectory.FindByID(ctx, userID)
	if err != nil {
		return TOTPSetup{}, fmt.Errorf("failed to find user: %w", err)
	}

	secret, uri, err := s.totpProvider.GenerateSecret(user.Email)
	if err != nil {
		return TOTPSetup{}, err
	}

	err = s.repository.Update(ctx, userID, func(p *Profile) error {
		p.TOTPSecret = secret
		p.TOTPEnabled = false
		p.TOTPVerified = false
		p.LastTOTPStep = 0
		return nil
	})
	if err != nil {
		return TOTPSetup{}, fmt.Errorf("failed to store pending secret: %w", err)
	}
	return TOTPSetup{Secret: secret, ProvisioningURI: uri}, nil
}

// ConfirmTOTPSetup enables TOTP once a passcode from the pending secret
// verifies.
func (s *Service) ConfirmTOTPSetup(ctx context.Context, userID uuid.UUID, passcode string) error {
	if !s.cfg.Enabled {
		return ErrMFANotEnabled
	}

	return s.repository.Update(ctx, userID, func(p *Profile) error {
		if p.TOTPSecret == "" {
			return ErrNoPendingSetup
		}
		valid, step, err := s.totpProvider.Verify(p.TOTPSecret, passcode)
		if err != nil {
			return err
		}
		if !valid {
			return ErrInvalidCode
		}
		p.TOTPEnabled = true
		p.TOTPVerified = true
		p.LastTOTPStep = step
		slog.Info("TOTP enabled", "userID", userID)
		return nil
	})
}

// DisableTOTP turns the authenticator method off after password
// re-confirmation. The secret is discarded; re-enabling starts over.
func (s *Service) DisableTOTP(ctx context.Context, userID uuid.UUID, password string) error {
	if !s.cfg.Enabled {
		return ErrMFANotEnabled
	}
	if err := s.confirmPassword(ctx, userID, password); err != nil {
		return err
	}

	err := s.repository.Update(ctx, userID, func(p *Profile) error {
		if !p.TOTPEnabled {
			return ErrMethodNotEnrolled
		}
		p.TOTPSecret = ""
		p.TOTPEnabled = false
		p.TOTPVerified = false
		p.LastTOTPStep = 0
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info("TOTP disabled", "userID", userID)
	return nil
}

// RegenerateBackupCodes replaces the user's backup code set and returns
// the new plaintext codes, exactly once. The account password must be
// re-confirmed. Every code from the previous set stops working.
func (s *Service) RegenerateBackupCodes(ctx context.Context, userID uuid.UUID, password string) ([]string, error) {
	if !s.cfg.Enabled {
		return nil, ErrMFANotEnabled
	}
	if err := s.confirmPassword(ctx, userID, password); err != nil {
		return nil, err
	}

	codes, hashes, err := backupcode.Generate(s.cfg.BackupCodeCount, s.cfg.BackupCodeLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate backup codes: %w", err)
	}

	err = s.repository.Update(ctx, userID, func(p *Profile) error {
		p.BackupCodeHashes = hashes
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store backup codes: %w", err)
	}
	slog.Info("Backup codes regenerated", "userID", userID, "count", len(codes))

	user, err := s.userDirectory.FindByID(ctx, userID)
	if err == nil {
		err = s.notifications.Send(notification.BackupCodesNotice, notification.NotificationData{
			To: user.Email,
			Data: map[string]interface{}{
				"UserName": user.Name,
				"Codes":    codes,
			},
		})
	}
	if err != nil {
		// The caller already holds the plaintext codes.
		slog.Error("Failed to email backup codes", "userID", userID, "error", err)
	}
	return codes, nil
}

// SendLoginCode emails a fresh login code to an enrolled user,
// superseding any earlier one.
func (s *Service) SendLoginCode(ctx context.Context, userID uuid.UUID) error {
	if !s.cfg.Enabled {
		return ErrMFANotEnabled
	}

	profile, err := s.repository.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if !profile.EmailOTPEnabled || !profile.EmailOTPVerified {
		return ErrMethodNotEnrolled
	}

	user, err := s.userDirectory.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	return s.emailOTP.Send(ctx, userID, user.Email, user.Name)
}

// Verify checks a submitted code against the named method. This is the
// single dispatch point login completion goes through.
func (s *Service) Verify(ctx context.Context, userID uuid.UUID, method Method, code string) error {
	if !s.cfg.Enabled {
		return ErrMFANotEnabled
	}

	switch method {
	case MethodTOTP:
		return s.verifyTOTP(ctx, userID, code)
	case MethodEmailOTP:
		return s.verifyEmailCode(ctx, userID, code)
	case MethodBackupCode:
		return s.verifyBackupCode(ctx, userID, code)
	default:
		return fmt.Errorf("unknown verification method: %s", method)
	}
}

func (s *Service) verifyTOTP(ctx context.Context, userID uuid.UUID, passcode string) error {
	return s.repository.Update(ctx, userID, func(p *Profile) error {
		if !p.TOTPEnabled || !p.TOTPVerified {
			return ErrMethodNotEnrolled
		}
		valid, step, err := s.totpProvider.Verify(p.TOTPSecret, passcode)
		if err != nil {
			return err
		}
		if !valid {
			return ErrInvalidCode
		}
		if step <= p.LastTOTPStep {
			slog.Warn("Rejected replayed TOTP passcode", "userID", userID)
			return ErrCodeReplayed
		}
		p.LastTOTPStep = step
		return nil
	})
}

func (s *Service) verifyEmailCode(ctx context.Context, userID uuid.UUID, code string) error {
	profile, err := s.repository.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if !profile.EmailOTPEnabled || !profile.EmailOTPVerified {
		return ErrMethodNotEnrolled
	}
	return s.emailOTP.Verify(ctx, userID, code)
}

func (s *Service) verifyBackupCode(ctx context.Context, userID uuid.UUID, code string) error {
	return s.repository.Update(ctx, userID, func(p *Profile) error {
		if len(p.BackupCodeHashes) == 0 {
			return ErrMethodNotEnrolled
		}
		if !backupcode.Consume(p.BackupCodeHashes, code) {
			return ErrInvalidCode
		}
		return nil
	})
}

func (s *Service) confirmPassword(ctx context.Context, userID uuid.UUID, password string) error {
	ok, err := s.userDirectory.VerifyPassword(ctx, userID, password)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return ErrInvalidPassword
	}
	return nil
}
