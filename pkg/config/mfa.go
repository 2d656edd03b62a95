package config

import "time"

// Default MFA settings, matching the recruiter portal defaults.
const (
	DefaultCodeLength       = 6
	DefaultCodeExpiry       = 10 * time.Minute
	DefaultMaxCodeAttempts  = 3
	DefaultMaxLoginAttempts = 5
	DefaultLockoutWindow    = 15 * time.Minute
	DefaultBackupCodeCount  = 10
	DefaultBackupCodeLength = 8
	DefaultTOTPSkew         = 1
	DefaultIssuer           = "recruiter-portal"
)

// MFAConfig contains the process-wide MFA settings. It is constructed once at
// startup and passed into the policy engine and providers; fields are never
// mutated afterwards.
type MFAConfig struct {
	// Enabled controls MFA system-wide. When false every enrollment and
	// verification operation fails.
	Enabled bool

	// Mandatory forces every login through a second factor. New signups are
	// auto-enrolled in email OTP so they never hit a setup wall.
	Mandatory bool

	// EmailOTPEnabled controls whether the emailed-code method is offered.
	EmailOTPEnabled bool

	// CodeLength is the number of digits in TOTP and email OTP codes.
	CodeLength int

	// CodeExpiry is how long an emailed code stays valid.
	CodeExpiry time.Duration

	// MaxCodeAttempts is the per-challenge verification attempt cap.
	MaxCodeAttempts int

	// MaxLoginAttempts is the consecutive-failure count that triggers an
	// account-level lockout.
	MaxLoginAttempts int

	// LockoutWindow is the trailing interval over which consecutive failures
	// are counted, and how long the lockout holds after the last failure.
	LockoutWindow time.Duration

	// BackupCodeCount and BackupCodeLength control recovery code generation.
	BackupCodeCount  int
	BackupCodeLength int

	// TOTPSkew is the number of 30-second steps accepted on either side of
	// the current one, absorbing clock drift.
	TOTPSkew int

	// Issuer is the name shown in authenticator apps and token claims.
	Issuer string
}

// DefaultMFAConfig returns an MFAConfig with the portal defaults and MFA
// switched off. Hosts enable it explicitly or via NewMFAConfigFromEnv.
func DefaultMFAConfig() MFAConfig {
	return MFAConfig{
		Enabled:          false,
		Mandatory:        false,
		EmailOTPEnabled:  true,
		CodeLength:       DefaultCodeLength,
		CodeExpiry:       DefaultCodeExpiry,
		MaxCodeAttempts:  DefaultMaxCodeAttempts,
		MaxLoginAttempts: DefaultMaxLoginAttempts,
		LockoutWindow:    DefaultLockoutWindow,
		BackupCodeCount:  DefaultBackupCodeCount,
		BackupCodeLength: DefaultBackupCodeLength,
		TOTPSkew:         DefaultTOTPSkew,
		Issuer:           DefaultIssuer,
	}
}

// NewMFAConfigFromEnv loads MFAConfig from standard environment variables.
//
// Environment variables:
//   - MFA_ENABLED: enable MFA system-wide (default: false)
//   - MFA_MANDATORY: require a second factor on every login (default: false)
//   - MFA_EMAIL_OTP_ENABLED: offer the emailed-code method (default: true)
//   - MFA_CODE_LENGTH: digits per one-time code (default: 6)
//   - MFA_CODE_EXPIRY: email code validity, Go duration (default: "10m")
//   - MFA_MAX_CODE_ATTEMPTS: per-challenge attempt cap (default: 3)
//   - MFA_MAX_LOGIN_ATTEMPTS: failures before lockout (default: 5)
//   - MFA_LOCKOUT_WINDOW: lockout window, Go duration (default: "15m")
//   - MFA_BACKUP_CODE_COUNT: recovery codes per set (default: 10)
//   - MFA_BACKUP_CODE_LENGTH: characters per recovery code (default: 8)
//   - MFA_TOTP_SKEW: accepted TOTP steps either side (default: 1)
//   - MFA_ISSUER: authenticator app issuer name (default: "recruiter-portal")
func NewMFAConfigFromEnv() MFAConfig {
	return MFAConfig{
		Enabled:          GetEnvBool("MFA_ENABLED", false),
		Mandatory:        GetEnvBool("MFA_MANDATORY", false),
		EmailOTPEnabled:  GetEnvBool("MFA_EMAIL_OTP_ENABLED", true),
		CodeLength:       GetEnvInt("MFA_CODE_LENGTH", DefaultCodeLength),
		CodeExpiry:       GetEnvDuration("MFA_CODE_EXPIRY", DefaultCodeExpiry),
		MaxCodeAttempts:  GetEnvInt("MFA_MAX_CODE_ATTEMPTS", DefaultMaxCodeAttempts),
		MaxLoginAttempts: GetEnvInt("MFA_MAX_LOGIN_ATTEMPTS", DefaultMaxLoginAttempts),
		LockoutWindow:    GetEnvDuration("MFA_LOCKOUT_WINDOW", DefaultLockoutWindow),
		BackupCodeCount:  GetEnvInt("MFA_BACKUP_CODE_COUNT", DefaultBackupCodeCount),
		BackupCodeLength: GetEnvInt("MFA_BACKUP_CODE_LENGTH", DefaultBackupCodeLength),
		TOTPSkew:         GetEnvInt("MFA_TOTP_SKEW", DefaultTOTPSkew),
		Issuer:           GetEnvOrDefault("MFA_ISSUER", DefaultIssuer),
	}
}
