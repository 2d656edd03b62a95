package mfa

import (
	"time"

	"github.com/google/uuid"

	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/backupcode"
)

// Method names a second-factor verification method.
type Method string

const (
	MethodTOTP       Method = "totp"
	MethodEmailOTP   Method = "email_otp"
	MethodBackupCode Method = "backup_code"
)

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	switch m {
	case MethodTOTP, MethodEmailOTP, MethodBackupCode:
		return true
	}
	return false
}

// Profile is a user's second-factor enrollment state. A user with no
// stored profile behaves as an empty Profile: nothing enrolled.
type Profile struct {
	UserID uuid.UUID `json:"user_id"`

	TOTPSecret   string `json:"totp_secret,omitempty"`
	TOTPEnabled  bool   `json:"totp_enabled"`
	TOTPVerified bool   `json:"totp_verified"`
	// LastTOTPStep is the most recent time step a passcode was accepted
	// for, kept to reject replay inside the same step.
	LastTOTPStep int64 `json:"last_totp_step"`

	EmailOTPEnabled  bool `json:"email_otp_enabled"`
	EmailOTPVerified bool `json:"email_otp_verified"`

	BackupCodeHashes []backupcode.Hash `json:"backup_code_hashes,omitempty"`

	RecoveryEmail string `json:"recovery_email,omitempty"`
	RecoveryPhone string `json:"recovery_phone,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasEnabledMethod reports whether any login-capable method is enrolled.
// Backup codes alone do not count; they substitute for an enrolled
// method, they are not one.
func (p Profile) HasEnabledMethod() bool {
	return (p.TOTPEnabled && p.TOTPVerified) || (p.EmailOTPEnabled && p.EmailOTPVerified)
}

// EnabledMethods lists the methods a login challenge may be answered
// with, backup codes included when any exist.
func (p Profile) EnabledMethods() []Method {
	var methods []Method
	if p.TOTPEnabled && p.TOTPVerified {
		methods = append(methods, MethodTOTP)
	}
	if p.EmailOTPEnabled && p.EmailOTPVerified {
		methods = append(methods, MethodEmailOTP)
	}
	if backupcode.Remaining(p.BackupCodeHashes) > 0 {
		methods = append(methods, MethodBackupCode)
	}
	return methods
}

// Status is the enrollment summary reported to callers.
type Status struct {
	SystemEnabled        bool `json:"system_enabled"`
	Mandatory            bool `json:"mandatory"`
	TOTPEnabled          bool `json:"totp_enabled"`
	EmailOTPEnabled      bool `json:"email_otp_enabled"`
	SetupRequired        bool `json:"setup_required"`
	BackupCodesGenerated bool `json:"backup_codes_generated"`
	BackupCodesRemaining int  `json:"backup_codes_remaining"`
}

// TOTPSetup is returned when a TOTP enrollment begins.
type TOTPSetup struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioning_uri"`
}
