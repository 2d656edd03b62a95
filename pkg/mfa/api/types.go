package api

// StatusResponse summarizes the caller's enrollment state.
type StatusResponse struct {
	SystemEnabled        bool `json:"system_enabled"`
	Mandatory            bool `json:"mandatory"`
	TotpEnabled          bool `json:"totp_enabled"`
	EmailOtpEnabled      bool `json:"email_otp_enabled"`
	SetupRequired        bool `json:"setup_required"`
	BackupCodesGenerated bool `json:"backup_codes_generated"`
	BackupCodesRemaining int  `json:"backup_codes_remaining"`
}

// ConfirmRequest submits a code to finish an enrollment.
type ConfirmRequest struct {
	Code string `json:"code"`
}

// DisableRequest re-confirms the password to turn a method off.
type DisableRequest struct {
	Password string `json:"password"`
}

// TotpSetupResponse carries authenticator provisioning material.
type TotpSetupResponse struct {
	Secret          string `json:"secret"`
	ProvisioningUri string `json:"provisioning_uri"`
}

// RegenerateRequest re-confirms the password before a new code set is
// issued.
type RegenerateRequest struct {
	Password string `json:"password"`
}

// RegenerateResponse returns the new plaintext backup codes, exactly
// once.
type RegenerateResponse struct {
	Codes []string `json:"codes"`
}

// MessageResponse is a simple confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
