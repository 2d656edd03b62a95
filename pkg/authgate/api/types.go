package api

// SignupRequest creates a new account.
type SignupRequest struct {
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Password string   `json:"password"`
	Roles    []string `json:"roles,omitempty"`
}

// SignupResponse confirms account creation.
type SignupResponse struct {
	UserId string `json:"user_id"`
	Email  string `json:"email"`
}

// LoginRequest carries the password step credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the password step outcome. Exactly one of
// AccessToken or ChallengeToken is set.
type LoginResponse struct {
	MfaRequired    bool     `json:"mfa_required"`
	SetupRequired  bool     `json:"setup_required"`
	Methods        []string `json:"methods,omitempty"`
	AccessToken    string   `json:"access_token,omitempty"`
	ChallengeToken string   `json:"challenge_token,omitempty"`
	ExpiresAt      string   `json:"expires_at,omitempty"`
}

// ChallengeRequest identifies an in-flight login by its challenge token.
type ChallengeRequest struct {
	ChallengeToken string `json:"challenge_token"`
}

// SetupRequest starts enrollment mid-login.
type SetupRequest struct {
	ChallengeToken string `json:"challenge_token"`
	Method         string `json:"method"`
}

// SetupResponse carries TOTP provisioning material when applicable.
type SetupResponse struct {
	Message         string `json:"message"`
	Secret          string `json:"secret,omitempty"`
	ProvisioningUri string `json:"provisioning_uri,omitempty"`
}

// CompleteRequest submits a code against an in-flight login.
type CompleteRequest struct {
	ChallengeToken string `json:"challenge_token"`
	Method         string `json:"method"`
	Code           string `json:"code"`
}

// CompleteResponse returns the session access token.
type CompleteResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
}

// StatusResponse summarizes enrollment for an in-flight login.
type StatusResponse struct {
	SystemEnabled        bool `json:"system_enabled"`
	TotpEnabled          bool `json:"totp_enabled"`
	EmailOtpEnabled      bool `json:"email_otp_enabled"`
	SetupRequired        bool `json:"setup_required"`
	BackupCodesRemaining int  `json:"backup_codes_remaining"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
