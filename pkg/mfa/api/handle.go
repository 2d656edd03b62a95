package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/emailotp"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/mfa"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/tokengenerator"
)

// Handler exposes second-factor management for an authenticated
// session. Routes expect the jwtauth verifier and authenticator
// middleware to have run.
type Handler struct {
	service *mfa.Service
}

// NewHandler creates a new MFA management handler.
func NewHandler(service *mfa.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the management endpoints on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/mfa", func(r chi.Router) {
		r.Get("/status", h.Status)
		r.Route("/email", func(r chi.Router) {
			r.Post("/setup", h.BeginEmailOTPSetup)
			r.Post("/confirm", h.ConfirmEmailOTPSetup)
			r.Post("/disable", h.DisableEmailOTP)
		})
		r.Route("/totp", func(r chi.Router) {
			r.Post("/setup", h.BeginTOTPSetup)
			r.Post("/confirm", h.ConfirmTOTPSetup)
			r.Post("/disable", h.DisableTOTP)
		})
		r.Post("/backup-codes", h.RegenerateBackupCodes)
	})
}

// Status handles GET /mfa/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		unauthorized(w, r)
		return
	}

	status, err := h.service.Status(r.Context(), userID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, StatusResponse{
		SystemEnabled:        status.SystemEnabled,
		Mandatory:            status.Mandatory,
		TotpEnabled:          status.TOTPEnabled,
		EmailOtpEnabled:      status.EmailOTPEnabled,
		SetupRequired:        status.SetupRequired,
		BackupCodesGenerated: status.BackupCodesGenerated,
		BackupCodesRemaining: status.BackupCodesRemaining,
	})
}

// BeginEmailOTPSetup handles POST /mfa/email/setup
func (h *Handler) BeginEmailOTPSetup(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		unauthorized(w, r)
		return
	}

	if err := h.service.BeginEmailOTPSetup(r.Context(), userID); err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "Setup code sent"})
}

// ConfirmEmailOTPSetup handles POST /mfa/email/confirm
func (h *Handler) ConfirmEmailOTPSetup(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		unauthorized(w, r)
		return
	}

	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		badRequest(w, r, "Code is required")
		return
	}

	if err := h.service.ConfirmEmailOTPSetup(r.Context(), userID, req.Code); err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "Email codes enabled"})
}

// DisableEmailOTP handles POST /mfa/email/disable
func (h *Handler) DisableEmailOTP(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		unauthorized(w, r)
		return
	}

	var req DisableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		badRequest(w, r, "Password is required")
		return
	}

	if err := h.service.DisableEmailOTP(r.Context(), userID, req.Password); err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "Email codes disabled"})
}

// BeginTOTPSetup handles POST /mfa/totp/setup
func (h *Handler) BeginTOTPSetup(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		unauthorized(w, r)
		return
	}

	setup, err := h.service.BeginTOTPSetup(r.Context(), userID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, TotpSetupResponse{
		Secret:          setup.Secret,
		ProvisioningUri: setup.ProvisioningURI,
	})
}

// ConfirmTOTPSetup handles POST /mfa/totp/confirm
func (h *Handler) ConfirmTOTPSetup(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		unauthorized(w, r)
		return
	}

	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		badRequest(w, r, "Code is required")
		return
	}

	if err := h.service.ConfirmTOTPSetup(r.Context(), userID, req.Code); err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "Authenticator enabled"})
}

// DisableTOTP handles POST /mfa/totp/disable
func (h *Handler) DisableTOTP(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		unauthorized(w, r)
		return
	}

	var req DisableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		badRequest(w, r, "Password is required")
		return
	}

	if err := h.service.DisableTOTP(r.Context(), userID, req.Password); err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "Authenticator disabled"})
}

// RegenerateBackupCodes handles POST /mfa/backup-codes
func (h *Handler) RegenerateBackupCodes(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		unauthorized(w, r)
		return
	}

	var req RegenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		badRequest(w, r, "Password is required")
		return
	}

	codes, err := h.service.RegenerateBackupCodes(r.Context(), userID, req.Password)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, RegenerateResponse{Codes: codes})
}

// userIDFromContext extracts the subject from the jwtauth-verified
// session token. Tokens minted for the challenge step carry a different
// purpose claim and are rejected here, so a half-finished login can
// never reach the management endpoints.
func userIDFromContext(r *http.Request) (uuid.UUID, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return uuid.Nil, err
	}

	if purpose, _ := claims["purpose"].(string); purpose != tokengenerator.PurposeSession {
		return uuid.Nil, errors.New("token purpose is not a session")
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return uuid.Nil, errors.New("subject not found in token claims")
	}
	return uuid.Parse(subject)
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadRequest
	message := "Request failed"

	switch {
	case errors.Is(err, mfa.ErrMFANotEnabled):
		status = http.StatusConflict
		message = "Multi-factor authentication is not enabled"
	case errors.Is(err, mfa.ErrMethodNotEnrolled):
		message = "Method not enabled"
	case errors.Is(err, mfa.ErrNoPendingSetup):
		message = "No setup in progress"
	case errors.Is(err, mfa.ErrInvalidPassword):
		status = http.StatusUnauthorized
		message = "Invalid password"
	case errors.Is(err, mfa.ErrInvalidCode), errors.Is(err, emailotp.ErrInvalidCode):
		message = "Invalid code"
	case errors.Is(err, emailotp.ErrCodeExpired):
		message = "Code has expired. Request a new one"
	case errors.Is(err, emailotp.ErrAttemptsExceeded):
		status = http.StatusTooManyRequests
		message = "Too many attempts for this code. Request a new one"
	case errors.Is(err, emailotp.ErrNoActiveChallenge):
		message = "No active code. Request a new one"
	case errors.Is(err, emailotp.ErrDeliveryFailed):
		status = http.StatusBadGateway
		message = "Failed to send code. Try again"
	default:
		slog.Error("MFA management operation failed", "error", err)
		status = http.StatusInternalServerError
		message = "An error occurred"
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}

func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: message})
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, ErrorResponse{Error: "Unauthorized"})
}
