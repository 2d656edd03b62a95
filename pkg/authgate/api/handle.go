package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/authgate"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/emailotp"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/mfa"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/tokengenerator"
)

// Handler exposes the login state machine over HTTP.
type Handler struct {
	service *authgate.Service
}

// NewHandler creates a new login API handler.
func NewHandler(service *authgate.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the login endpoints on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Route("/mfa", func(r chi.Router) {
			r.Post("/send", h.SendEmailCode)
			r.Post("/setup", h.SetupMethod)
			r.Post("/complete", h.CompleteLogin)
			r.Post("/status", h.Status)
		})
	})
}

// Signup handles POST /auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		badRequest(w, r, "Email and password are required")
		return
	}

	user, err := h.service.Signup(r.Context(), req.Email, req.Name, req.Password, req.Roles)
	if err != nil {
		if errors.Is(err, authgate.ErrSignupNotSupported) {
			render.Status(r, http.StatusNotImplemented)
			render.JSON(w, r, ErrorResponse{Error: "Signup is not supported"})
			return
		}
		slog.Error("Failed to sign up user", "error", err)
		internalError(w, r)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, SignupResponse{UserId: user.ID.String(), Email: user.Email})
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "Invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authgate.ErrInvalidCredentials) {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, ErrorResponse{Error: "Invalid credentials"})
			return
		}
		slog.Error("Login failed", "error", err)
		internalError(w, r)
		return
	}

	resp := LoginResponse{
		MfaRequired:   result.MFARequired,
		SetupRequired: result.SetupRequired,
	}
	for _, m := range result.Methods {
		resp.Methods = append(resp.Methods, string(m))
	}
	if result.AccessToken != nil {
		resp.AccessToken = result.AccessToken.Token
		resp.ExpiresAt = result.AccessToken.Expiry.Format(time.RFC3339)
	}
	if result.ChallengeToken != nil {
		resp.ChallengeToken = result.ChallengeToken.Token
		resp.ExpiresAt = result.ChallengeToken.Expiry.Format(time.RFC3339)
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// SendEmailCode handles POST /auth/mfa/send
func (h *Handler) SendEmailCode(w http.ResponseWriter, r *http.Request) {
	var req ChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "Invalid request body")
		return
	}

	if err := h.service.SendEmailCode(r.Context(), req.ChallengeToken); err != nil {
		renderMFAError(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"message": "Code sent"})
}

// SetupMethod handles POST /auth/mfa/setup
func (h *Handler) SetupMethod(w http.ResponseWriter, r *http.Request) {
	var req SetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "Invalid request body")
		return
	}

	setup, err := h.service.SetupMethod(r.Context(), req.ChallengeToken, mfa.Method(req.Method))
	if err != nil {
		renderMFAError(w, r, err)
		return
	}

	resp := SetupResponse{Message: "Setup started"}
	if setup != nil {
		resp.Secret = setup.Secret
		resp.ProvisioningUri = setup.ProvisioningURI
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// CompleteLogin handles POST /auth/mfa/complete
func (h *Handler) CompleteLogin(w http.ResponseWriter, r *http.Request) {
	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "Invalid request body")
		return
	}
	if req.Code == "" {
		badRequest(w, r, "Code is required")
		return
	}

	token, err := h.service.CompleteLogin(r.Context(), req.ChallengeToken, mfa.Method(req.Method), req.Code,
		ipAddressFromRequest(r), r.Header.Get("User-Agent"))
	if err != nil {
		renderMFAError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, CompleteResponse{
		AccessToken: token.Token,
		ExpiresAt:   token.Expiry.Format(time.RFC3339),
	})
}

// Status handles POST /auth/mfa/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	var req ChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "Invalid request body")
		return
	}

	status, err := h.service.Status(r.Context(), req.ChallengeToken)
	if err != nil {
		renderMFAError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, StatusResponse{
		SystemEnabled:        status.SystemEnabled,
		TotpEnabled:          status.TOTPEnabled,
		EmailOtpEnabled:      status.EmailOTPEnabled,
		SetupRequired:        status.SetupRequired,
		BackupCodesRemaining: status.BackupCodesRemaining,
	})
}

// renderMFAError maps domain errors onto HTTP statuses with stable,
// non-leaking messages.
func renderMFAError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadRequest
	message := "Request failed"

	switch {
	case errors.Is(err, tokengenerator.ErrTokenExpired):
		status = http.StatusUnauthorized
		message = "Challenge token has expired"
	case errors.Is(err, tokengenerator.ErrTokenMisuse):
		status = http.StatusUnauthorized
		message = "Invalid challenge token"
	case errors.Is(err, authgate.ErrLockedOut):
		status = http.StatusTooManyRequests
		message = "Too many failed attempts. Try again later"
	case errors.Is(err, emailotp.ErrAttemptsExceeded):
		status = http.StatusTooManyRequests
		message = "Too many attempts for this code. Request a new one"
	case errors.Is(err, emailotp.ErrCodeExpired):
		message = "Code has expired. Request a new one"
	case errors.Is(err, emailotp.ErrInvalidCode), errors.Is(err, mfa.ErrInvalidCode):
		message = "Invalid code"
	case errors.Is(err, mfa.ErrCodeReplayed):
		message = "Code already used"
	case errors.Is(err, emailotp.ErrNoActiveChallenge):
		message = "No active code. Request a new one"
	case errors.Is(err, emailotp.ErrDeliveryFailed):
		status = http.StatusBadGateway
		message = "Failed to send code. Try again"
	case errors.Is(err, mfa.ErrMFANotEnabled):
		status = http.StatusConflict
		message = "Multi-factor authentication is not enabled"
	case errors.Is(err, mfa.ErrMethodNotEnrolled):
		message = "Method not available"
	default:
		slog.Error("MFA operation failed", "error", err)
		status = http.StatusInternalServerError
		message = "An error occurred"
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}

// ipAddressFromRequest prefers proxy headers over RemoteAddr.
func ipAddressFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can carry a chain; the first entry is the client.
		if ips := strings.Split(xff, ","); len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: message})
}

func internalError(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, ErrorResponse{Error: "An error occurred"})
}
