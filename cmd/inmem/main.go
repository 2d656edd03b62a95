// Package main runs the recruiter auth service without a database or SMTP
// server, using in-memory repositories and a console outbox. This is useful
// for:
// - Quick development and testing
// - Demo/prototype environments
// - Learning the API without infrastructure setup
//
// Note: All data is lost when the server stops. For production, use
// cmd/recruiter-idm with PostgreSQL and real SMTP delivery.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/template"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/tendant/chi-demo/app"

	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/attempt"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/authgate"
	authgateapi "github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/authgate/api"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/config"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/directory"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/emailotp"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/mfa"
	mfaapi "github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/mfa/api"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/notification"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/tokengenerator"
	"github.com/satyasai-scketch/Recruiter-Portal-Backend-DDD/pkg/totp"
)

const (
	jwtSecret = "inmem-dev-secret-change-in-production"
	audience  = "http://localhost:4000"
)

// consoleNotifier prints rendered notices to stdout instead of sending
// email, standing in for SMTP delivery during local development.
type consoleNotifier struct{}

func (consoleNotifier) Send(noticeType notification.NoticeType, data notification.NotificationData, tmpl notification.NoticeTemplate) error {
	body, err := renderText(tmpl.Text, data.Data)
	if err != nil {
		return err
	}
	fmt.Printf("\n--- outbox: %s -> %s ---\nSubject: %s\n%s\n---\n\n", noticeType, data.To, tmpl.Subject, body)
	return nil
}

func renderText(body string, data map[string]interface{}) (string, error) {
	tmpl, err := template.New("text").Parse(body)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting In-Memory Recruiter Auth Service (no database required)")
	slog.Info(strings.Repeat("=", 60))

	mfaConfig := config.NewMFAConfigFromEnv()
	mfaConfig.Enabled = true

	notificationManager := notification.NewNotificationManager()
	notificationManager.RegisterNotifier(notification.EmailSystem, consoleNotifier{})
	if err := notification.RegisterDefaultNotices(notificationManager); err != nil {
		slog.Error("Failed registering notices", "err", err)
		os.Exit(-1)
	}

	userDirectory := directory.NewInMemoryDirectory()
	profileRepo := mfa.NewInMemoryRepository()
	challengeRepo := emailotp.NewInMemoryRepository()
	attemptRepo := attempt.NewInMemoryRepository()

	totpProvider := totp.NewProvider(mfaConfig.Issuer, totp.WithSkew(uint(mfaConfig.TOTPSkew)))
	emailOTPService := emailotp.NewService(challengeRepo, notificationManager,
		emailotp.WithCodeLength(mfaConfig.CodeLength),
		emailotp.WithCodeExpiry(mfaConfig.CodeExpiry),
		emailotp.WithMaxAttempts(mfaConfig.MaxCodeAttempts),
	)
	mfaService := mfa.NewService(mfaConfig, profileRepo, userDirectory, totpProvider, emailOTPService, notificationManager)
	ledger := attempt.NewLedger(attemptRepo, mfaConfig.MaxLoginAttempts, mfaConfig.LockoutWindow)

	generator := tokengenerator.NewJwtTokenGenerator(jwtSecret, mfaConfig.Issuer, audience)
	tokenService := tokengenerator.NewJwtService(generator)

	gateService := authgate.NewService(userDirectory, mfaService, tokenService, ledger,
		authgate.WithRegistrar(userDirectory),
	)

	// Seed a test account
	if _, err := userDirectory.Register(context.Background(), "admin@example.com", "Admin", "password123", []string{"admin"}); err != nil {
		slog.Error("Failed seeding test user", "err", err)
		os.Exit(-1)
	}

	server := app.NewApp(app.WithPort(4000))
	app.RegisterHealthzRoutes(server.R)

	authgateapi.NewHandler(gateService).RegisterRoutes(server.R)

	tokenAuth := jwtauth.New("HS256", []byte(jwtSecret), nil)
	server.R.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(tokenAuth))
		r.Use(jwtauth.Authenticator(tokenAuth))
		mfaapi.NewHandler(mfaService).RegisterRoutes(r)
	})

	slog.Info(strings.Repeat("=", 60))
	slog.Info("In-Memory Recruiter Auth Service Ready")
	slog.Info("")
	slog.Info("Test credentials:")
	slog.Info("  Email:    admin@example.com")
	slog.Info("  Password: password123")
	slog.Info("")
	slog.Info("API Endpoints:")
	slog.Info("  POST /auth/signup        - Create account")
	slog.Info("  POST /auth/login         - Password step")
	slog.Info("  POST /auth/mfa/send      - Email a login code")
	slog.Info("  POST /auth/mfa/setup     - Start method enrollment mid-login")
	slog.Info("  POST /auth/mfa/complete  - Submit a code, get an access token")
	slog.Info("  GET  /mfa/status         - Enrollment summary (auth required)")
	slog.Info("  POST /mfa/totp/setup     - Enroll an authenticator (auth required)")
	slog.Info("  POST /mfa/backup-codes   - Regenerate backup codes (auth required)")
	slog.Info(strings.Repeat("=", 60))

	server.Run()
}
