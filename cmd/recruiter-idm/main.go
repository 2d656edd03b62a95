package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jinzhu/copier"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"

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

type IdmDbConfig struct {
	Host     string `env:"IDM_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"IDM_PG_PORT" env-default:"5432"`
	Database string `env:"IDM_PG_DATABASE" env-default:"recruiter_idm"`
	User     string `env:"IDM_PG_USER" env-default:"idm"`
	Password string `env:"IDM_PG_PASSWORD" env-default:"pwd"`
}

func (d IdmDbConfig) toDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}

type JwtConfig struct {
	JwtSecret       string        `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	Audience        string        `env:"JWT_AUDIENCE" env-default:"recruiter-portal-api"`
	ChallengeExpiry time.Duration `env:"JWT_CHALLENGE_EXPIRY" env-default:"5m"`
	AccessExpiry    time.Duration `env:"JWT_ACCESS_EXPIRY" env-default:"1h"`
}

type EmailConfig struct {
	Host     string `env:"EMAIL_HOST" env-default:"localhost"`
	Port     int    `env:"EMAIL_PORT" env-default:"1025"`
	TLS      bool   `env:"EMAIL_TLS" env-default:"false"`
	Username string `env:"EMAIL_USERNAME"`
	Password string `env:"EMAIL_PASSWORD"`
	From     string `env:"EMAIL_FROM" env-default:"noreply@example.com"`
}

type Config struct {
	IdmDbConfig IdmDbConfig
	AppConfig   app.AppConfig
	JwtConfig   JwtConfig
	EmailConfig EmailConfig
}

func main() {
	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	mfaConfig := config.NewMFAConfigFromEnv()

	server := app.DefaultApp()
	app.RegisterHealthzRoutes(server.R)

	dbConfig := cfg.IdmDbConfig.toDbConfig()
	pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		os.Exit(-1)
	}

	// Notifications
	var smtpConfig notification.SMTPConfig
	copier.Copy(&smtpConfig, &cfg.EmailConfig)
	emailNotifier, err := notification.NewEmailNotifier(smtpConfig)
	if err != nil {
		slog.Error("Failed creating email notifier", "err", err)
		os.Exit(-1)
	}
	notificationManager := notification.NewNotificationManager()
	notificationManager.RegisterNotifier(notification.EmailSystem, emailNotifier)
	if err := notification.RegisterDefaultNotices(notificationManager); err != nil {
		slog.Error("Failed registering notices", "err", err)
		os.Exit(-1)
	}

	// Repositories
	userDirectory := directory.NewPostgresDirectory(pool)
	profileRepo := mfa.NewPostgresRepository(pool)
	challengeRepo := emailotp.NewPostgresRepository(pool)
	attemptRepo := attempt.NewPostgresRepository(pool)

	// Services
	totpProvider := totp.NewProvider(mfaConfig.Issuer, totp.WithSkew(uint(mfaConfig.TOTPSkew)))
	emailOTPService := emailotp.NewService(challengeRepo, notificationManager,
		emailotp.WithCodeLength(mfaConfig.CodeLength),
		emailotp.WithCodeExpiry(mfaConfig.CodeExpiry),
		emailotp.WithMaxAttempts(mfaConfig.MaxCodeAttempts),
	)
	mfaService := mfa.NewService(mfaConfig, profileRepo, userDirectory, totpProvider, emailOTPService, notificationManager)

	ledger := attempt.NewLedger(attemptRepo, mfaConfig.MaxLoginAttempts, mfaConfig.LockoutWindow)

	generator := tokengenerator.NewJwtTokenGenerator(cfg.JwtConfig.JwtSecret, mfaConfig.Issuer, cfg.JwtConfig.Audience)
	tokenService := tokengenerator.NewJwtService(generator,
		tokengenerator.WithChallengeTokenExpiry(cfg.JwtConfig.ChallengeExpiry),
		tokengenerator.WithAccessTokenExpiry(cfg.JwtConfig.AccessExpiry),
	)

	gateService := authgate.NewService(userDirectory, mfaService, tokenService, ledger,
		authgate.WithRegistrar(userDirectory),
	)

	// Public login endpoints
	authgateapi.NewHandler(gateService).RegisterRoutes(server.R)

	// Session-protected MFA management endpoints
	tokenAuth := jwtauth.New("HS256", []byte(cfg.JwtConfig.JwtSecret), nil)
	server.R.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(tokenAuth))
		r.Use(jwtauth.Authenticator(tokenAuth))
		mfaapi.NewHandler(mfaService).RegisterRoutes(r)
	})

	server.Run()
}
