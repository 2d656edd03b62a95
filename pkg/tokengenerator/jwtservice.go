package tokengenerator

import (
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token expiry durations
const (
	DefaultChallengeTokenExpiry = 5 * time.Minute
	DefaultAccessTokenExpiry    = 60 * time.Minute
)

// TokenValue pairs a signed token string with its expiry time.
type TokenValue struct {
	Token  string    `json:"token"`
	Expiry time.Time `json:"expiry"`
}

// TokenService mints the two token kinds the login flow deals in: a narrow,
// short-lived challenge token proving password success, and a full session
// access token.
type TokenService interface {
	IssueChallengeToken(userID string) (TokenValue, error)
	IssueAccessToken(userID string, extraClaims map[string]interface{}) (TokenValue, error)
	// Validate checks the token and its purpose and returns the subject.
	Validate(tokenStr, expectedPurpose string) (string, error)
}

// JwtService implements TokenService on HS256 JWTs.
type JwtService struct {
	generator TokenGenerator

	ChallengeTokenExpiry time.Duration
	AccessTokenExpiry    time.Duration
}

// JwtServiceOption is a function that configures a JwtService
type JwtServiceOption func(*JwtService)

// WithChallengeTokenExpiry sets the challenge token expiry duration
func WithChallengeTokenExpiry(expiry time.Duration) JwtServiceOption {
	return func(js *JwtService) {
		js.ChallengeTokenExpiry = expiry
	}
}

// WithAccessTokenExpiry sets the access token expiry duration
func WithAccessTokenExpiry(expiry time.Duration) JwtServiceOption {
	return func(js *JwtService) {
		js.AccessTokenExpiry = expiry
	}
}

// NewJwtService creates a new JwtService
func NewJwtService(generator TokenGenerator, options ...JwtServiceOption) *JwtService {
	js := &JwtService{
		generator:            generator,
		ChallengeTokenExpiry: DefaultChallengeTokenExpiry,
		AccessTokenExpiry:    DefaultAccessTokenExpiry,
	}

	for _, option := range options {
		option(js)
	}

	return js
}

// IssueChallengeToken mints a short-lived token scoped to completing the
// second-factor step for the given user.
func (js *JwtService) IssueChallengeToken(userID string) (TokenValue, error) {
	tokenStr, expiry, err := js.generator.GenerateToken(userID, PurposeMFA, js.ChallengeTokenExpiry, nil)
	if err != nil {
		return TokenValue{}, err
	}
	return TokenValue{Token: tokenStr, Expiry: expiry}, nil
}

// IssueAccessToken mints a session token carrying the given extra claims
// (roles and similar).
func (js *JwtService) IssueAccessToken(userID string, extraClaims map[string]interface{}) (TokenValue, error) {
	tokenStr, expiry, err := js.generator.GenerateToken(userID, PurposeSession, js.AccessTokenExpiry, extraClaims)
	if err != nil {
		return TokenValue{}, err
	}
	return TokenValue{Token: tokenStr, Expiry: expiry}, nil
}

// Validate parses the token, checks its purpose against the operation it was
// presented to, and returns the subject user ID.
func (js *JwtService) Validate(tokenStr, expectedPurpose string) (string, error) {
	token, err := js.generator.ParseToken(tokenStr)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenMisuse
	}

	purpose, _ := claims["purpose"].(string)
	if purpose != expectedPurpose {
		slog.Warn("Token presented with wrong purpose", "purpose", purpose, "expected", expectedPurpose)
		return "", ErrTokenMisuse
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrTokenMisuse
	}
	return subject, nil
}
