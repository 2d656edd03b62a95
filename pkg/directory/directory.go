package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrUserNotFound is returned when no user matches the lookup. Callers must
// not surface it verbatim to login clients; the gate maps it to the same
// generic error as a wrong password.
var ErrUserNotFound = errors.New("user not found")

// User is the slice of the identity record the MFA core needs.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Roles        []string
	PasswordHash string
	Active       bool
}

// UserDirectory is the collaborator that owns user records.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, userID uuid.UUID) (User, error)
	// VerifyPassword compares the submitted password against the stored hash
	// in constant time.
	VerifyPassword(ctx context.Context, userID uuid.UUID, password string) (bool, error)
}

// HashPassword hashes the plain-text password using bcrypt.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

// CheckPasswordHash compares the plain-text password with the stored hash.
// bcrypt's comparison is constant time.
func CheckPasswordHash(password, hashedPassword string) bool {
	if password == "" || hashedPassword == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
