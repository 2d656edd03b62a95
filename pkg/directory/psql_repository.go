package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both a pgx pool and a transaction.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresDirectory implements UserDirectory against the app_user table.
type PostgresDirectory struct {
	db DBTX
}

// NewPostgresDirectory creates a new PostgreSQL user directory.
func NewPostgresDirectory(db DBTX) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

const userColumns = `id, email, name, roles, password_hash, active`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Roles, &u.PasswordHash, &u.Active)
	return u, err
}

// Register creates a new account with a bcrypt password hash.
func (d *PostgresDirectory) Register(ctx context.Context, email, name, password string, roles []string) (User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.New(),
		Email:        strings.ToLower(email),
		Name:         name,
		Roles:        roles,
		PasswordHash: hash,
		Active:       true,
	}

	query := `
		INSERT INTO app_user (id, email, name, roles, password_hash, active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = d.db.Exec(ctx, query,
		user.ID, user.Email, user.Name, user.Roles, user.PasswordHash, user.Active,
	)
	if err != nil {
		return User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (d *PostgresDirectory) FindByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM app_user WHERE email = $1`
	user, err := scanUser(d.db.QueryRow(ctx, query, strings.ToLower(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

func (d *PostgresDirectory) FindByID(ctx context.Context, userID uuid.UUID) (User, error) {
	query := `SELECT ` + userColumns + ` FROM app_user WHERE id = $1`
	user, err := scanUser(d.db.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to find user by id: %w", err)
	}
	return user, nil
}

func (d *PostgresDirectory) VerifyPassword(ctx context.Context, userID uuid.UUID, password string) (bool, error) {
	user, err := d.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return CheckPasswordHash(password, user.PasswordHash), nil
}
