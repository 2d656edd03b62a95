package mfa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using PostgreSQL. Backup code
// hashes are stored as a JSONB column; everything else maps to plain
// columns. Update serializes per user with a row lock.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL profile repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const profileColumns = `
	user_id, totp_secret, totp_enabled, totp_verified, last_totp_step,
	email_otp_enabled, email_otp_verified, backup_code_hashes,
	recovery_email, recovery_phone, created_at, updated_at
`

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	var hashes []byte
	err := row.Scan(
		&p.UserID, &p.TOTPSecret, &p.TOTPEnabled, &p.TOTPVerified, &p.LastTOTPStep,
		&p.EmailOTPEnabled, &p.EmailOTPVerified, &hashes,
		&p.RecoveryEmail, &p.RecoveryPhone, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return Profile{}, err
	}
	if len(hashes) > 0 {
		if err := json.Unmarshal(hashes, &p.BackupCodeHashes); err != nil {
			return Profile{}, fmt.Errorf("failed to decode backup code hashes: %w", err)
		}
	}
	return p, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID uuid.UUID) (Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM mfa_profile WHERE user_id = $1`
	profile, err := scanProfile(r.pool.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{UserID: userID}, nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (r *PostgresRepository) Update(ctx context.Context, userID uuid.UUID, fn func(*Profile) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Ensure the row exists so FOR UPDATE has something to lock.
	_, err = tx.Exec(ctx, `
		INSERT INTO mfa_profile (user_id, created_at, updated_at)
		VALUES ($1, $2, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to ensure profile row: %w", err)
	}

	query := `SELECT ` + profileColumns + ` FROM mfa_profile WHERE user_id = $1 FOR UPDATE`
	profile, err := scanProfile(tx.QueryRow(ctx, query, userID))
	if err != nil {
		return fmt.Errorf("failed to lock profile: %w", err)
	}

	if err := fn(&profile); err != nil {
		return err
	}

	hashes, err := json.Marshal(profile.BackupCodeHashes)
	if err != nil {
		return fmt.Errorf("failed to encode backup code hashes: %w", err)
	}
	if profile.BackupCodeHashes == nil {
		hashes = []byte("[]")
	}

	_, err = tx.Exec(ctx, `
		UPDATE mfa_profile SET
			totp_secret = $2,
			totp_enabled = $3,
			totp_verified = $4,
			last_totp_step = $5,
			email_otp_enabled = $6,
			email_otp_verified = $7,
			backup_code_hashes = $8,
			recovery_email = $9,
			recovery_phone = $10,
			updated_at = $11
		WHERE user_id = $1
	`, userID,
		profile.TOTPSecret,
		profile.TOTPEnabled,
		profile.TOTPVerified,
		profile.LastTOTPStep,
		profile.EmailOTPEnabled,
		profile.EmailOTPVerified,
		hashes,
		profile.RecoveryEmail,
		profile.RecoveryPhone,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit profile update: %w", err)
	}
	return nil
}
