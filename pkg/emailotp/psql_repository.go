package emailotp

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using PostgreSQL. One row per
// user; Replace upserts and Update runs inside a transaction with a row
// lock so concurrent verifications serialize per user.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL challenge repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Replace(ctx context.Context, challenge Challenge) error {
	query := `
		INSERT INTO email_otp_challenge (id, user_id, code_hash, attempts, used, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			id = EXCLUDED.id,
			code_hash = EXCLUDED.code_hash,
			attempts = EXCLUDED.attempts,
			used = EXCLUDED.used,
			expires_at = EXCLUDED.expires_at,
			created_at = EXCLUDED.created_at
	`
	_, err := r.pool.Exec(ctx, query,
		challenge.ID,
		challenge.UserID,
		challenge.CodeHash,
		challenge.Attempts,
		challenge.Used,
		challenge.ExpiresAt,
		challenge.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store challenge: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID uuid.UUID) (Challenge, error) {
	query := `
		SELECT id, user_id, code_hash, attempts, used, expires_at, created_at
		FROM email_otp_challenge
		WHERE user_id = $1
	`
	var c Challenge
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&c.ID, &c.UserID, &c.CodeHash, &c.Attempts, &c.Used, &c.ExpiresAt, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Challenge{}, ErrNoActiveChallenge
	}
	if err != nil {
		return Challenge{}, fmt.Errorf("failed to get challenge: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, userID uuid.UUID, fn func(*Challenge) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		SELECT id, user_id, code_hash, attempts, used, expires_at, created_at
		FROM email_otp_challenge
		WHERE user_id = $1
		FOR UPDATE
	`
	var c Challenge
	err = tx.QueryRow(ctx, query, userID).Scan(
		&c.ID, &c.UserID, &c.CodeHash, &c.Attempts, &c.Used, &c.ExpiresAt, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoActiveChallenge
	}
	if err != nil {
		return fmt.Errorf("failed to lock challenge: %w", err)
	}

	fnErr := fn(&c)

	// Persist even on fn error so attempt counts stick.
	_, err = tx.Exec(ctx, `
		UPDATE email_otp_challenge
		SET attempts = $2, used = $3
		WHERE user_id = $1
	`, userID, c.Attempts, c.Used)
	if err != nil {
		return fmt.Errorf("failed to update challenge: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit challenge update: %w", err)
	}
	return fnErr
}

func (r *PostgresRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM email_otp_challenge WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	return nil
}
