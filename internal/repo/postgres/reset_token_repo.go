package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ResetTokenRepository interface {
	// Issue replaces any outstanding tokens for the user with a single
	// new one. Delete-then-insert runs inside one transaction.
	Issue(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	// FindActive returns the user id behind an unused, unexpired token
	// hash, or "" when the token is unknown, spent or expired.
	FindActive(ctx context.Context, tokenHash string) (string, error)
	// Consume atomically marks the token used, sets the new password
	// hash and purges every other token for that user. Returns the user
	// id, or "" when the token was not consumable.
	Consume(ctx context.Context, tokenHash, newPasswordHash string) (string, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type resetTokenRepository struct {
	pool *pgxpool.Pool
}

func NewResetTokenRepository(pool *pgxpool.Pool) ResetTokenRepository {
	return &resetTokenRepository{pool: pool}
}

func (r *resetTokenRepository) Issue(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM password_reset_tokens WHERE user_id = $1`, userID); err != nil {
		return err
	}

	const ins = `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at, used)
		VALUES ($1, $2, $3, $4, false)`
	if _, err := tx.Exec(ctx, ins, uuid.NewString(), userID, tokenHash, expiresAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *resetTokenRepository) FindActive(ctx context.Context, tokenHash string) (string, error) {
	const q = `
		SELECT user_id FROM password_reset_tokens
		WHERE token_hash = $1 AND used = false AND expires_at > now()`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var userID string
	err := r.pool.QueryRow(ctx, q, tokenHash).Scan(&userID)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	return userID, err
}

func (r *resetTokenRepository) Consume(ctx context.Context, tokenHash, newPasswordHash string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	// Re-check validity at consumption time; a prior verify call is not
	// trusted.
	const consume = `
		UPDATE password_reset_tokens
		SET used = true
		WHERE token_hash = $1 AND used = false AND expires_at > now()
		RETURNING user_id`

	var userID string
	err = tx.QueryRow(ctx, consume, tokenHash).Scan(&userID)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	const setPassword = `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	if _, err := tx.Exec(ctx, setPassword, userID, newPasswordHash); err != nil {
		return "", err
	}

	const purge = `DELETE FROM password_reset_tokens WHERE user_id = $1 AND token_hash <> $2`
	if _, err := tx.Exec(ctx, purge, userID, tokenHash); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return userID, nil
}

func (r *resetTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const q = `DELETE FROM password_reset_tokens WHERE expires_at < now() - interval '7 days'`

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
