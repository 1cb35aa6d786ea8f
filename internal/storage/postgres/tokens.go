package postgres

import (
	"context"
	"errors"
	"fmt"

	"stringart_backend/internal/models"
	"stringart_backend/internal/storage"

	"github.com/jackc/pgx/v5"
)

// IssueVerificationToken invalidates every still-usable verification token of
// the owner, then inserts the new one, all in one transaction. Superseded
// rows keep their invalidated_at marker; nothing is deleted.
func (r *Repo) IssueVerificationToken(ctx context.Context, vt *models.VerificationToken) error {
	const op = "storage.postgres.IssueVerificationToken"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	const invalidateQuery = `
		UPDATE email_verification_tokens
		SET invalidated_at = NOW()
		WHERE user_id = $1
		  AND verified_at IS NULL
		  AND invalidated_at IS NULL
		  AND expires_at > NOW();
	`

	if _, err := tx.Exec(ctx, invalidateQuery, vt.UserID); err != nil {
		return fmt.Errorf("%s: failed to invalidate previous tokens: %w", op, err)
	}

	const insertQuery = `
		INSERT INTO email_verification_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at;
	`

	err = tx.QueryRow(ctx, insertQuery, vt.UserID, vt.Token, vt.ExpiresAt).
		Scan(&vt.ID, &vt.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrTokenExists
		}

		return fmt.Errorf("%s: failed to save token: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// VerificationTokenByValue fetches by exact token match. Usability is the
// caller's predicate, applied at read time.
func (r *Repo) VerificationTokenByValue(ctx context.Context, raw string) (models.VerificationToken, error) {
	const op = "storage.postgres.VerificationTokenByValue"

	const query = `
		SELECT id, user_id, token, expires_at, verified_at, invalidated_at, created_at
		FROM email_verification_tokens
		WHERE token = $1;
	`

	var vt models.VerificationToken

	err := r.pool.QueryRow(ctx, query, raw).Scan(
		&vt.ID,
		&vt.UserID,
		&vt.Token,
		&vt.ExpiresAt,
		&vt.VerifiedAt,
		&vt.InvalidatedAt,
		&vt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.VerificationToken{}, storage.ErrTokenNotFound
		}

		return models.VerificationToken{}, fmt.Errorf("%s: %w", op, err)
	}

	return vt, nil
}

// ConsumeVerificationToken marks the token consumed and the user verified in
// one transaction. The token update is conditional on the terminal markers
// and expiry, so two concurrent confirms yield exactly one success.
func (r *Repo) ConsumeVerificationToken(ctx context.Context, tokenID, userID int64) error {
	const op = "storage.postgres.ConsumeVerificationToken"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	const consumeQuery = `
		UPDATE email_verification_tokens
		SET verified_at = NOW()
		WHERE id = $1
		  AND verified_at IS NULL
		  AND invalidated_at IS NULL
		  AND expires_at > NOW();
	`

	tag, err := tx.Exec(ctx, consumeQuery, tokenID)
	if err != nil {
		return fmt.Errorf("%s: failed to consume token: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrTokenNotUsable
	}

	const verifyQuery = `
		UPDATE users
		SET email_verified_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND email_verified_at IS NULL;
	`

	if _, err := tx.Exec(ctx, verifyQuery, userID); err != nil {
		return fmt.Errorf("%s: failed to mark user verified: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *Repo) IssueResetToken(ctx context.Context, rt *models.ResetToken) error {
	const op = "storage.postgres.IssueResetToken"

	const query = `
		INSERT INTO password_reset_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at;
	`

	err := r.pool.QueryRow(ctx, query, rt.UserID, rt.Token, rt.ExpiresAt).
		Scan(&rt.ID, &rt.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrTokenExists
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *Repo) ResetTokenByValue(ctx context.Context, raw string) (models.ResetToken, error) {
	const op = "storage.postgres.ResetTokenByValue"

	const query = `
		SELECT id, user_id, token, expires_at, used_at, created_at
		FROM password_reset_tokens
		WHERE token = $1;
	`

	var rt models.ResetToken

	err := r.pool.QueryRow(ctx, query, raw).Scan(
		&rt.ID,
		&rt.UserID,
		&rt.Token,
		&rt.ExpiresAt,
		&rt.UsedAt,
		&rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ResetToken{}, storage.ErrTokenNotFound
		}

		return models.ResetToken{}, fmt.Errorf("%s: %w", op, err)
	}

	return rt, nil
}

// ResetPassword stores the new digest, consumes the reset token and revokes
// every session of the user in one transaction. Any failure rolls back all
// three effects.
func (r *Repo) ResetPassword(ctx context.Context, tokenID, userID int64, passHash []byte) error {
	const op = "storage.postgres.ResetPassword"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	const consumeQuery = `
		UPDATE password_reset_tokens
		SET used_at = NOW()
		WHERE id = $1
		  AND used_at IS NULL
		  AND expires_at > NOW();
	`

	tag, err := tx.Exec(ctx, consumeQuery, tokenID)
	if err != nil {
		return fmt.Errorf("%s: failed to consume token: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrTokenNotUsable
	}

	const passwordQuery = `
		UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2;
	`

	if _, err := tx.Exec(ctx, passwordQuery, string(passHash), userID); err != nil {
		return fmt.Errorf("%s: failed to update password: %w", op, err)
	}

	const revokeQuery = `DELETE FROM user_sessions WHERE user_id = $1;`

	if _, err := tx.Exec(ctx, revokeQuery, userID); err != nil {
		return fmt.Errorf("%s: failed to revoke sessions: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
