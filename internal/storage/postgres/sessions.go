package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stringart_backend/internal/models"
	"stringart_backend/internal/storage"

	"github.com/jackc/pgx/v5"
)

func (r *Repo) SaveSession(ctx context.Context, s *models.Session) error {
	const op = "storage.postgres.SaveSession"

	const query = `
		INSERT INTO user_sessions (user_id, session_token, ip_address, user_agent, expires_at, last_accessed_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)
		RETURNING id, created_at;
	`

	err := r.pool.QueryRow(ctx, query,
		s.UserID, s.Token, s.IPAddress, s.UserAgent, s.ExpiresAt, s.LastAccessedAt,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrTokenExists
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SessionByToken fetches by exact token match; validity is checked by the
// caller's predicate, so absent and expired sessions stay indistinguishable.
func (r *Repo) SessionByToken(ctx context.Context, raw string) (models.Session, error) {
	const op = "storage.postgres.SessionByToken"

	const query = `
		SELECT id, user_id, session_token,
		       COALESCE(ip_address::text, ''), COALESCE(user_agent, ''),
		       expires_at, last_accessed_at, created_at
		FROM user_sessions
		WHERE session_token = $1;
	`

	var s models.Session

	err := r.pool.QueryRow(ctx, query, raw).Scan(
		&s.ID,
		&s.UserID,
		&s.Token,
		&s.IPAddress,
		&s.UserAgent,
		&s.ExpiresAt,
		&s.LastAccessedAt,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, storage.ErrSessionNotFound
		}

		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

// RefreshSession extends expiry and touches last_accessed_at for one session.
func (r *Repo) RefreshSession(ctx context.Context, sessionID int64, expiresAt, lastAccessedAt time.Time) error {
	const op = "storage.postgres.RefreshSession"

	const query = `
		UPDATE user_sessions
		SET expires_at = $1, last_accessed_at = $2
		WHERE id = $3;
	`

	tag, err := r.pool.Exec(ctx, query, expiresAt, lastAccessedAt, sessionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrSessionNotFound
	}

	return nil
}

func (r *Repo) DeleteSession(ctx context.Context, sessionID int64) error {
	const op = "storage.postgres.DeleteSession"

	const query = `DELETE FROM user_sessions WHERE id = $1;`

	if _, err := r.pool.Exec(ctx, query, sessionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *Repo) DeleteUserSessions(ctx context.Context, userID int64) error {
	const op = "storage.postgres.DeleteUserSessions"

	const query = `DELETE FROM user_sessions WHERE user_id = $1;`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteExpiredSessions batch-deletes sessions past expiry. Invoked by the
// background sweeper, never inline with requests.
func (r *Repo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage.postgres.DeleteExpiredSessions"

	const query = `DELETE FROM user_sessions WHERE expires_at <= $1;`

	tag, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected(), nil
}
