package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sl "stringart_backend/internal/lib/logger"
	"stringart_backend/internal/lib/password"
	"stringart_backend/internal/lib/token"
	"stringart_backend/internal/models"
	"stringart_backend/internal/storage"
)

// ClientMeta is the optional client context recorded on a session.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// Login checks the credentials against the stored digest and, for an active
// account, opens a fresh session. Prior sessions are untouched: multiple
// concurrent sessions per user are allowed. The canonical sign-in identifier
// is the email address.
func (a *Auth) Login(ctx context.Context, email, pass string, meta ClientMeta) (models.User, models.Session, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))

	user, err := a.usrProvider.UserByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")
			return models.User{}, models.Session{}, ErrInvalidCredentials
		}

		log.Error("failed to get user", sl.Err(err))
		return models.User{}, models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if !password.Verify(pass, user.PassHash) {
		log.Info("invalid credentials")
		return models.User{}, models.Session{}, ErrInvalidCredentials
	}

	if user.Status() != models.StatusActive {
		log.Warn("login attempt on inactive account")
		return models.User{}, models.Session{}, ErrAccountInactive
	}

	session, err := a.createSession(ctx, user.ID, meta)
	if err != nil {
		log.Error("failed to create session", sl.Err(err))
		return models.User{}, models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in", slog.String("uid", user.UID))

	return user, session, nil
}

// Resolve maps a bearer value to its user. An absent session and an expired
// one are indistinguishable to the caller.
func (a *Auth) Resolve(ctx context.Context, bearer string) (models.User, error) {
	const op = "auth.Resolve"

	log := a.log.With(slog.String("op", op))

	session, err := a.sessionByBearer(ctx, bearer)
	if err != nil {
		return models.User{}, err
	}

	user, err := a.usrProvider.UserByID(ctx, session.UserID)
	if err != nil {
		log.Error("failed to load session user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// RefreshSession extends a still-valid session and touches its last-accessed
// time. Expired sessions cannot be revived.
func (a *Auth) RefreshSession(ctx context.Context, bearer string) (models.Session, error) {
	const op = "auth.RefreshSession"

	log := a.log.With(slog.String("op", op))

	session, err := a.sessionByBearer(ctx, bearer)
	if err != nil {
		return models.Session{}, err
	}

	now := a.now()
	session.ExpiresAt = now.Add(a.sessionTTL)
	session.LastAccessedAt = now

	if err := a.sessions.RefreshSession(ctx, session.ID, session.ExpiresAt, session.LastAccessedAt); err != nil {
		log.Error("failed to refresh session", sl.Err(err))
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("session refreshed", slog.Int64("uid", session.UserID))

	return session, nil
}

// Logout destroys a single session.
func (a *Auth) Logout(ctx context.Context, bearer string) error {
	const op = "auth.Logout"

	log := a.log.With(slog.String("op", op))

	session, err := a.sessionByBearer(ctx, bearer)
	if err != nil {
		return err
	}

	if err := a.sessions.DeleteSession(ctx, session.ID); err != nil {
		log.Error("failed to delete session", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged out", slog.Int64("uid", session.UserID))

	return nil
}

// RevokeAllSessions destroys every session of the user.
func (a *Auth) RevokeAllSessions(ctx context.Context, userID int64) error {
	const op = "auth.RevokeAllSessions"

	if err := a.sessions.DeleteUserSessions(ctx, userID); err != nil {
		a.log.Error("failed to revoke sessions", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SweepExpiredSessions batch-deletes sessions past expiry. Runs on a
// schedule, never inline with request traffic.
func (a *Auth) SweepExpiredSessions(ctx context.Context) (int64, error) {
	const op = "auth.SweepExpiredSessions"

	log := a.log.With(slog.String("op", op))

	deleted, err := a.sessions.DeleteExpiredSessions(ctx, a.now())
	if err != nil {
		log.Error("failed to sweep sessions", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if deleted > 0 {
		log.Info("expired sessions swept", slog.Int64("count", deleted))
	}

	return deleted, nil
}

func (a *Auth) createSession(ctx context.Context, userID int64, meta ClientMeta) (models.Session, error) {
	now := a.now()

	for {
		value, err := token.New()
		if err != nil {
			return models.Session{}, err
		}

		session := models.Session{
			UserID:         userID,
			Token:          value,
			IPAddress:      meta.IPAddress,
			UserAgent:      meta.UserAgent,
			ExpiresAt:      now.Add(a.sessionTTL),
			LastAccessedAt: now,
		}

		err = a.sessions.SaveSession(ctx, &session)
		if errors.Is(err, storage.ErrTokenExists) {
			continue
		}
		if err != nil {
			return models.Session{}, err
		}

		return session, nil
	}
}

// sessionByBearer fetches by exact token match and applies the validity
// predicate at read time; absent and expired collapse into ErrUnauthorized.
func (a *Auth) sessionByBearer(ctx context.Context, bearer string) (models.Session, error) {
	const op = "auth.sessionByBearer"

	session, err := a.sessions.SessionByToken(ctx, bearer)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return models.Session{}, ErrUnauthorized
		}

		a.log.Error("failed to look up session", slog.String("op", op), sl.Err(err))
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if !session.Valid(a.now()) {
		return models.Session{}, ErrUnauthorized
	}

	return session, nil
}
