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

// RequestPasswordReset issues a reset token and queues the reset email for an
// active account. The outcome is deliberately identical whether the email
// matched a real account, an unverified one, or nothing at all.
func (a *Auth) RequestPasswordReset(ctx context.Context, email string) error {
	const op = "auth.RequestPasswordReset"

	log := a.log.With(slog.String("op", op))

	user, err := a.usrProvider.UserByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Debug("reset requested for unknown email")
			return nil
		}

		log.Error("failed to look up user", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if user.Status() != models.StatusActive {
		log.Debug("reset requested for inactive account")
		return nil
	}

	rt, err := a.issueResetToken(ctx, user.ID)
	if err != nil {
		log.Error("failed to issue reset token", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	msg := models.EmailMessage{
		Email:   user.Email,
		Subject: "Reset your password",
		Link:    fmt.Sprintf("%s/reset-password?token=%s", a.frontendURL, rt.Token),
		Purpose: "password_reset",
	}

	if err := a.pub.SendMessage(ctx, msg); err != nil {
		log.Error("failed to queue reset email", sl.Err(err))
	}

	log.Info("reset token issued", slog.String("uid", user.UID))

	return nil
}

// ResetPassword stores the new credential, consumes the reset token and
// revokes every session of the user, atomically. A partial failure rolls all
// three effects back.
func (a *Auth) ResetPassword(ctx context.Context, rawToken, newPassword, confirmation string) (models.User, error) {
	const op = "auth.ResetPassword"

	log := a.log.With(slog.String("op", op))

	if verr := validateNewPassword(newPassword, confirmation); verr != nil {
		return models.User{}, verr
	}

	rt, err := a.tokens.ResetTokenByValue(ctx, rawToken)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			log.Warn("reset token not found")
			return models.User{}, ErrInvalidToken
		}

		log.Error("failed to look up token", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if !rt.Usable(a.now()) {
		log.Warn("reset token not usable")
		return models.User{}, ErrInvalidToken
	}

	passHash, err := password.Hash(newPassword)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.tokens.ResetPassword(ctx, rt.ID, rt.UserID, passHash); err != nil {
		if errors.Is(err, storage.ErrTokenNotUsable) {
			log.Warn("reset token already consumed")
			return models.User{}, ErrInvalidToken
		}

		log.Error("failed to reset password", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := a.usrProvider.UserByID(ctx, rt.UserID)
	if err != nil {
		log.Error("failed to load user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("password reset completed", slog.String("uid", user.UID))

	return user, nil
}

// ChangePassword rotates the credential of an authenticated user. The new
// password must differ from the current one; that check is independent of the
// strength rules.
func (a *Auth) ChangePassword(ctx context.Context, user *models.User, currentPassword, newPassword, confirmation string) error {
	const op = "auth.ChangePassword"

	log := a.log.With(slog.String("op", op))

	if newPassword != confirmation {
		return &ValidationError{Violations: []string{"new password and confirmation do not match"}}
	}

	if !password.Verify(currentPassword, user.PassHash) {
		log.Info("current password incorrect")
		return ErrInvalidCredentials
	}

	if currentPassword == newPassword {
		return ErrPasswordUnchanged
	}

	if violations := password.CheckStrength(newPassword); len(violations) > 0 {
		return strengthError(violations)
	}

	passHash, err := password.Hash(newPassword)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.usrSaver.UpdatePassword(ctx, user.ID, passHash); err != nil {
		log.Error("failed to update password", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("password changed", slog.String("uid", user.UID))

	return nil
}

func (a *Auth) issueResetToken(ctx context.Context, userID int64) (models.ResetToken, error) {
	for {
		value, err := token.New()
		if err != nil {
			return models.ResetToken{}, err
		}

		rt := models.ResetToken{
			UserID:    userID,
			Token:     value,
			ExpiresAt: a.now().Add(a.resetTTL),
		}

		err = a.tokens.IssueResetToken(ctx, &rt)
		if errors.Is(err, storage.ErrTokenExists) {
			continue
		}
		if err != nil {
			return models.ResetToken{}, err
		}

		return rt, nil
	}
}

func validateNewPassword(pass, confirmation string) *ValidationError {
	if pass != confirmation {
		return &ValidationError{Violations: []string{"password and confirmation do not match"}}
	}

	if violations := password.CheckStrength(pass); len(violations) > 0 {
		return strengthError(violations)
	}

	return nil
}

func strengthError(violations []password.Violation) *ValidationError {
	msgs := make([]string, 0, len(violations))
	for _, v := range violations {
		msgs = append(msgs, string(v))
	}

	return &ValidationError{Violations: msgs}
}
