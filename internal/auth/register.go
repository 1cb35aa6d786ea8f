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

	"github.com/google/uuid"
)

type RegisterParams struct {
	Email                string
	Password             string
	PasswordConfirmation string
	FirstName            string
	LastName             string
	Phone                string
}

// Register creates an inactive user and its first verification token in one
// transaction, then queues the confirmation email. Email delivery is
// best-effort: a publish failure never unwinds the committed registration.
func (a *Auth) Register(ctx context.Context, params RegisterParams) (models.User, error) {
	const op = "auth.Register"

	log := a.log.With(slog.String("op", op))

	if verr := validateNewPassword(params.Password, params.PasswordConfirmation); verr != nil {
		return models.User{}, verr
	}

	passHash, err := password.Hash(params.Password)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		UID:       uuid.NewString(),
		Email:     models.NormalizeEmail(params.Email),
		PassHash:  passHash,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Phone:     params.Phone,
	}

	var vt models.VerificationToken

	// Re-roll the token value until the store-wide uniqueness check passes.
	for {
		value, err := token.New()
		if err != nil {
			log.Error("failed to generate verification token", sl.Err(err))
			return models.User{}, fmt.Errorf("%s: %w", op, err)
		}

		vt = models.VerificationToken{
			Token:     value,
			ExpiresAt: a.now().Add(a.verificationTTL),
		}

		err = a.usrSaver.CreateUserWithVerificationToken(ctx, &user, &vt)
		if errors.Is(err, storage.ErrTokenExists) {
			continue
		}
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exists")
			return models.User{}, ErrUserExists
		}
		if err != nil {
			log.Error("failed to save user", sl.Err(err))
			return models.User{}, fmt.Errorf("%s: %w", op, err)
		}

		break
	}

	a.sendVerificationEmail(ctx, log, user.Email, vt.Token)

	log.Info("user registered", slog.String("uid", user.UID))

	return user, nil
}

// ConfirmEmail consumes a usable verification token and flips its owner to
// verified/active, both in one transaction. Absent, expired, consumed and
// superseded tokens are indistinguishable to the caller.
func (a *Auth) ConfirmEmail(ctx context.Context, rawToken string) (models.User, error) {
	const op = "auth.ConfirmEmail"

	log := a.log.With(slog.String("op", op))

	vt, err := a.tokens.VerificationTokenByValue(ctx, rawToken)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			log.Warn("verification token not found")
			return models.User{}, ErrInvalidToken
		}

		log.Error("failed to look up token", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if !vt.Usable(a.now()) {
		log.Warn("verification token not usable")
		return models.User{}, ErrInvalidToken
	}

	if err := a.tokens.ConsumeVerificationToken(ctx, vt.ID, vt.UserID); err != nil {
		// Lost a race with a concurrent confirm: exactly one caller wins.
		if errors.Is(err, storage.ErrTokenNotUsable) {
			log.Warn("verification token already consumed")
			return models.User{}, ErrInvalidToken
		}

		log.Error("failed to consume token", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := a.usrProvider.UserByID(ctx, vt.UserID)
	if err != nil {
		log.Error("failed to load user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("email verified", slog.String("uid", user.UID))

	return user, nil
}

// ResendVerificationEmail reissues a verification token, invalidating every
// previously-usable one for that user. The outcome is quiet for unknown or
// already-verified accounts.
func (a *Auth) ResendVerificationEmail(ctx context.Context, email string) error {
	const op = "auth.ResendVerificationEmail"

	log := a.log.With(slog.String("op", op))

	user, err := a.usrProvider.UserByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Debug("resend requested for unknown email")
			return nil
		}

		log.Error("failed to look up user", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if user.IsVerified() {
		log.Debug("resend requested for verified account")
		return nil
	}

	vt, err := a.issueVerificationToken(ctx, user.ID)
	if err != nil {
		log.Error("failed to issue verification token", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	a.sendVerificationEmail(ctx, log, user.Email, vt.Token)

	return nil
}

func (a *Auth) issueVerificationToken(ctx context.Context, userID int64) (models.VerificationToken, error) {
	for {
		value, err := token.New()
		if err != nil {
			return models.VerificationToken{}, err
		}

		vt := models.VerificationToken{
			UserID:    userID,
			Token:     value,
			ExpiresAt: a.now().Add(a.verificationTTL),
		}

		err = a.tokens.IssueVerificationToken(ctx, &vt)
		if errors.Is(err, storage.ErrTokenExists) {
			continue
		}
		if err != nil {
			return models.VerificationToken{}, err
		}

		return vt, nil
	}
}

func (a *Auth) sendVerificationEmail(ctx context.Context, log *slog.Logger, email, tokenValue string) {
	msg := models.EmailMessage{
		Email:   email,
		Subject: "Please verify your email address",
		Link:    fmt.Sprintf("%s/verify-email?token=%s", a.frontendURL, tokenValue),
		Purpose: "email_verification",
	}

	if err := a.pub.SendMessage(ctx, msg); err != nil {
		log.Error("failed to queue verification email", sl.Err(err))
	}
}
