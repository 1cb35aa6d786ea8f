package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"stringart_backend/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPasswordUnchanged  = errors.New("new password must be different from current password")
)

// ValidationError carries every violated input rule so callers can surface
// the full list at once.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, ", ")
}

type UserSaver interface {
	CreateUserWithVerificationToken(ctx context.Context, u *models.User, vt *models.VerificationToken) error
	UpdatePassword(ctx context.Context, userID int64, passHash []byte) error
}

type UserProvider interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
}

type TokenStore interface {
	IssueVerificationToken(ctx context.Context, vt *models.VerificationToken) error
	VerificationTokenByValue(ctx context.Context, raw string) (models.VerificationToken, error)
	ConsumeVerificationToken(ctx context.Context, tokenID, userID int64) error

	IssueResetToken(ctx context.Context, rt *models.ResetToken) error
	ResetTokenByValue(ctx context.Context, raw string) (models.ResetToken, error)
	ResetPassword(ctx context.Context, tokenID, userID int64, passHash []byte) error
}

type SessionStore interface {
	SaveSession(ctx context.Context, s *models.Session) error
	SessionByToken(ctx context.Context, raw string) (models.Session, error)
	RefreshSession(ctx context.Context, sessionID int64, expiresAt, lastAccessedAt time.Time) error
	DeleteSession(ctx context.Context, sessionID int64) error
	DeleteUserSessions(ctx context.Context, userID int64) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type Publisher interface {
	SendMessage(ctx context.Context, msg models.EmailMessage) error
}

// Auth owns the credential and session lifecycle: registration, email
// confirmation, sign in/out, session resolution and password recovery.
type Auth struct {
	log         *slog.Logger
	usrSaver    UserSaver
	usrProvider UserProvider
	tokens      TokenStore
	sessions    SessionStore
	pub         Publisher

	sessionTTL      time.Duration
	verificationTTL time.Duration
	resetTTL        time.Duration
	frontendURL     string

	now func() time.Time
}

func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	tokens TokenStore,
	sessions SessionStore,
	pub Publisher,
	sessionTTL, verificationTTL, resetTTL time.Duration,
	frontendURL string,
) *Auth {
	return &Auth{
		log:             log,
		usrSaver:        userSaver,
		usrProvider:     userProvider,
		tokens:          tokens,
		sessions:        sessions,
		pub:             pub,
		sessionTTL:      sessionTTL,
		verificationTTL: verificationTTL,
		resetTTL:        resetTTL,
		frontendURL:     frontendURL,
		now:             time.Now,
	}
}
