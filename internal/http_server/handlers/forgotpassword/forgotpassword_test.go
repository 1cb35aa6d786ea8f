package forgotpassword_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stringart_backend/internal/auth"
	"stringart_backend/internal/http_server/handlers/forgotpassword"
	"stringart_backend/internal/models"
	"stringart_backend/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore satisfies the auth service dependencies; only user lookup and
// reset-token issuance carry state.
type stubStore struct {
	users  map[string]models.User
	issued int
	sent   int
}

func (s *stubStore) CreateUserWithVerificationToken(context.Context, *models.User, *models.VerificationToken) error {
	return nil
}

func (s *stubStore) UpdatePassword(context.Context, int64, []byte) error { return nil }

func (s *stubStore) UserByEmail(_ context.Context, email string) (models.User, error) {
	u, ok := s.users[email]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}
	return u, nil
}

func (s *stubStore) UserByID(context.Context, int64) (models.User, error) {
	return models.User{}, storage.ErrUserNotFound
}

func (s *stubStore) IssueVerificationToken(context.Context, *models.VerificationToken) error {
	return nil
}

func (s *stubStore) VerificationTokenByValue(context.Context, string) (models.VerificationToken, error) {
	return models.VerificationToken{}, storage.ErrTokenNotFound
}

func (s *stubStore) ConsumeVerificationToken(context.Context, int64, int64) error { return nil }

func (s *stubStore) IssueResetToken(context.Context, *models.ResetToken) error {
	s.issued++
	return nil
}

func (s *stubStore) ResetTokenByValue(context.Context, string) (models.ResetToken, error) {
	return models.ResetToken{}, storage.ErrTokenNotFound
}

func (s *stubStore) ResetPassword(context.Context, int64, int64, []byte) error { return nil }

func (s *stubStore) SaveSession(context.Context, *models.Session) error { return nil }

func (s *stubStore) SessionByToken(context.Context, string) (models.Session, error) {
	return models.Session{}, storage.ErrSessionNotFound
}

func (s *stubStore) RefreshSession(context.Context, int64, time.Time, time.Time) error { return nil }

func (s *stubStore) DeleteSession(context.Context, int64) error { return nil }

func (s *stubStore) DeleteUserSessions(context.Context, int64) error { return nil }

func (s *stubStore) DeleteExpiredSessions(context.Context, time.Time) (int64, error) { return 0, nil }

func (s *stubStore) SendMessage(context.Context, models.EmailMessage) error {
	s.sent++
	return nil
}

func newHandler(store *stubStore) http.HandlerFunc {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	authService := auth.New(log, store, store, store, store, store,
		7*24*time.Hour, 24*time.Hour, time.Hour,
		"http://localhost:3000",
	)

	return forgotpassword.New(log, validator.New(), authService)
}

func post(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/forgot-password", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}

func TestResponseShapeIsConstant(t *testing.T) {
	now := time.Now()
	store := &stubStore{users: map[string]models.User{
		"known@x.com": {ID: 1, UID: "uid-1", Email: "known@x.com", EmailVerifiedAt: &now},
	}}
	handler := newHandler(store)

	known := post(t, handler, `{"email": "known@x.com"}`)
	unknown := post(t, handler, `{"email": "unknown@x.com"}`)

	require.Equal(t, http.StatusOK, known.Code)
	require.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())
	assert.Contains(t, known.Body.String(), "If an account with that email exists")

	// Only the real account got a token and an email behind the scenes.
	assert.Equal(t, 1, store.issued)
	assert.Equal(t, 1, store.sent)
}

func TestRejectsMalformedRequests(t *testing.T) {
	handler := newHandler(&stubStore{users: map[string]models.User{}})

	t.Run("invalid json", func(t *testing.T) {
		rr := post(t, handler, `{`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing email", func(t *testing.T) {
		rr := post(t, handler, `{}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("not an email", func(t *testing.T) {
		rr := post(t, handler, `{"email": "not-an-email"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
