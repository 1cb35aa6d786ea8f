package auth

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"stringart_backend/internal/models"
	"stringart_backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeStore is an in-memory stand-in for the postgres repo. Conditional
// consumption is guarded by the same terminal-marker checks the SQL applies,
// under one mutex, so concurrent consume attempts race the way rows do.
type fakeStore struct {
	mu     sync.Mutex
	now    func() time.Time
	nextID int64

	users    map[int64]*models.User
	vtokens  []*models.VerificationToken
	rtokens  []*models.ResetToken
	sessions map[int64]*models.Session
}

func newFakeStore(now func() time.Time) *fakeStore {
	return &fakeStore{
		now:      now,
		users:    make(map[int64]*models.User),
		sessions: make(map[int64]*models.Session),
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) CreateUserWithVerificationToken(_ context.Context, u *models.User, vt *models.VerificationToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return storage.ErrUserExists
		}
	}
	for _, existing := range s.vtokens {
		if existing.Token == vt.Token {
			return storage.ErrTokenExists
		}
	}

	u.ID = s.id()
	u.CreatedAt = s.now()
	u.UpdatedAt = u.CreatedAt
	copied := *u
	s.users[u.ID] = &copied

	vt.ID = s.id()
	vt.UserID = u.ID
	vt.CreatedAt = s.now()
	tokenCopy := *vt
	s.vtokens = append(s.vtokens, &tokenCopy)

	return nil
}

func (s *fakeStore) UpdatePassword(_ context.Context, userID int64, passHash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}
	u.PassHash = passHash

	return nil
}

func (s *fakeStore) UserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return *u, nil
		}
	}

	return models.User{}, storage.ErrUserNotFound
}

func (s *fakeStore) UserByID(_ context.Context, id int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}

	return *u, nil
}

func (s *fakeStore) IssueVerificationToken(_ context.Context, vt *models.VerificationToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.vtokens {
		if existing.Token == vt.Token {
			return storage.ErrTokenExists
		}
	}

	now := s.now()
	for _, existing := range s.vtokens {
		if existing.UserID == vt.UserID && existing.Usable(now) {
			mark := now
			existing.InvalidatedAt = &mark
		}
	}

	vt.ID = s.id()
	vt.CreatedAt = now
	copied := *vt
	s.vtokens = append(s.vtokens, &copied)

	return nil
}

func (s *fakeStore) VerificationTokenByValue(_ context.Context, raw string) (models.VerificationToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, vt := range s.vtokens {
		if vt.Token == raw {
			return *vt, nil
		}
	}

	return models.VerificationToken{}, storage.ErrTokenNotFound
}

func (s *fakeStore) ConsumeVerificationToken(_ context.Context, tokenID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	for _, vt := range s.vtokens {
		if vt.ID != tokenID {
			continue
		}
		if !vt.Usable(now) {
			return storage.ErrTokenNotUsable
		}

		mark := now
		vt.VerifiedAt = &mark

		if u, ok := s.users[userID]; ok && u.EmailVerifiedAt == nil {
			verified := now
			u.EmailVerifiedAt = &verified
		}

		return nil
	}

	return storage.ErrTokenNotUsable
}

func (s *fakeStore) IssueResetToken(_ context.Context, rt *models.ResetToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.rtokens {
		if existing.Token == rt.Token {
			return storage.ErrTokenExists
		}
	}

	rt.ID = s.id()
	rt.CreatedAt = s.now()
	copied := *rt
	s.rtokens = append(s.rtokens, &copied)

	return nil
}

func (s *fakeStore) ResetTokenByValue(_ context.Context, raw string) (models.ResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rt := range s.rtokens {
		if rt.Token == raw {
			return *rt, nil
		}
	}

	return models.ResetToken{}, storage.ErrTokenNotFound
}

func (s *fakeStore) ResetPassword(_ context.Context, tokenID, userID int64, passHash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	for _, rt := range s.rtokens {
		if rt.ID != tokenID {
			continue
		}
		if !rt.Usable(now) {
			return storage.ErrTokenNotUsable
		}

		mark := now
		rt.UsedAt = &mark

		if u, ok := s.users[userID]; ok {
			u.PassHash = passHash
		}

		for id, sess := range s.sessions {
			if sess.UserID == userID {
				delete(s.sessions, id)
			}
		}

		return nil
	}

	return storage.ErrTokenNotUsable
}

func (s *fakeStore) SaveSession(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.sessions {
		if existing.Token == sess.Token {
			return storage.ErrTokenExists
		}
	}

	sess.ID = s.id()
	sess.CreatedAt = s.now()
	copied := *sess
	s.sessions[sess.ID] = &copied

	return nil
}

func (s *fakeStore) SessionByToken(_ context.Context, raw string) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.sessions {
		if sess.Token == raw {
			return *sess, nil
		}
	}

	return models.Session{}, storage.ErrSessionNotFound
}

func (s *fakeStore) RefreshSession(_ context.Context, sessionID int64, expiresAt, lastAccessedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return storage.ErrSessionNotFound
	}

	sess.ExpiresAt = expiresAt
	sess.LastAccessedAt = lastAccessedAt

	return nil
}

func (s *fakeStore) DeleteSession(_ context.Context, sessionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)

	return nil
}

func (s *fakeStore) DeleteUserSessions(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, id)
		}
	}

	return nil
}

func (s *fakeStore) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, sess := range s.sessions {
		if !sess.Valid(now) {
			delete(s.sessions, id)
			deleted++
		}
	}

	return deleted, nil
}

func (s *fakeStore) verificationTokensFor(userID int64) []models.VerificationToken {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.VerificationToken
	for _, vt := range s.vtokens {
		if vt.UserID == userID {
			out = append(out, *vt)
		}
	}

	return out
}

func (s *fakeStore) sessionCount(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			n++
		}
	}

	return n
}

func (s *fakeStore) resetTokenCount(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for _, rt := range s.rtokens {
		if rt.UserID == userID {
			n++
		}
	}

	return n
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []models.EmailMessage
}

func (p *fakePublisher) SendMessage(_ context.Context, msg models.EmailMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)

	return nil
}

func (p *fakePublisher) messages() []models.EmailMessage {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]models.EmailMessage(nil), p.msgs...)
}

func newTestAuth(t *testing.T) (*Auth, *fakeStore, *fakePublisher, *testClock) {
	t.Helper()

	clock := &testClock{t: time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC)}
	store := newFakeStore(clock.Now)
	pub := &fakePublisher{}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	a := New(log, store, store, store, store, pub,
		7*24*time.Hour, 24*time.Hour, time.Hour,
		"http://localhost:3000",
	)
	a.now = clock.Now

	return a, store, pub, clock
}

func register(t *testing.T, a *Auth, email string) models.User {
	t.Helper()

	u, err := a.Register(context.Background(), RegisterParams{
		Email:                email,
		Password:             "Abcdefg1",
		PasswordConfirmation: "Abcdefg1",
		FirstName:            "Jane",
		LastName:             "Doe",
	})
	require.NoError(t, err)

	return u
}

func registerVerified(t *testing.T, a *Auth, store *fakeStore, email string) models.User {
	t.Helper()

	u := register(t, a, email)

	tokens := store.verificationTokensFor(u.ID)
	require.Len(t, tokens, 1)

	verified, err := a.ConfirmEmail(context.Background(), tokens[0].Token)
	require.NoError(t, err)

	return verified
}

func TestRegisterCreatesInactiveUser(t *testing.T) {
	a, store, pub, _ := newTestAuth(t)

	u := register(t, a, "a@x.com")

	assert.Equal(t, models.StatusInactive, u.Status())
	assert.NotEmpty(t, u.UID)
	assert.NotEmpty(t, u.PassHash)

	tokens := store.verificationTokensFor(u.ID)
	require.Len(t, tokens, 1)

	msgs := pub.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "a@x.com", msgs[0].Email)
	assert.Equal(t, "email_verification", msgs[0].Purpose)
	assert.Contains(t, msgs[0].Link, tokens[0].Token)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	a, _, _, _ := newTestAuth(t)

	u := register(t, a, "  A@X.Com ")

	assert.Equal(t, "a@x.com", u.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a, _, _, _ := newTestAuth(t)

	register(t, a, "a@x.com")

	_, err := a.Register(context.Background(), RegisterParams{
		Email:                "A@x.com",
		Password:             "Abcdefg1",
		PasswordConfirmation: "Abcdefg1",
	})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegisterValidation(t *testing.T) {
	a, _, _, _ := newTestAuth(t)

	t.Run("confirmation mismatch", func(t *testing.T) {
		_, err := a.Register(context.Background(), RegisterParams{
			Email:                "a@x.com",
			Password:             "Abcdefg1",
			PasswordConfirmation: "Abcdefg2",
		})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Violations, 1)
	})

	t.Run("weak password reports all violations", func(t *testing.T) {
		_, err := a.Register(context.Background(), RegisterParams{
			Email:                "a@x.com",
			Password:             "abc",
			PasswordConfirmation: "abc",
		})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Violations, 3)
	})
}

func TestConfirmEmailActivatesUser(t *testing.T) {
	a, store, _, _ := newTestAuth(t)

	u := register(t, a, "a@x.com")
	tokens := store.verificationTokensFor(u.ID)
	require.Len(t, tokens, 1)

	verified, err := a.ConfirmEmail(context.Background(), tokens[0].Token)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, verified.Status())

	// Re-confirming with the same token reports the same failure as an
	// absent token.
	_, err = a.ConfirmEmail(context.Background(), tokens[0].Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestConfirmEmailUnknownToken(t *testing.T) {
	a, _, _, _ := newTestAuth(t)

	_, err := a.ConfirmEmail(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestConfirmEmailExpiredToken(t *testing.T) {
	a, store, _, clock := newTestAuth(t)

	u := register(t, a, "a@x.com")
	tokens := store.verificationTokensFor(u.ID)
	require.Len(t, tokens, 1)

	clock.Advance(25 * time.Hour)

	_, err := a.ConfirmEmail(context.Background(), tokens[0].Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestConcurrentConfirmSingleSuccess(t *testing.T) {
	a, store, _, _ := newTestAuth(t)

	u := register(t, a, "a@x.com")
	tokens := store.verificationTokensFor(u.ID)
	require.Len(t, tokens, 1)

	const attempts = 8

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = a.ConfirmEmail(context.Background(), tokens[0].Token)
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrInvalidToken)
		}
	}

	assert.Equal(t, 1, successes)
}

func TestResendInvalidatesPreviousTokens(t *testing.T) {
	a, store, _, _ := newTestAuth(t)

	u := register(t, a, "a@x.com")
	first := store.verificationTokensFor(u.ID)
	require.Len(t, first, 1)

	require.NoError(t, a.ResendVerificationEmail(context.Background(), "a@x.com"))

	// History is preserved: the superseded row remains, marked invalidated.
	tokens := store.verificationTokensFor(u.ID)
	require.Len(t, tokens, 2)

	_, err := a.ConfirmEmail(context.Background(), first[0].Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	var fresh string
	for _, vt := range tokens {
		if vt.Token != first[0].Token {
			fresh = vt.Token
		}
	}

	verified, err := a.ConfirmEmail(context.Background(), fresh)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, verified.Status())
}

func TestResendQuietForUnknownAndVerified(t *testing.T) {
	a, store, _, _ := newTestAuth(t)

	assert.NoError(t, a.ResendVerificationEmail(context.Background(), "nobody@x.com"))

	u := registerVerified(t, a, store, "a@x.com")
	assert.NoError(t, a.ResendVerificationEmail(context.Background(), "a@x.com"))
	assert.Len(t, store.verificationTokensFor(u.ID), 1)
}

func TestLogin(t *testing.T) {
	a, store, _, _ := newTestAuth(t)

	registerVerified(t, a, store, "a@x.com")

	t.Run("success", func(t *testing.T) {
		u, sess, err := a.Login(context.Background(), "a@x.com", "Abcdefg1", ClientMeta{IPAddress: "10.0.0.1", UserAgent: "test"})
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", u.Email)
		assert.NotEmpty(t, sess.Token)
		assert.Equal(t, u.ID, sess.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := a.Login(context.Background(), "a@x.com", "wrong", ClientMeta{})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := a.Login(context.Background(), "nobody@x.com", "Abcdefg1", ClientMeta{})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLoginInactiveAccount(t *testing.T) {
	a, _, _, _ := newTestAuth(t)

	register(t, a, "a@x.com")

	_, _, err := a.Login(context.Background(), "a@x.com", "Abcdefg1", ClientMeta{})
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestLoginAllowsConcurrentSessions(t *testing.T) {
	a, store, _, _ := newTestAuth(t)

	u := registerVerified(t, a, store, "a@x.com")

	_, first, err := a.Login(context.Background(), "a@x.com", "Abcdefg1", ClientMeta{})
	require.NoError(t, err)
	_, second, err := a.Login(context.Background(), "a@x.com", "Abcdefg1", ClientMeta{})
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
	assert.Equal(t, 2, store.sessionCount(u.ID))
}

func TestResolve(t *testing.T) {
	a, store, _, clock := newTestAuth(t)

	registerVerified(t, a, store, "a@x.com")
	_, sess, err := a.Login(context.Background(), "a@x.com", "Abcdefg1", ClientMeta{})
	require.NoError(t, err)

	u, err := a.Resolve(context.Background(), sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	// Absent and expired bearers are indistinguishable.
	_, err = a.Resolve(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, ErrUnauthorized)

	clock.Advance(8 * 24 * time.Hour)
	_, err = a.Resolve(context.Background(), sess.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshSession(t *testing.T) {
	a, store, _, clock := newTestAuth(t)

	registerVerified(t, a, store, "a@x.com")
	_, sess, err := a.Login(context.Background(), "a@x.com", "Abcdefg1", ClientMeta{})
	require.NoError(t, err)

	clock.Advance(3 * 24 * time.Hour)

	refreshed, err := a.RefreshSession(context.Background(), sess.Token)
	require.NoError(t, err)
	assert.True(t, refreshed.ExpiresAt.After(sess.ExpiresAt))
	assert.Equal(t, clock.Now(), refreshed.LastAccessedAt)

	// An expired session cannot be revived.
	clock.Advance(8 * 24 * time.Hour)
	_, err = a.RefreshSession(context.Background(), sess.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogout(t *testing.T) {
	a, store, _, _ := newTestAuth(t)

	registerVerified(t, a, store, "a@x.com")
	_, sess, err := a.Login(context.Background(), "a@x.com", "Abcdefg1", ClientMeta{})
	require.NoError(t, err)

	require.NoError(t, a.Logout(context.Background(), sess.Token))

	_, err = a.Resolve(context.Background(), sess.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.ErrorIs(t, a.Logout(context.Background(), sess.Token), ErrUnauthorized)
}

func TestSweepExpiredSessions(t *testing.T) {
	a, store, _, clock := newTestAuth(t)

	registerVerified(t, a, store, "a@x.com")

	_, old, err := a.Login(context.Background(), "a@x.com", "Abcdefg1", ClientMeta{})
	require.NoError(t, err)

	clock.Advance(8 * 24 * time.Hour)

	_, fresh, err := a.Login(context.Background(), "a@x.com", "Abcdefg1", ClientMeta{})
	require.NoError(t, err)

	deleted, err := a.SweepExpiredSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = a.Resolve(context.Background(), old.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = a.Resolve(context.Background(), fresh.Token)
	assert.NoError(t, err)
}

func TestRequestPasswordResetConstantOutcome(t *testing.T) {
	a, store, _, _ := newTestAuth(t)

	active := registerVerified(t, a, store, "active@x.com")
	inactive := register(t, a, "inactive@x.com")

	// Existing active account, unknown email and inactive account all report
	// the same outcome to the caller.
	assert.NoError(t, a.RequestPasswordReset(context.Background(), "active@x.com"))
	assert.NoError(t, a.RequestPasswordReset(context.Background(), "nobody@x.com"))
	assert.NoError(t, a.RequestPasswordReset(context.Background(), "inactive@x.com"))

	assert.Equal(t, 1, store.resetTokenCount(active.ID))
	assert.Equal(t, 0, store.resetTokenCount(inactive.ID))
}

func TestResetPasswordRevokesAllSessions(t *testing.T) {
	a, store, pub, _ := newTestAuth(t)

	u := registerVerified(t, a, store, "a@x.com")

	_, first, err := a.Login(context.Background(), "a@x.com", "Abcdefg1", ClientMeta{})
	require.NoError(t, err)
	_, second, err := a.Login(context.Background(), "a@x.com", "Abcdefg1", ClientMeta{})
	require.NoError(t, err)

	require.NoError(t, a.RequestPasswordReset(context.Background(), "a@x.com"))

	msgs := pub.messages()
	last := msgs[len(msgs)-1]
	require.Equal(t, "password_reset", last.Purpose)

	tokens := store.rtokens
	require.Len(t, tokens, 1)
	raw := tokens[0].Token

	reset, err := a.ResetPassword(context.Background(), raw, "Newpass1", "Newpass1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, reset.ID)

	_, err = a.Resolve(context.Background(), first.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = a.Resolve(context.Background(), second.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Old credential no longer works, the new one does.
	_, _, err = a.Login(context.Background(), "a@x.com", "Abcdefg1", ClientMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = a.Login(context.Background(), "a@x.com", "Newpass1", ClientMeta{})
	assert.NoError(t, err)

	// The token is single-use.
	_, err = a.ResetPassword(context.Background(), raw, "Another1", "Another1")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetPasswordValidation(t *testing.T) {
	a, store, _, clock := newTestAuth(t)

	registerVerified(t, a, store, "a@x.com")
	require.NoError(t, a.RequestPasswordReset(context.Background(), "a@x.com"))
	raw := store.rtokens[0].Token

	t.Run("confirmation mismatch", func(t *testing.T) {
		_, err := a.ResetPassword(context.Background(), raw, "Newpass1", "Other1aa")

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := a.ResetPassword(context.Background(), raw, "weak", "weak")

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Violations, 3)
	})

	t.Run("expired token", func(t *testing.T) {
		clock.Advance(2 * time.Hour)

		_, err := a.ResetPassword(context.Background(), raw, "Newpass1", "Newpass1")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestChangePassword(t *testing.T) {
	a, store, _, _ := newTestAuth(t)

	u := registerVerified(t, a, store, "a@x.com")

	t.Run("wrong current password", func(t *testing.T) {
		err := a.ChangePassword(context.Background(), &u, "wrong", "Newpass1", "Newpass1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("must differ from current, independent of strength", func(t *testing.T) {
		err := a.ChangePassword(context.Background(), &u, "Abcdefg1", "Abcdefg1", "Abcdefg1")
		assert.ErrorIs(t, err, ErrPasswordUnchanged)
	})

	t.Run("confirmation mismatch", func(t *testing.T) {
		err := a.ChangePassword(context.Background(), &u, "Abcdefg1", "Newpass1", "Newpass2")

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("weak new password", func(t *testing.T) {
		err := a.ChangePassword(context.Background(), &u, "Abcdefg1", "short", "short")

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, a.ChangePassword(context.Background(), &u, "Abcdefg1", "Newpass1", "Newpass1"))

		_, _, err := a.Login(context.Background(), "a@x.com", "Newpass1", ClientMeta{})
		assert.NoError(t, err)
	})
}
