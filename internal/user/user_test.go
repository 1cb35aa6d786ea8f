package user

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"stringart_backend/internal/models"
	"stringart_backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	users map[string]*models.User
}

func (s *fakeStore) UserByUID(_ context.Context, uid string) (models.User, error) {
	u, ok := s.users[uid]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}

	return *u, nil
}

func (s *fakeStore) UpdateUserProfile(_ context.Context, u *models.User) error {
	if _, ok := s.users[u.UID]; !ok {
		return storage.ErrUserNotFound
	}

	copied := *u
	s.users[u.UID] = &copied

	return nil
}

func newTestService(users ...*models.User) (*Service, *fakeStore) {
	store := &fakeStore{users: make(map[string]*models.User)}
	for _, u := range users {
		store.users[u.UID] = u
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(log, store), store
}

func TestGetProfile(t *testing.T) {
	now := time.Now()

	verified := &models.User{ID: 1, UID: "uid-1", Email: "a@x.com", EmailVerifiedAt: &now}
	unverified := &models.User{ID: 2, UID: "uid-2", Email: "b@x.com"}

	svc, _ := newTestService(verified, unverified)

	t.Run("verified user", func(t *testing.T) {
		u, err := svc.GetProfile(context.Background(), "uid-1")
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", u.Email)
	})

	t.Run("unverified user looks absent", func(t *testing.T) {
		_, err := svc.GetProfile(context.Background(), "uid-2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown uid", func(t *testing.T) {
		_, err := svc.GetProfile(context.Background(), "uid-9")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateProfile(t *testing.T) {
	now := time.Now()

	owner := &models.User{ID: 1, UID: "uid-1", FirstName: "Jane", LastName: "Doe", EmailVerifiedAt: &now}
	stranger := &models.User{ID: 2, UID: "uid-2", EmailVerifiedAt: &now}

	svc, store := newTestService(owner, stranger)

	t.Run("owner updates present fields only", func(t *testing.T) {
		first := "Janet"
		bio := "string artist"

		u, err := svc.UpdateProfile(context.Background(), owner, "uid-1", UpdateParams{
			FirstName: &first,
			Bio:       &bio,
		})
		require.NoError(t, err)

		assert.Equal(t, "Janet", u.FirstName)
		assert.Equal(t, "Doe", u.LastName)
		assert.Equal(t, "string artist", u.Bio)
		assert.Equal(t, "Janet", store.users["uid-1"].FirstName)
	})

	t.Run("non-owner denied", func(t *testing.T) {
		first := "Mallory"
		_, err := svc.UpdateProfile(context.Background(), stranger, "uid-1", UpdateParams{FirstName: &first})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown uid", func(t *testing.T) {
		first := "Janet"
		_, err := svc.UpdateProfile(context.Background(), owner, "uid-9", UpdateParams{FirstName: &first})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
