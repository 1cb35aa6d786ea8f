// Package user implements profile retrieval and owner-only profile updates.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sl "stringart_backend/internal/lib/logger"
	"stringart_backend/internal/models"
	"stringart_backend/internal/policy"
	"stringart_backend/internal/storage"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrForbidden = errors.New("access denied")
)

type Store interface {
	UserByUID(ctx context.Context, uid string) (models.User, error)
	UpdateUserProfile(ctx context.Context, u *models.User) error
}

type Service struct {
	log   *slog.Logger
	store Store
}

func New(log *slog.Logger, store Store) *Service {
	return &Service{log: log, store: store}
}

// GetProfile returns the public profile of a verified user. Unverified
// accounts are reported as absent.
func (s *Service) GetProfile(ctx context.Context, uid string) (models.User, error) {
	const op = "user.GetProfile"

	u, err := s.userByUID(ctx, op, uid)
	if err != nil {
		return models.User{}, err
	}

	if !policy.CanViewProfile(&u) {
		return models.User{}, ErrNotFound
	}

	return u, nil
}

// UpdateParams carries only the fields present in the request.
type UpdateParams struct {
	FirstName *string
	LastName  *string
	Phone     *string
	AvatarURL *string
	Bio       *string
}

// UpdateProfile mutates a profile, allowed only for its owner.
func (s *Service) UpdateProfile(ctx context.Context, requester *models.User, uid string, params UpdateParams) (models.User, error) {
	const op = "user.UpdateProfile"

	log := s.log.With(slog.String("op", op))

	u, err := s.userByUID(ctx, op, uid)
	if err != nil {
		return models.User{}, err
	}

	if !policy.CanEditProfile(requester.ID, u.ID) {
		return models.User{}, ErrForbidden
	}

	if params.FirstName != nil {
		u.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		u.LastName = *params.LastName
	}
	if params.Phone != nil {
		u.Phone = *params.Phone
	}
	if params.AvatarURL != nil {
		u.AvatarURL = *params.AvatarURL
	}
	if params.Bio != nil {
		u.Bio = *params.Bio
	}

	if err := s.store.UpdateUserProfile(ctx, &u); err != nil {
		log.Error("failed to update profile", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("profile updated", slog.String("uid", u.UID))

	return u, nil
}

func (s *Service) userByUID(ctx context.Context, op, uid string) (models.User, error) {
	u, err := s.store.UserByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, ErrNotFound
		}

		s.log.Error("failed to load user", slog.String("op", op), sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}
