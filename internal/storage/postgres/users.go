package postgres

import (
	"context"
	"errors"
	"fmt"

	"stringart_backend/internal/models"
	"stringart_backend/internal/storage"

	"github.com/jackc/pgx/v5"
)

const userColumns = `
	id, uid, email, password_hash,
	COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(phone, ''),
	COALESCE(avatar_url, ''), COALESCE(bio, ''),
	email_verified_at, created_at, updated_at
`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User

	err := row.Scan(
		&u.ID,
		&u.UID,
		&u.Email,
		&u.PassHash,
		&u.FirstName,
		&u.LastName,
		&u.Phone,
		&u.AvatarURL,
		&u.Bio,
		&u.EmailVerifiedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, err
	}

	return u, nil
}

// CreateUserWithVerificationToken inserts the user row and its first
// verification token in one transaction: neither exists without the other.
func (r *Repo) CreateUserWithVerificationToken(
	ctx context.Context,
	u *models.User,
	vt *models.VerificationToken,
) error {
	const op = "storage.postgres.CreateUserWithVerificationToken"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	const userQuery = `
		INSERT INTO users (uid, email, password_hash, first_name, last_name, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at;
	`

	err = tx.QueryRow(ctx, userQuery,
		u.UID, u.Email, string(u.PassHash), u.FirstName, u.LastName, u.Phone,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrUserExists
		}

		return fmt.Errorf("%s: failed to save user: %w", op, err)
	}

	vt.UserID = u.ID

	const tokenQuery = `
		INSERT INTO email_verification_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at;
	`

	err = tx.QueryRow(ctx, tokenQuery, vt.UserID, vt.Token, vt.ExpiresAt).
		Scan(&vt.ID, &vt.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrTokenExists
		}

		return fmt.Errorf("%s: failed to save verification token: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *Repo) UserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.postgres.UserByEmail"

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`

	u, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, err
		}

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (r *Repo) UserByID(ctx context.Context, id int64) (models.User, error) {
	const op = "storage.postgres.UserByID"

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1;`

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, err
		}

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (r *Repo) UserByUID(ctx context.Context, uid string) (models.User, error) {
	const op = "storage.postgres.UserByUID"

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1;`

	u, err := scanUser(r.pool.QueryRow(ctx, query, uid))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, err
		}

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

// UpdateUserProfile persists the mutable profile fields.
func (r *Repo) UpdateUserProfile(ctx context.Context, u *models.User) error {
	const op = "storage.postgres.UpdateUserProfile"

	const query = `
		UPDATE users
		SET first_name = $1, last_name = $2, phone = $3,
		    avatar_url = $4, bio = $5, updated_at = NOW()
		WHERE id = $6;
	`

	tag, err := r.pool.Exec(ctx, query,
		u.FirstName, u.LastName, u.Phone, u.AvatarURL, u.Bio, u.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

func (r *Repo) UpdatePassword(ctx context.Context, userID int64, passHash []byte) error {
	const op = "storage.postgres.UpdatePassword"

	const query = `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2;`

	tag, err := r.pool.Exec(ctx, query, string(passHash), userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}
