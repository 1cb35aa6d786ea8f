// Package view holds the JSON shapes shared across handlers.
package view

import (
	"encoding/json"
	"time"

	"stringart_backend/internal/models"
)

// User is the account view returned to its owner and by auth flows.
type User struct {
	ID            int64      `json:"id"`
	UID           string     `json:"uid"`
	Email         string     `json:"email"`
	FirstName     string     `json:"first_name,omitempty"`
	LastName      string     `json:"last_name,omitempty"`
	FullName      string     `json:"full_name,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
	Bio           string     `json:"bio,omitempty"`
	Status        string     `json:"status"`
	EmailVerified bool       `json:"email_verified"`
	VerifiedAt    *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func NewUser(u models.User) User {
	return User{
		ID:            u.ID,
		UID:           u.UID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		FullName:      u.FullName(),
		Phone:         u.Phone,
		AvatarURL:     u.AvatarURL,
		Bio:           u.Bio,
		Status:        string(u.Status()),
		EmailVerified: u.IsVerified(),
		VerifiedAt:    u.EmailVerifiedAt,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// PublicProfile is the subset of a profile any caller may read.
type PublicProfile struct {
	UID       string    `json:"uid"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	FullName  string    `json:"full_name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPublicProfile(u models.User) PublicProfile {
	return PublicProfile{
		UID:       u.UID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
	}
}

type Project struct {
	ID          int64                      `json:"id"`
	UserID      int64                      `json:"user_id"`
	Name        string                     `json:"name"`
	Version     string                     `json:"version"`
	Visibility  string                     `json:"visibility"`
	BoardConfig models.BoardConfig         `json:"board_config"`
	Nails       map[string]json.RawMessage `json:"nails"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

func NewProject(p models.Project) Project {
	return Project{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Version:     p.Version,
		Visibility:  string(p.Visibility),
		BoardConfig: p.BoardConfig,
		Nails:       p.Nails,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func NewProjects(ps []models.Project) []Project {
	out := make([]Project, 0, len(ps))
	for _, p := range ps {
		out = append(out, NewProject(p))
	}
	return out
}
