package models

import (
	"encoding/json"
	"strings"
	"time"
)

type UserStatus string

const (
	StatusInactive UserStatus = "inactive"
	StatusActive   UserStatus = "active"
)

type User struct {
	ID              int64
	UID             string
	Email           string
	PassHash        []byte
	FirstName       string
	LastName        string
	Phone           string
	AvatarURL       string
	Bio             string
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (u *User) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}

// Status derives from the verification timestamp: a user becomes active
// only once the email is confirmed.
func (u *User) Status() UserStatus {
	if u.IsVerified() {
		return StatusActive
	}
	return StatusInactive
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeEmail lower-cases and trims an email before any lookup or write.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// VerificationToken is a single-use email confirmation credential. Consumed
// and superseded rows keep their terminal marker and are never deleted.
type VerificationToken struct {
	ID            int64
	UserID        int64
	Token         string
	ExpiresAt     time.Time
	VerifiedAt    *time.Time
	InvalidatedAt *time.Time
	CreatedAt     time.Time
}

// Usable reports whether the token may still be consumed at the given instant.
func (t *VerificationToken) Usable(now time.Time) bool {
	return now.Before(t.ExpiresAt) && t.VerifiedAt == nil && t.InvalidatedAt == nil
}

// ResetToken is a single-use password recovery credential.
type ResetToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

func (t *ResetToken) Usable(now time.Time) bool {
	return now.Before(t.ExpiresAt) && t.UsedAt == nil
}

// Session is a bearer credential for one signed-in client. Multiple
// concurrent sessions per user are allowed.
type Session struct {
	ID             int64
	UserID         int64
	Token          string
	IPAddress      string
	UserAgent      string
	ExpiresAt      time.Time
	LastAccessedAt time.Time
	CreatedAt      time.Time
}

// Valid is the session liveness predicate; storage fetches by exact token
// match and callers apply this at read time.
func (s *Session) Valid(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

type Visibility string

const (
	VisibilityPersonal Visibility = "personal"
	VisibilityShared   Visibility = "shared"
)

// BoardConfig holds board geometry and appearance. Field names follow the
// client payload convention.
type BoardConfig struct {
	DotsCountHorizontal float64 `json:"dotsCountHorizontal"`
	DotsCountVertical   float64 `json:"dotsCountVertical"`
	MarginBetweenNails  float64 `json:"marginBetweenNails"`
	PaddingBoard        float64 `json:"paddingBoard"`
	BoardColor          string  `json:"boardColor"`
}

// Project is a per-user string-art configuration. Nails is keyed by
// "x,y" coordinate strings.
type Project struct {
	ID          int64
	UserID      int64
	Name        string
	Version     string
	Visibility  Visibility
	BoardConfig BoardConfig
	Nails       map[string]json.RawMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EmailMessage is the payload published to the mail queue and consumed by
// cmd/mail_sender.
type EmailMessage struct {
	Email   string `json:"to"`
	Subject string `json:"subject"`
	Link    string `json:"link"`
	Purpose string `json:"purpose"`
}
