package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.Com "))
	assert.Equal(t, "a@x.com", NormalizeEmail("a@x.com"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestUserStatus(t *testing.T) {
	u := User{}
	assert.Equal(t, StatusInactive, u.Status())
	assert.False(t, u.IsVerified())

	now := time.Now()
	u.EmailVerifiedAt = &now
	assert.Equal(t, StatusActive, u.Status())
	assert.True(t, u.IsVerified())
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Jane Doe", (&User{FirstName: "Jane", LastName: "Doe"}).FullName())
	assert.Equal(t, "Jane", (&User{FirstName: "Jane"}).FullName())
	assert.Equal(t, "", (&User{}).FullName())
}

func TestVerificationTokenUsable(t *testing.T) {
	now := time.Now()
	mark := now.Add(-time.Minute)

	tests := []struct {
		name  string
		token VerificationToken
		want  bool
	}{
		{"fresh token", VerificationToken{ExpiresAt: now.Add(time.Hour)}, true},
		{"expired", VerificationToken{ExpiresAt: now.Add(-time.Second)}, false},
		{"expires exactly now", VerificationToken{ExpiresAt: now}, false},
		{"consumed", VerificationToken{ExpiresAt: now.Add(time.Hour), VerifiedAt: &mark}, false},
		{"superseded", VerificationToken{ExpiresAt: now.Add(time.Hour), InvalidatedAt: &mark}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.Usable(now))
		})
	}
}

func TestResetTokenUsable(t *testing.T) {
	now := time.Now()
	mark := now.Add(-time.Minute)

	assert.True(t, (&ResetToken{ExpiresAt: now.Add(time.Hour)}).Usable(now))
	assert.False(t, (&ResetToken{ExpiresAt: now.Add(-time.Second)}).Usable(now))
	assert.False(t, (&ResetToken{ExpiresAt: now.Add(time.Hour), UsedAt: &mark}).Usable(now))
}

func TestSessionValid(t *testing.T) {
	now := time.Now()

	assert.True(t, (&Session{ExpiresAt: now.Add(time.Minute)}).Valid(now))
	assert.False(t, (&Session{ExpiresAt: now}).Valid(now))
	assert.False(t, (&Session{ExpiresAt: now.Add(-time.Minute)}).Valid(now))
}
