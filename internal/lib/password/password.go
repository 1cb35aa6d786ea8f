package password

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Violation is one failed strength rule, phrased for direct display.
type Violation string

const (
	ViolationTooShort Violation = "password must be at least 8 characters long"
	ViolationNoUpper  Violation = "password must contain at least one uppercase letter"
	ViolationNoLower  Violation = "password must contain at least one lowercase letter"
	ViolationNoDigit  Violation = "password must contain at least one number"
)

const minLength = 8

// Hash produces a bcrypt digest. Plaintext never leaves this package in any
// other form.
func Hash(plaintext string) ([]byte, error) {
	const op = "lib.password.Hash"

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return digest, nil
}

// Verify reports whether plaintext matches the stored digest.
func Verify(plaintext string, digest []byte) bool {
	return bcrypt.CompareHashAndPassword(digest, []byte(plaintext)) == nil
}

// CheckStrength returns every violated rule, not just the first, so callers
// can surface the full list at once.
func CheckStrength(candidate string) []Violation {
	var violations []Violation

	if len(candidate) < minLength {
		violations = append(violations, ViolationTooShort)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range candidate {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper {
		violations = append(violations, ViolationNoUpper)
	}
	if !hasLower {
		violations = append(violations, ViolationNoLower)
	}
	if !hasDigit {
		violations = append(violations, ViolationNoDigit)
	}

	return violations
}
