package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	digest, err := Hash("Abcdefg1")
	require.NoError(t, err)

	assert.NotContains(t, string(digest), "Abcdefg1")
	assert.True(t, Verify("Abcdefg1", digest))
	assert.False(t, Verify("abcdefg1", digest))
	assert.False(t, Verify("", digest))
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("Abcdefg1")
	require.NoError(t, err)

	second, err := Hash("Abcdefg1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCheckStrength(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      []Violation
	}{
		{
			name:      "valid password",
			candidate: "Abcdefg1",
			want:      nil,
		},
		{
			name:      "too short but all classes",
			candidate: "Ab1",
			want:      []Violation{ViolationTooShort},
		},
		{
			name:      "missing digit",
			candidate: "Abcdefgh",
			want:      []Violation{ViolationNoDigit},
		},
		{
			name:      "missing uppercase",
			candidate: "abcdefg1",
			want:      []Violation{ViolationNoUpper},
		},
		{
			name:      "missing lowercase",
			candidate: "ABCDEFG1",
			want:      []Violation{ViolationNoLower},
		},
		{
			name:      "all rules violated at once",
			candidate: "",
			want: []Violation{
				ViolationTooShort,
				ViolationNoUpper,
				ViolationNoLower,
				ViolationNoDigit,
			},
		},
		{
			name:      "several rules reported together",
			candidate: "abc",
			want: []Violation{
				ViolationTooShort,
				ViolationNoUpper,
				ViolationNoDigit,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckStrength(tt.candidate))
		})
	}
}
