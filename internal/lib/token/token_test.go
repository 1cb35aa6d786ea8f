package token

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsURLSafe(t *testing.T) {
	value, err := New()
	require.NoError(t, err)

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	require.NoError(t, err)
	assert.Len(t, decoded, payloadLen)

	assert.NotContains(t, value, "+")
	assert.NotContains(t, value, "/")
	assert.NotContains(t, value, "=")
}

func TestNewDoesNotRepeat(t *testing.T) {
	seen := make(map[string]struct{}, 1000)

	for i := 0; i < 1000; i++ {
		value, err := New()
		require.NoError(t, err)

		_, dup := seen[value]
		require.False(t, dup, "token value repeated")
		seen[value] = struct{}{}
	}
}
