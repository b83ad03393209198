package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	token, digest, err := NewResetToken()
	require.NoError(t, err)

	assert.Len(t, token, 64) // 32 bytes hex-encoded
	assert.Len(t, digest, 32)
	assert.Equal(t, digest, HashResetToken(token))
	assert.NotContains(t, string(digest), token)
}

func TestResetTokensAreUnique(t *testing.T) {
	first, _, err := NewResetToken()
	require.NoError(t, err)
	second, _, err := NewResetToken()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
