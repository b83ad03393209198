package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	// min cost keeps the test fast; production uses cost 12 from config
	hasher := NewPasswordHasher(4)

	hash, err := hasher.Hash("pass1234")
	require.NoError(t, err)

	assert.NotContains(t, string(hash), "pass1234")
	assert.True(t, hasher.Compare(hash, "pass1234"))
	assert.False(t, hasher.Compare(hash, "pass12345"))
	assert.False(t, hasher.Compare(hash, ""))
}

func TestPasswordHashesAreSalted(t *testing.T) {
	hasher := NewPasswordHasher(4)

	first, err := hasher.Hash("pass1234")
	require.NoError(t, err)
	second, err := hasher.Hash("pass1234")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewPasswordHasherClampsCost(t *testing.T) {
	hasher := NewPasswordHasher(99)
	assert.Equal(t, DefaultBcryptCost, hasher.cost)

	hasher = NewPasswordHasher(0)
	assert.Equal(t, DefaultBcryptCost, hasher.cost)
}
