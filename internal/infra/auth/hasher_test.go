package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256Hasher_Deterministic(t *testing.T) {
	hasher := NewSHA256Hasher()

	first, err := hasher.Hash("Secret123")
	require.NoError(t, err)
	second, err := hasher.Hash("Secret123")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, "Secret123", first)
}

func TestSHA256Hasher_Verify(t *testing.T) {
	hasher := NewSHA256Hasher()

	digest, err := hasher.Hash("Secret123")
	require.NoError(t, err)

	assert.True(t, hasher.Verify("Secret123", digest))
	assert.False(t, hasher.Verify("secret123", digest))
	assert.False(t, hasher.Verify("Secret123", "not-a-digest"))
}

func TestBcryptHasher_Verify(t *testing.T) {
	hasher := NewBcryptHasher(4)

	digest, err := hasher.Hash("Secret123")
	require.NoError(t, err)

	assert.True(t, hasher.Verify("Secret123", digest))
	assert.False(t, hasher.Verify("wrong", digest))
}

func TestBcryptHasher_Salted(t *testing.T) {
	hasher := NewBcryptHasher(4)

	first, err := hasher.Hash("Secret123")
	require.NoError(t, err)
	second, err := hasher.Hash("Secret123")
	require.NoError(t, err)

	// Each digest carries its own salt.
	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_ClampsCost(t *testing.T) {
	// Out-of-range costs fall back to the default rather than failing.
	hasher := NewBcryptHasher(99)

	digest, err := hasher.Hash("Secret123")
	require.NoError(t, err)
	assert.True(t, hasher.Verify("Secret123", digest))
}
