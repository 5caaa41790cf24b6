package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordSaltedPerCall(t *testing.T) {
	BcryptCost = bcrypt.MinCost

	h1, err := HashPassword("secret123")
	require.NoError(t, err)
	h2, err := HashPassword("secret123")
	require.NoError(t, err)

	// random salt per call: two hashes of the same input must differ
	assert.NotEqual(t, h1, h2)

	for _, h := range []string{h1, h2} {
		ok, err := VerifyHash(h, "secret123")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = VerifyHash(h, "not-the-password")
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestVerifyHashMalformedInput(t *testing.T) {
	_, err := VerifyHash("%%%not-base64%%%", "whatever")
	assert.Error(t, err)
}
