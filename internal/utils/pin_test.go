package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPIN(t *testing.T) {
	hash, err := HashPIN("4821")
	require.NoError(t, err)
	assert.NotEqual(t, "4821", hash)

	// bcrypt salts per call, so the same PIN hashes differently.
	hash2, err := HashPIN("4821")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)

	assert.True(t, CheckPIN(hash, "4821"))
	assert.True(t, CheckPIN(hash2, "4821"))
	assert.False(t, CheckPIN(hash, "4822"))
}

func TestHashPINRejectsBadInput(t *testing.T) {
	for _, pin := range []string{"", "123", "12345", "abcd", "12a4"} {
		_, err := HashPIN(pin)
		assert.Error(t, err, "pin %q", pin)
	}
}
