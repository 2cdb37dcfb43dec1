package jwtutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := GenerateToken("secret", time.Hour, "token-id-1", 42, "Ana")
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "Ana", claims.FullName)
	assert.Equal(t, "token-id-1", claims.ID)
}

func TestParseWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", time.Hour, "token-id-1", 42, "Ana")
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseExpired(t *testing.T) {
	token, err := GenerateToken("secret", -time.Minute, "token-id-1", 42, "Ana")
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}

func TestParseGarbage(t *testing.T) {
	_, err := ParseToken("secret", "garbage")
	assert.Error(t, err)
}
