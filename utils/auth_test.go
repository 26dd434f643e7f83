package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chaletprop-server/config"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("tr3s-s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "tr3s-s3cret!", hash)
	assert.True(t, CheckPasswordHash("tr3s-s3cret!", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	config.Load()

	token, err := GenerateToken(42, "pro")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "pro", claims.Role)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	config.Load()

	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}
