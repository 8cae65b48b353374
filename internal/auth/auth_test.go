// server/internal/auth/auth_test.go
package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
}

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("USR-abc12345", "farmer@example.com", "farmer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "USR-abc12345", claims.UserID)
	assert.Equal(t, "farmer@example.com", claims.Email)
	assert.Equal(t, "farmer", claims.Role)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	original := JwtSecret
	defer func() { JwtSecret = original }()

	token, err := GenerateJWT("USR-abc12345", "farmer@example.com", "farmer")
	require.NoError(t, err)

	JwtSecret = []byte("a-different-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}
