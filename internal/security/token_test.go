package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionToken(t *testing.T) {
	token, hash, err := GenerateSessionToken()
	require.NoError(t, err)

	assert.Len(t, token, 43) // 32 bytes base64url, no padding
	assert.Len(t, hash, 32)
	assert.Equal(t, hash, HashSessionToken(token))

	other, _, err := GenerateSessionToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestHashSessionTokenDeterministic(t *testing.T) {
	assert.Equal(t, HashSessionToken("abc"), HashSessionToken("abc"))
	assert.NotEqual(t, HashSessionToken("abc"), HashSessionToken("abd"))
}

func TestResetTokenRoundTrip(t *testing.T) {
	token, err := GenerateResetToken("secret", "user-42", 30*time.Minute)
	require.NoError(t, err)

	userID, err := ParseResetToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestResetTokenWrongSecret(t *testing.T) {
	token, err := GenerateResetToken("secret", "user-42", 30*time.Minute)
	require.NoError(t, err)

	_, err = ParseResetToken(token, "other-secret")
	assert.Error(t, err)
}

func TestResetTokenExpired(t *testing.T) {
	token, err := GenerateResetToken("secret", "user-42", -time.Minute)
	require.NoError(t, err)

	_, err = ParseResetToken(token, "secret")
	assert.Error(t, err)
}

func TestResetTokenGarbage(t *testing.T) {
	_, err := ParseResetToken("not-a-jwt", "secret")
	assert.Error(t, err)
}
