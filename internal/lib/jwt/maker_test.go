package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_AccessTokenRoundTrip(t *testing.T) {
	maker := NewMaker("test-secret", 30*time.Minute, 7*24*time.Hour)

	token, err := maker.GenerateAccessToken("instructor01")
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "instructor01", claims.Subject)
	assert.Equal(t, UseAccess, claims.TokenUse)
	assert.NotEmpty(t, claims.ID)
}

func TestMaker_RefreshTokenUse(t *testing.T) {
	maker := NewMaker("test-secret", 30*time.Minute, 7*24*time.Hour)

	token, err := maker.GenerateRefreshToken("requester02")
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "requester02", claims.Subject)
	assert.Equal(t, UseRefresh, claims.TokenUse)
}

func TestMaker_ExpiredToken(t *testing.T) {
	maker := NewMaker("test-secret", -time.Minute, 7*24*time.Hour)

	token, err := maker.GenerateAccessToken("instructor01")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
}

func TestMaker_WrongKey(t *testing.T) {
	maker := NewMaker("test-secret", 30*time.Minute, 7*24*time.Hour)
	other := NewMaker("other-secret", 30*time.Minute, 7*24*time.Hour)

	token, err := maker.GenerateAccessToken("instructor01")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestMaker_UniqueTokenIDs(t *testing.T) {
	maker := NewMaker("test-secret", 30*time.Minute, 7*24*time.Hour)

	first, err := maker.GenerateAccessToken("instructor01")
	require.NoError(t, err)
	second, err := maker.GenerateAccessToken("instructor01")
	require.NoError(t, err)

	firstClaims, err := maker.ParseToken(first)
	require.NoError(t, err)
	secondClaims, err := maker.ParseToken(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}
