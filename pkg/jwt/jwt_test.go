package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "test-access-secret-key-for-testing-purposes"
	testRefreshSecret = "test-refresh-secret-key-for-testing-purposes"
)

func TestNewService(t *testing.T) {
	service := NewService(
		testAccessSecret,
		testRefreshSecret,
		time.Hour,
		24*time.Hour,
	)

	assert.NotNil(t, service)
	assert.Equal(t, testAccessSecret, service.accessSecret)
	assert.Equal(t, testRefreshSecret, service.refreshSecret)
	assert.Equal(t, time.Hour, service.accessTokenExpiry)
	assert.Equal(t, 24*time.Hour, service.refreshTokenExpiry)
}

func TestGenerateAccessToken(t *testing.T) {
	service := NewService(testAccessSecret, testRefreshSecret, time.Hour, 24*time.Hour)

	token, err := service.GenerateAccessToken("user-1", "admin@tripgo.id", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Validate the generated token
	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin@tripgo.id", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, AccessToken, claims.TokenType)
}

func TestGenerateRefreshToken(t *testing.T) {
	service := NewService(testAccessSecret, testRefreshSecret, time.Hour, 24*time.Hour)

	token, err := service.GenerateRefreshToken("user-1", "admin@tripgo.id")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Validate the generated token
	claims, err := service.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin@tripgo.id", claims.Email)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestValidateAccessToken(t *testing.T) {
	service := NewService(testAccessSecret, testRefreshSecret, time.Hour, 24*time.Hour)

	t.Run("Rejects Refresh Token", func(t *testing.T) {
		token, err := service.GenerateRefreshToken("user-1", "admin@tripgo.id")
		require.NoError(t, err)

		claims, err := service.ValidateAccessToken(token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Rejects Wrong Secret", func(t *testing.T) {
		other := NewService("some-other-secret", testRefreshSecret, time.Hour, 24*time.Hour)
		token, err := other.GenerateAccessToken("user-1", "admin@tripgo.id", "admin")
		require.NoError(t, err)

		claims, err := service.ValidateAccessToken(token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Rejects Expired Token", func(t *testing.T) {
		expired := NewService(testAccessSecret, testRefreshSecret, -time.Minute, 24*time.Hour)
		token, err := expired.GenerateAccessToken("user-1", "admin@tripgo.id", "admin")
		require.NoError(t, err)

		claims, err := service.ValidateAccessToken(token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Rejects Garbage", func(t *testing.T) {
		claims, err := service.ValidateAccessToken("not.a.token")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}
