package auth

import (
	"testing"

	"dorm-backend/internal/config"
	"dorm-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "dorm-test"
	return cfg
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig("s3cret"))
	user := &models.User{ID: "u-1", Username: "staff1", Role: models.RoleStaff}

	token, err := m.GenerateToken(user)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	actor := claims.Actor()
	assert.Equal(t, "u-1", actor.UserID)
	assert.Equal(t, "staff1", actor.Username)
	assert.Equal(t, models.RoleStaff, actor.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewJWTManager(testConfig("one")).GenerateToken(&models.User{ID: "u", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = NewJWTManager(testConfig("two")).ValidateToken(token)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter22"))
	assert.False(t, VerifyPassword(hash, "hunter23"))
}
