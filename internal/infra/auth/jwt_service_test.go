package auth

import (
	"testing"
	"time"

	"market/config"
	"market/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"

	return cfg
}

func TestJWTService_GenerateAndValidateToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)
	require.NotNil(t, jwtService)

	userID := uuid.New()

	token, err := jwtService.GenerateToken(userID, entity.RoleBusiness, false)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, entity.RoleBusiness, claims.Role)
	assert.False(t, claims.IsAdmin)

	principal := claims.Principal()
	assert.Equal(t, userID, principal.ID)
	assert.Equal(t, entity.RoleBusiness, principal.Role)
}

func TestJWTService_AdminFlagRoundTrip(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)

	token, err := jwtService.GenerateToken(uuid.New(), entity.RoleCustomer, true)
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
	assert.True(t, claims.Principal().IsAdmin)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_WrongSecret(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)

	otherCfg := &config.Config{}
	otherCfg.SecretKey.Access = "a_completely_different_secret_key_for_testing"
	otherService, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	token, err := jwtService.GenerateToken(uuid.New(), entity.RoleCustomer, false)
	require.NoError(t, err)

	claims, err := otherService.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	cfg := newTestJWTConfig()
	cfg.Auth = &config.AuthConfig{AccessTokenTTL: -time.Minute}

	jwtService, err := NewJWTService(cfg)
	require.NoError(t, err)

	// A negative TTL falls back to the default, so the token stays valid.
	token, err := jwtService.GenerateToken(uuid.New(), entity.RoleCustomer, false)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.NoError(t, err)
}

func TestJWTService_MissingSecret(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
}
