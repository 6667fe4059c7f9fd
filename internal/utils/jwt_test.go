package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAdminToken(t *testing.T) {
	token, err := GenerateAdminToken("admin", "test-secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateAdminToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateAdminTokenWrongSecret(t *testing.T) {
	token, err := GenerateAdminToken("admin", "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateAdminToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateAdminTokenExpired(t *testing.T) {
	token, err := GenerateAdminToken("admin", "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateAdminToken(token, "test-secret")
	assert.Error(t, err)
}

func TestValidateAdminTokenGarbage(t *testing.T) {
	_, err := ValidateAdminToken("not-a-token", "test-secret")
	assert.Error(t, err)
}
