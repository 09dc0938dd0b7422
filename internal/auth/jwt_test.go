package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/socialdesk/socialdesk/internal/config"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	provider := NewProvider(config.GetDefaultConfig())
	ctx := context.Background()

	token, err := provider.GenerateToken(ctx, TokenRequest{
		UserID:    "user_1",
		TenantID:  "tenant_1",
		SessionID: "sess_1",
	})
	require.NoError(t, err)

	claims, err := provider.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user_1", claims.UserID)
	assert.Equal(t, "tenant_1", claims.TenantID)
	assert.Equal(t, "sess_1", claims.SessionID)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestValidateToken_Rejects(t *testing.T) {
	cfg := config.GetDefaultConfig()
	provider := NewProvider(cfg)
	ctx := context.Background()

	expired, err := provider.GenerateToken(ctx, TokenRequest{
		UserID:    "user_1",
		TenantID:  "tenant_1",
		SessionID: "sess_1",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	other := config.GetDefaultConfig()
	other.Auth.Secret = "another-secret"
	foreign, err := NewProvider(other).GenerateToken(ctx, TokenRequest{
		UserID:    "user_1",
		TenantID:  "tenant_1",
		SessionID: "sess_1",
	})
	require.NoError(t, err)

	noSession, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   "user_1",
		"tenant_id": "tenant_1",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(cfg.Auth.Secret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong secret", foreign},
		{"missing session", noSession},
		{"garbage", "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := provider.ValidateToken(ctx, tt.token)
			require.Error(t, err)
			assert.True(t, ierr.IsUnauthenticated(err))
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	provider := NewProvider(config.GetDefaultConfig())

	hash, err := provider.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, provider.ComparePassword(hash, "s3cret-pass"))

	err = provider.ComparePassword(hash, "wrong")
	require.Error(t, err)
	assert.True(t, ierr.IsUnauthenticated(err))

	_, err = provider.HashPassword("")
	assert.True(t, ierr.IsValidation(err))
}
