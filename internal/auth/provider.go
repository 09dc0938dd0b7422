package auth

import (
	"context"
	"time"

	"github.com/socialdesk/socialdesk/internal/config"
)

// Claims are carried by every bearer token
type Claims struct {
	UserID    string
	TenantID  string
	SessionID string
	ExpiresAt time.Time
}

type TokenRequest struct {
	UserID    string
	TenantID  string
	SessionID string
	ExpiresAt time.Time
}

// Provider issues and validates bearer tokens and hashes passwords
type Provider interface {
	HashPassword(password string) (string, error)
	ComparePassword(hash, password string) error
	GenerateToken(ctx context.Context, req TokenRequest) (string, error)
	ValidateToken(ctx context.Context, token string) (*Claims, error)
	// TokenTTL is the lifetime of new sessions
	TokenTTL() time.Duration
}

func NewProvider(cfg *config.Configuration) Provider {
	return NewJWTAuth(cfg)
}
