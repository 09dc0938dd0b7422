package user

import (
	"time"

	"github.com/socialdesk/socialdesk/internal/types"
)

type User struct {
	ID           string         `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	Name         string         `db:"name" json:"name"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Role         types.UserRole `db:"role" json:"role"`
	IsSuperAdmin bool           `db:"is_super_admin" json:"is_super_admin"`
	LastLoginAt  *time.Time     `db:"last_login_at" json:"last_login_at,omitempty"`
	types.BaseModel
}

// Session backs a bearer token; revoking it invalidates the token before expiry
type Session struct {
	ID        string     `db:"id" json:"id"`
	TenantID  string     `db:"tenant_id" json:"tenant_id"`
	UserID    string     `db:"user_id" json:"user_id"`
	IPAddress string     `db:"ip_address" json:"ip_address"`
	UserAgent string     `db:"user_agent" json:"user_agent"`
	ExpiresAt time.Time  `db:"expires_at" json:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// IsActive reports whether the session can still authenticate requests at now
func (s *Session) IsActive(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
