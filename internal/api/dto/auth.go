package dto

import (
	"time"

	"github.com/socialdesk/socialdesk/internal/validator"
)

type SignUpRequest struct {
	Email      string `json:"email" binding:"required,email" validate:"required,email"`
	Password   string `json:"password" binding:"required,min=8" validate:"required,min=8"`
	Name       string `json:"name" validate:"omitempty,max=255"`
	TenantName string `json:"tenant_name" validate:"omitempty,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	TenantID  string    `json:"tenant_id"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (r *SignUpRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *LoginRequest) Validate() error {
	return validator.ValidateRequest(r)
}
