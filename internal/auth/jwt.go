package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/socialdesk/socialdesk/internal/config"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 7 * 24 * time.Hour

type jwtAuth struct {
	AuthConfig config.AuthConfig
}

func NewJWTAuth(cfg *config.Configuration) *jwtAuth {
	return &jwtAuth{
		AuthConfig: cfg.Auth,
	}
}

func (a *jwtAuth) TokenTTL() time.Duration {
	if a.AuthConfig.TokenTTL <= 0 {
		return defaultTokenTTL
	}
	return a.AuthConfig.TokenTTL
}

func (a *jwtAuth) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ierr.NewError("password is required").
			WithHint("Password is required").
			Mark(ierr.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to hash password").
			Mark(ierr.ErrSystem)
	}
	return string(hashed), nil
}

func (a *jwtAuth) ComparePassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ierr.NewError("invalid credentials").
			WithHint("Invalid email or password").
			Mark(ierr.ErrUnauthenticated)
	}
	return nil
}

// GenerateToken signs an HS256 token bound to a session
func (a *jwtAuth) GenerateToken(ctx context.Context, req TokenRequest) (string, error) {
	expiresAt := req.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(a.TokenTTL())
	}

	claims := jwt.MapClaims{
		"user_id":   req.UserID,
		"tenant_id": req.TenantID,
		"sid":       req.SessionID,
		"exp":       expiresAt.Unix(),
		"iat":       time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.AuthConfig.Secret))
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to generate token").
			Mark(ierr.ErrSystem)
	}
	return signed, nil
}

func (a *jwtAuth) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ierr.NewError("unexpected signing method").
				WithHint(fmt.Sprintf("unexpected signing method: %v", token.Header["alg"])).
				Mark(ierr.ErrUnauthenticated)
		}
		return []byte(a.AuthConfig.Secret), nil
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid or expired token").
			Mark(ierr.ErrUnauthenticated)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ierr.NewError("invalid token claims").
			WithHint("Invalid token claims").
			Mark(ierr.ErrUnauthenticated)
	}

	userID, _ := claims["user_id"].(string)
	tenantID, _ := claims["tenant_id"].(string)
	sessionID, _ := claims["sid"].(string)
	if userID == "" || tenantID == "" || sessionID == "" {
		return nil, ierr.NewError("token missing required claims").
			WithHint("Invalid token claims").
			Mark(ierr.ErrUnauthenticated)
	}

	result := &Claims{
		UserID:    userID,
		TenantID:  tenantID,
		SessionID: sessionID,
	}
	if exp, ok := claims["exp"].(float64); ok {
		result.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	}
	return result, nil
}
