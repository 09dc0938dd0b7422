package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/config"
	"github.com/socialdesk/socialdesk/internal/domain/tenant"
	"github.com/socialdesk/socialdesk/internal/domain/user"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/rbac"
	"github.com/socialdesk/socialdesk/internal/service"
	"github.com/socialdesk/socialdesk/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	service.AuthService
	principals map[string]*service.Principal
}

func (s *stubAuthService) Authenticate(ctx context.Context, token string) (*service.Principal, error) {
	if p, ok := s.principals[token]; ok {
		return p, nil
	}
	return nil, ierr.NewError("unknown token").
		WithHint("Session expired, sign in again").
		Mark(ierr.ErrUnauthenticated)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(log *logger.Logger, handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware, ErrorHandler(log))
	r.GET("/probe", append(handlers, func(c *gin.Context) {
		ctx := c.Request.Context()
		c.JSON(http.StatusOK, gin.H{
			"tenant_id":   types.GetTenantID(ctx),
			"user_id":     types.GetUserID(ctx),
			"session_id":  types.GetSessionID(ctx),
			"role":        types.GetUserRole(ctx),
			"super_admin": types.IsSuperAdmin(ctx),
		})
	})...)
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ierr.ErrorResponse {
	var resp ierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAuthenticateMiddleware(t *testing.T) {
	log := logger.NewNoopLogger()
	auth := &stubAuthService{principals: map[string]*service.Principal{
		"good": {
			User:      &user.User{ID: "user_1", Role: types.UserRoleAdmin, IsSuperAdmin: true},
			Tenant:    &tenant.Tenant{ID: "tenant_1"},
			SessionID: "sess_1",
		},
	}}
	r := newEngine(log, AuthenticateMiddleware(auth, log))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.header != "" {
				req.Header.Set(types.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(types.HeaderRequestID))
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(types.HeaderAuthorization, "Bearer good")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "tenant_1", body["tenant_id"])
	assert.Equal(t, "user_1", body["user_id"])
	assert.Equal(t, "sess_1", body["session_id"])
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, true, body["super_admin"])
}

func TestErrorHandlerRendersHintAndDetails(t *testing.T) {
	log := logger.NewNoopLogger()
	r := gin.New()
	r.Use(ErrorHandler(log))
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(ierr.NewError("second current subscription").
			WithHint("Tenant already has a current subscription").
			WithReportableDetails(map[string]any{"tenant_id": "tenant_1"}).
			Mark(ierr.ErrValidation))
	})
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(ierr.NewError("connection refused").Mark(ierr.ErrDatabase))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Tenant already has a current subscription", resp.Error.Display)
	assert.Equal(t, "tenant_1", resp.Error.Details["tenant_id"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "An unexpected error occurred", decodeError(t, rec).Error.Display)
}

func withRole(role types.UserRole, superAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := types.SetUserRole(c.Request.Context(), role)
		ctx = types.SetSuperAdmin(ctx, superAdmin)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func TestSuperAdminMiddleware(t *testing.T) {
	log := logger.NewNoopLogger()

	rec := httptest.NewRecorder()
	newEngine(log, withRole(types.UserRoleOwner, false), SuperAdminMiddleware(log)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	newEngine(log, withRole(types.UserRoleMember, true), SuperAdminMiddleware(log)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirePermission(t *testing.T) {
	log := logger.NewNoopLogger()
	rbacService, err := rbac.NewRBACService()
	require.NoError(t, err)
	pm := NewPermissionMiddleware(rbacService, log)

	tests := []struct {
		role   types.UserRole
		entity string
		action string
		status int
	}{
		{types.UserRoleOwner, "billing", rbac.ActionWrite, http.StatusOK},
		{types.UserRoleMember, "billing", rbac.ActionRead, http.StatusOK},
		{types.UserRoleMember, "billing", rbac.ActionWrite, http.StatusForbidden},
		{types.UserRoleMember, "audit_log", rbac.ActionRead, http.StatusForbidden},
		{"", "post", rbac.ActionRead, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		newEngine(log, withRole(tt.role, false), pm.RequirePermission(tt.entity, tt.action)).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))
		assert.Equal(t, tt.status, rec.Code, "%s %s %s", tt.role, tt.action, tt.entity)
	}
}

func TestCORSMiddleware(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Server.AllowedOrigins = []string{"https://app.socialdesk.test/"}

	r := gin.New()
	r.Use(CORSMiddleware(cfg))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.socialdesk.test")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.socialdesk.test", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.test")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
