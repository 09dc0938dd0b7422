package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/api/cron"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	v1 "github.com/socialdesk/socialdesk/internal/api/v1"
	"github.com/socialdesk/socialdesk/internal/config"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/metrics"
	"github.com/socialdesk/socialdesk/internal/rbac"
	"github.com/socialdesk/socialdesk/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rejectingAuthService struct {
	service.AuthService
}

func (s *rejectingAuthService) Authenticate(ctx context.Context, token string) (*service.Principal, error) {
	return nil, ierr.NewError("invalid token").
		WithHint("Invalid token").
		Mark(ierr.ErrUnauthenticated)
}

type expiringSubscriptionService struct {
	service.SubscriptionService
	calls int
}

func (s *expiringSubscriptionService) ExpireDueSubscriptions(ctx context.Context, now time.Time) (*dto.ExpireSubscriptionsResponse, error) {
	s.calls++
	return &dto.ExpireSubscriptionsResponse{Expired: []string{"subs_1"}}, nil
}

func newTestRouter(t *testing.T, subs service.SubscriptionService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := config.GetDefaultConfig()
	cfg.Server.CronSecret = "cron-secret"
	log := logger.NewNoopLogger()

	rbacService, err := rbac.NewRBACService()
	require.NoError(t, err)

	handlers := Handlers{
		Health:           v1.NewHealthHandler(),
		CronSubscription: cron.NewSubscriptionHandler(subs, log),
	}
	return NewRouter(handlers, cfg, log, &rejectingAuthService{}, rbacService, metrics.NewMetrics(cfg))
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t, &expiringSubscriptionService{})

	w := serve(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "socialdesk_http_requests_total")
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t, &expiringSubscriptionService{})

	w := serve(r, http.MethodGet, "/api/v1/tenant", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.MethodGet, "/api/v1/admin/tenants", map[string]string{"Authorization": "Bearer bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCronRequiresSecret(t *testing.T) {
	subs := &expiringSubscriptionService{}
	r := newTestRouter(t, subs)

	w := serve(r, http.MethodPost, "/cron/subscriptions/expire", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.MethodPost, "/cron/subscriptions/expire", map[string]string{"X-Cron-Secret": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, subs.calls)

	w = serve(r, http.MethodPost, "/cron/subscriptions/expire", map[string]string{"X-Cron-Secret": "cron-secret"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, subs.calls)
	assert.Contains(t, w.Body.String(), "subs_1")
}
