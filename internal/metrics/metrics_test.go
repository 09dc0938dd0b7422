package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/socialdesk/socialdesk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusClass(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{200, "2xx"},
		{201, "2xx"},
		{302, "3xx"},
		{422, "4xx"},
		{503, "5xx"},
		{0, "unknown"},
		{700, "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusClass(tt.status), "status %d", tt.status)
	}
}

func TestObserveRequest(t *testing.T) {
	cfg := config.GetDefaultConfig()
	m := NewMetrics(cfg)

	m.ObserveRequest(http.MethodGet, "/api/v1/tenant", http.StatusOK, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/v1/tenant", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "/api/v1/posts", http.StatusUnprocessableEntity, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/api/v1/tenant", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.responsesTotal.WithLabelValues("2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.responsesTotal.WithLabelValues("4xx")))
}

func TestDisabledMetricsRecordNothing(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Metrics.Enabled = false
	m := NewMetrics(cfg)

	m.ObserveRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.responsesTotal.WithLabelValues("2xx")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.ObserveRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := NewMetrics(config.GetDefaultConfig())
	m.ObserveRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "socialdesk_http_requests_total"))
}
