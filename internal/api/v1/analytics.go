package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/service"
	"github.com/socialdesk/socialdesk/internal/types"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	auditService     service.AuditService
	log              *logger.Logger
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService, auditService service.AuditService, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, auditService: auditService, log: log}
}

// @Summary Track event
// @Description Record a product analytics event for the caller
// @Tags Analytics
// @Accept json
// @Security BearerAuth
// @Param request body dto.TrackEventRequest true "Event"
// @Success 202
// @Router /analytics/events [post]
func (h *AnalyticsHandler) Track(c *gin.Context) {
	var req dto.TrackEventRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.analyticsService.Track(c.Request.Context(), req); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusAccepted)
}

// @Summary Analytics summary
// @Description Event counts per kind and name in a time range
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param filter query types.AnalyticsSummaryFilter false "Range"
// @Success 200 {object} dto.AnalyticsSummaryResponse
// @Router /analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	var filter types.AnalyticsSummaryFilter
	if !bindQuery(c, &filter) {
		return
	}

	resp, err := h.analyticsService.Summary(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List audit logs
// @Description Audit trail of the caller's tenant, newest first
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param filter query types.AuditLogFilter false "Filter"
// @Success 200 {object} dto.ListAuditLogsResponse
// @Router /audit-logs [get]
func (h *AnalyticsHandler) ListAuditLogs(c *gin.Context) {
	filter := types.NewAuditLogFilter()
	if !bindQuery(c, filter) {
		return
	}

	resp, err := h.auditService.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
