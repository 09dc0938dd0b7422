package cron

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/service"
)

// SubscriptionHandler handles subscription related cron jobs
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	logger              *logger.Logger
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(
	subscriptionService service.SubscriptionService,
	logger *logger.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		logger:              logger,
	}
}

// ExpireDueSubscriptions ends subscriptions cancelled at period end once the period is over
func (h *SubscriptionHandler) ExpireDueSubscriptions(c *gin.Context) {
	h.logger.Infow("starting subscription expiry cron job")

	resp, err := h.subscriptionService.ExpireDueSubscriptions(c.Request.Context(), time.Now().UTC())
	if err != nil {
		h.logger.Errorw("failed to expire due subscriptions", "error", err)
		c.Error(err)
		return
	}

	h.logger.Infow("completed subscription expiry cron job", "expired", len(resp.Expired))
	c.JSON(http.StatusOK, resp)
}
