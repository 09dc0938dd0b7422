package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/service"
	"github.com/socialdesk/socialdesk/internal/types"
)

type SubscriptionHandler struct {
	service service.SubscriptionService
	log     *logger.Logger
}

func NewSubscriptionHandler(service service.SubscriptionService, log *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{service: service, log: log}
}

// @Summary Create subscription
// @Description Subscribe the tenant to a plan; a tenant has at most one current subscription
// @Tags Billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subscription body dto.CreateSubscriptionRequest true "Subscription Request"
// @Success 201 {object} dto.SubscriptionResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /billing/subscriptions [post]
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind subscription request", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateSubscription(c.Request.Context(), req)
	if err != nil {
		h.log.Errorw("failed to create subscription", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get current subscription
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /billing/subscriptions/current [get]
func (h *SubscriptionHandler) GetCurrentSubscription(c *gin.Context) {
	resp, err := h.service.GetCurrentSubscription(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get subscription
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Router /billing/subscriptions/{id} [get]
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("subscription ID is required").
			WithHint("Please provide a valid subscription ID").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetSubscription(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List subscriptions
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Param filter query types.SubscriptionFilter false "Filter"
// @Success 200 {object} dto.ListSubscriptionsResponse
// @Router /billing/subscriptions [get]
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	filter := types.NewSubscriptionFilter()
	if !bindQuery(c, filter) {
		return
	}

	resp, err := h.service.ListSubscriptions(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Cancel subscription
// @Description Cancel now, or at the end of the current period
// @Tags Billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Param request body dto.CancelSubscriptionRequest true "Cancel"
// @Success 200 {object} dto.SubscriptionResponse
// @Router /billing/subscriptions/{id}/cancel [post]
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	var req dto.CancelSubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CancelSubscription(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Reactivate subscription
// @Description Undo a cancellation scheduled for the period end
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /billing/subscriptions/{id}/reactivate [post]
func (h *SubscriptionHandler) ReactivateSubscription(c *gin.Context) {
	resp, err := h.service.ReactivateSubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Change plan
// @Tags Billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subscription ID"
// @Param request body dto.ChangePlanRequest true "Plan"
// @Success 200 {object} dto.SubscriptionResponse
// @Router /billing/subscriptions/{id}/change-plan [post]
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	var req dto.ChangePlanRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.ChangePlan(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Expire due subscriptions
// @Description Ends every cancellation scheduled for a period that is over, across tenants
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ExpireSubscriptionsRequest false "Sweep time"
// @Success 200 {object} dto.ExpireSubscriptionsResponse
// @Router /admin/subscriptions/expire [post]
func (h *SubscriptionHandler) ExpireDueSubscriptions(c *gin.Context) {
	var req dto.ExpireSubscriptionsRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	now := time.Now().UTC()
	if req.Now != nil {
		now = req.Now.UTC()
	}

	resp, err := h.service.ExpireDueSubscriptions(c.Request.Context(), now)
	if err != nil {
		h.log.Errorw("failed to expire subscriptions", "error", err)
		c.Error(err)
		return
	}

	h.log.Infow("expired due subscriptions", "count", len(resp.Expired))
	c.JSON(http.StatusOK, resp)
}
