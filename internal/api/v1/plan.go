package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/service"
)

type PlanHandler struct {
	service      service.PlanService
	usageService service.UsageService
	log          *logger.Logger
}

func NewPlanHandler(service service.PlanService, usageService service.UsageService, log *logger.Logger) *PlanHandler {
	return &PlanHandler{service: service, usageService: usageService, log: log}
}

// @Summary List plans
// @Description List the public plan catalog
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ListPlansResponse
// @Router /billing/plans [get]
func (h *PlanHandler) ListPublicPlans(c *gin.Context) {
	resp, err := h.service.ListPlans(c.Request.Context(), true)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get plan
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Param code path string true "Plan code"
// @Success 200 {object} dto.PlanResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /billing/plans/{code} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	resp, err := h.service.GetPlan(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get usage
// @Description Usage of every limit of the effective plan
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UsageResponse
// @Router /billing/usage [get]
func (h *PlanHandler) GetUsage(c *gin.Context) {
	resp, err := h.usageService.GetUsage(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List all plans
// @Description Back office listing, private plans included
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ListPlansResponse
// @Router /admin/plans [get]
func (h *PlanHandler) ListAllPlans(c *gin.Context) {
	resp, err := h.service.ListPlans(c.Request.Context(), false)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Upsert plan
// @Description Create a plan or update the plan with the same code
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpsertPlanRequest true "Plan"
// @Success 200 {object} dto.PlanResponse
// @Router /admin/plans [put]
func (h *PlanHandler) UpsertPlan(c *gin.Context) {
	var req dto.UpsertPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpsertPlan(c.Request.Context(), req)
	if err != nil {
		h.log.Errorw("failed to upsert plan", "error", err, "code", req.Code)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Set plan limit
// @Description Set one limit of a plan, -1 means unlimited
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Plan code"
// @Param request body dto.SetPlanLimitRequest true "Limit"
// @Success 200 {object} dto.PlanResponse
// @Router /admin/plans/{code}/limits [put]
func (h *PlanHandler) SetLimit(c *gin.Context) {
	var req dto.SetPlanLimitRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.SetLimit(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
