package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/service"
)

type FeatureFlagHandler struct {
	service service.FeatureFlagService
	log     *logger.Logger
}

func NewFeatureFlagHandler(service service.FeatureFlagService, log *logger.Logger) *FeatureFlagHandler {
	return &FeatureFlagHandler{service: service, log: log}
}

// @Summary Evaluate feature flags
// @Description Every flag resolved for the caller's tenant
// @Tags FeatureFlags
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.EvaluateFeatureFlagsResponse
// @Router /feature-flags [get]
func (h *FeatureFlagHandler) Evaluate(c *gin.Context) {
	resp, err := h.service.Evaluate(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Create feature flag
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateFeatureFlagRequest true "Flag"
// @Success 201 {object} dto.FeatureFlagResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /admin/feature-flags [post]
func (h *FeatureFlagHandler) CreateFeatureFlag(c *gin.Context) {
	var req dto.CreateFeatureFlagRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateFeatureFlag(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary List feature flags
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.FeatureFlagResponse
// @Router /admin/feature-flags [get]
func (h *FeatureFlagHandler) ListFeatureFlags(c *gin.Context) {
	resp, err := h.service.ListFeatureFlags(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get feature flag
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Flag ID"
// @Success 200 {object} dto.FeatureFlagResponse
// @Router /admin/feature-flags/{id} [get]
func (h *FeatureFlagHandler) GetFeatureFlag(c *gin.Context) {
	resp, err := h.service.GetFeatureFlag(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Update feature flag
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Flag ID"
// @Param request body dto.UpdateFeatureFlagRequest true "Flag"
// @Success 200 {object} dto.FeatureFlagResponse
// @Router /admin/feature-flags/{id} [put]
func (h *FeatureFlagHandler) UpdateFeatureFlag(c *gin.Context) {
	var req dto.UpdateFeatureFlagRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateFeatureFlag(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Delete feature flag
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Flag ID"
// @Success 204
// @Router /admin/feature-flags/{id} [delete]
func (h *FeatureFlagHandler) DeleteFeatureFlag(c *gin.Context) {
	if err := h.service.DeleteFeatureFlag(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
