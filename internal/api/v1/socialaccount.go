package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/service"
	"github.com/socialdesk/socialdesk/internal/types"
)

type SocialAccountHandler struct {
	service service.SocialAccountService
	log     *logger.Logger
}

func NewSocialAccountHandler(service service.SocialAccountService, log *logger.Logger) *SocialAccountHandler {
	return &SocialAccountHandler{service: service, log: log}
}

// @Summary Connect social account
// @Description Link a profile to a workspace, counted against the social_accounts limit
// @Tags SocialAccounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workspace ID"
// @Param request body dto.ConnectSocialAccountRequest true "Account"
// @Success 201 {object} dto.SocialAccountResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /workspaces/{id}/social-accounts [post]
func (h *SocialAccountHandler) ConnectSocialAccount(c *gin.Context) {
	var req dto.ConnectSocialAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.ConnectSocialAccount(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary List social accounts
// @Tags SocialAccounts
// @Produce json
// @Security BearerAuth
// @Param filter query types.SocialAccountFilter false "Filter"
// @Success 200 {object} dto.ListSocialAccountsResponse
// @Router /social-accounts [get]
func (h *SocialAccountHandler) ListSocialAccounts(c *gin.Context) {
	filter := types.NewSocialAccountFilter()
	if !bindQuery(c, filter) {
		return
	}

	resp, err := h.service.ListSocialAccounts(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Disconnect social account
// @Tags SocialAccounts
// @Security BearerAuth
// @Param id path string true "Social account ID"
// @Success 204
// @Router /social-accounts/{id} [delete]
func (h *SocialAccountHandler) DisconnectSocialAccount(c *gin.Context) {
	if err := h.service.DisconnectSocialAccount(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
