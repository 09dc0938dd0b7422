package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/service"
	"github.com/socialdesk/socialdesk/internal/types"
)

type UserHandler struct {
	userService service.UserService
	logger      *logger.Logger
}

func NewUserHandler(userService service.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// @Summary Get current user
// @Description Get the authenticated user with its tenant
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MeResponse
// @Failure 401 {object} ierr.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	resp, err := h.userService.GetMe(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List users
// @Description List the members of the tenant
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param filter query types.UserFilter false "Filter"
// @Success 200 {object} dto.ListUsersResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	filter := types.NewUserFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.userService.ListUsers(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Invite user
// @Description Add a user to the tenant, counted against the team_members limit
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.InviteUserRequest true "Invite request"
// @Success 201 {object} dto.UserResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /users [post]
func (h *UserHandler) InviteUser(c *gin.Context) {
	var req dto.InviteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.userService.InviteUser(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Update user role
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRoleRequest true "Role"
// @Success 200 {object} dto.UserResponse
// @Router /users/{id}/role [put]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req dto.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.userService.UpdateRole(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Remove user
// @Description Delete the user and revoke its sessions
// @Tags Users
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204
// @Router /users/{id} [delete]
func (h *UserHandler) RemoveUser(c *gin.Context) {
	if err := h.userService.RemoveUser(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
