package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/service"
	"github.com/socialdesk/socialdesk/internal/types"
)

type WorkspaceHandler struct {
	service service.WorkspaceService
	log     *logger.Logger
}

func NewWorkspaceHandler(service service.WorkspaceService, log *logger.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{service: service, log: log}
}

// @Summary Create workspace
// @Tags Workspaces
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateWorkspaceRequest true "Workspace"
// @Success 201 {object} dto.WorkspaceResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /workspaces [post]
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	var req dto.CreateWorkspaceRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateWorkspace(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Get workspace
// @Tags Workspaces
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workspace ID"
// @Success 200 {object} dto.WorkspaceResponse
// @Router /workspaces/{id} [get]
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	resp, err := h.service.GetWorkspace(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List workspaces
// @Tags Workspaces
// @Produce json
// @Security BearerAuth
// @Param filter query types.WorkspaceFilter false "Filter"
// @Success 200 {object} dto.ListWorkspacesResponse
// @Router /workspaces [get]
func (h *WorkspaceHandler) ListWorkspaces(c *gin.Context) {
	filter := types.NewWorkspaceFilter()
	if !bindQuery(c, filter) {
		return
	}

	resp, err := h.service.ListWorkspaces(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Update workspace
// @Tags Workspaces
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workspace ID"
// @Param request body dto.UpdateWorkspaceRequest true "Workspace"
// @Success 200 {object} dto.WorkspaceResponse
// @Router /workspaces/{id} [put]
func (h *WorkspaceHandler) UpdateWorkspace(c *gin.Context) {
	var req dto.UpdateWorkspaceRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateWorkspace(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Delete workspace
// @Description Delete a workspace with no connected social accounts
// @Tags Workspaces
// @Security BearerAuth
// @Param id path string true "Workspace ID"
// @Success 204
// @Failure 400 {object} ierr.ErrorResponse
// @Router /workspaces/{id} [delete]
func (h *WorkspaceHandler) DeleteWorkspace(c *gin.Context) {
	if err := h.service.DeleteWorkspace(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Create team
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workspace ID"
// @Param request body dto.CreateTeamRequest true "Team"
// @Success 201 {object} dto.TeamResponse
// @Router /workspaces/{id}/teams [post]
func (h *WorkspaceHandler) CreateTeam(c *gin.Context) {
	var req dto.CreateTeamRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateTeam(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary List teams
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workspace ID"
// @Success 200 {array} dto.TeamResponse
// @Router /workspaces/{id}/teams [get]
func (h *WorkspaceHandler) ListTeams(c *gin.Context) {
	resp, err := h.service.ListTeams(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get team
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param team_id path string true "Team ID"
// @Success 200 {object} dto.TeamResponse
// @Router /teams/{team_id} [get]
func (h *WorkspaceHandler) GetTeam(c *gin.Context) {
	resp, err := h.service.GetTeam(c.Request.Context(), c.Param("team_id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Update team
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param team_id path string true "Team ID"
// @Param request body dto.UpdateTeamRequest true "Team"
// @Success 200 {object} dto.TeamResponse
// @Router /teams/{team_id} [put]
func (h *WorkspaceHandler) UpdateTeam(c *gin.Context) {
	var req dto.UpdateTeamRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateTeam(c.Request.Context(), c.Param("team_id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Delete team
// @Tags Teams
// @Security BearerAuth
// @Param team_id path string true "Team ID"
// @Success 204
// @Router /teams/{team_id} [delete]
func (h *WorkspaceHandler) DeleteTeam(c *gin.Context) {
	if err := h.service.DeleteTeam(c.Request.Context(), c.Param("team_id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Add team member
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param team_id path string true "Team ID"
// @Param request body dto.AddTeamMemberRequest true "Member"
// @Success 201 {object} workspace.TeamMember
// @Router /teams/{team_id}/members [post]
func (h *WorkspaceHandler) AddTeamMember(c *gin.Context) {
	var req dto.AddTeamMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.AddTeamMember(c.Request.Context(), c.Param("team_id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Update team member
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param team_id path string true "Team ID"
// @Param user_id path string true "User ID"
// @Param request body dto.UpdateTeamMemberRequest true "Member"
// @Success 200 {object} workspace.TeamMember
// @Router /teams/{team_id}/members/{user_id} [put]
func (h *WorkspaceHandler) UpdateTeamMember(c *gin.Context) {
	var req dto.UpdateTeamMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateTeamMember(c.Request.Context(), c.Param("team_id"), c.Param("user_id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Remove team member
// @Tags Teams
// @Security BearerAuth
// @Param team_id path string true "Team ID"
// @Param user_id path string true "User ID"
// @Success 204
// @Router /teams/{team_id}/members/{user_id} [delete]
func (h *WorkspaceHandler) RemoveTeamMember(c *gin.Context) {
	if err := h.service.RemoveTeamMember(c.Request.Context(), c.Param("team_id"), c.Param("user_id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
