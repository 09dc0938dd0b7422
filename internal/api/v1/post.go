package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/service"
	"github.com/socialdesk/socialdesk/internal/types"
)

type PostHandler struct {
	service service.PostService
	log     *logger.Logger
}

func NewPostHandler(service service.PostService, log *logger.Logger) *PostHandler {
	return &PostHandler{service: service, log: log}
}

// @Summary Create post
// @Description Store a draft, or a scheduled post when scheduled_at is set
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workspace ID"
// @Param request body dto.CreatePostRequest true "Post"
// @Success 201 {object} dto.PostResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /workspaces/{id}/posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req dto.CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreatePost(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Get post
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} dto.PostResponse
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	resp, err := h.service.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List posts
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param filter query types.PostFilter false "Filter"
// @Success 200 {object} dto.ListPostsResponse
// @Router /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	filter := types.NewPostFilter()
	if !bindQuery(c, filter) {
		return
	}

	resp, err := h.service.ListPosts(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Update post
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body dto.UpdatePostRequest true "Post"
// @Success 200 {object} dto.PostResponse
// @Router /posts/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req dto.UpdatePostRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdatePost(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Schedule post
// @Description Schedule or reschedule a post, counted against scheduled_posts_per_month
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body dto.SchedulePostRequest true "Schedule"
// @Success 200 {object} dto.PostResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /posts/{id}/schedule [post]
func (h *PostHandler) SchedulePost(c *gin.Context) {
	var req dto.SchedulePostRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.SchedulePost(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Cancel post
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} dto.PostResponse
// @Router /posts/{id}/cancel [post]
func (h *PostHandler) CancelPost(c *gin.Context) {
	resp, err := h.service.CancelPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
