package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/service"
	"github.com/socialdesk/socialdesk/internal/types"
)

// maxMediaUpload matches the Cloud API limit for documents
const maxMediaUpload = 100 << 20

type WhatsAppHandler struct {
	service service.WhatsAppService
	log     *logger.Logger
}

func NewWhatsAppHandler(service service.WhatsAppService, log *logger.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{service: service, log: log}
}

// @Summary Register phone number
// @Description Register a Cloud API number on a workspace, counted against whatsapp_numbers
// @Tags WhatsApp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RegisterPhoneNumberRequest true "Number"
// @Success 201 {object} dto.PhoneNumberResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /whatsapp/numbers [post]
func (h *WhatsAppHandler) RegisterPhoneNumber(c *gin.Context) {
	var req dto.RegisterPhoneNumberRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.RegisterPhoneNumber(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary List phone numbers
// @Tags WhatsApp
// @Produce json
// @Security BearerAuth
// @Param workspace_id query string false "Workspace ID"
// @Success 200 {array} dto.PhoneNumberResponse
// @Router /whatsapp/numbers [get]
func (h *WhatsAppHandler) ListPhoneNumbers(c *gin.Context) {
	resp, err := h.service.ListPhoneNumbers(c.Request.Context(), c.Query("workspace_id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Remove phone number
// @Tags WhatsApp
// @Security BearerAuth
// @Param id path string true "Number ID"
// @Success 204
// @Router /whatsapp/numbers/{id} [delete]
func (h *WhatsAppHandler) RemovePhoneNumber(c *gin.Context) {
	if err := h.service.RemovePhoneNumber(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Send message
// @Description Send a text, template or media message, counted against whatsapp_messages_per_month
// @Tags WhatsApp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Number ID"
// @Param request body dto.SendWhatsAppMessageRequest true "Message"
// @Success 201 {object} dto.WhatsAppMessageResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Failure 429 {object} ierr.ErrorResponse
// @Router /whatsapp/numbers/{id}/messages [post]
func (h *WhatsAppHandler) SendMessage(c *gin.Context) {
	var req dto.SendWhatsAppMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.SendMessage(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.log.Errorw("failed to send whatsapp message", "error", err, "number_id", c.Param("id"))
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary List messages
// @Description Inbox of a number, newest first
// @Tags WhatsApp
// @Produce json
// @Security BearerAuth
// @Param id path string true "Number ID"
// @Param filter query types.WhatsAppMessageFilter false "Filter"
// @Success 200 {object} dto.ListWhatsAppMessagesResponse
// @Router /whatsapp/numbers/{id}/messages [get]
func (h *WhatsAppHandler) ListMessages(c *gin.Context) {
	filter := types.NewWhatsAppMessageFilter()
	if !bindQuery(c, filter) {
		return
	}

	resp, err := h.service.ListMessages(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get conversation
// @Description Exchange with one contact, oldest first
// @Tags WhatsApp
// @Produce json
// @Security BearerAuth
// @Param id path string true "Number ID"
// @Param contact path string true "Contact wa_id"
// @Success 200 {object} dto.ListWhatsAppMessagesResponse
// @Router /whatsapp/numbers/{id}/conversations/{contact} [get]
func (h *WhatsAppHandler) GetConversation(c *gin.Context) {
	filter := types.NewWhatsAppMessageFilter()
	if !bindQuery(c, filter) {
		return
	}

	resp, err := h.service.GetConversation(c.Request.Context(), c.Param("id"), c.Param("contact"), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Mark message read
// @Tags WhatsApp
// @Security BearerAuth
// @Param id path string true "Number ID"
// @Param wa_message_id path string true "WhatsApp message ID"
// @Success 204
// @Router /whatsapp/numbers/{id}/messages/{wa_message_id}/read [post]
func (h *WhatsAppHandler) MarkRead(c *gin.Context) {
	if err := h.service.MarkRead(c.Request.Context(), c.Param("id"), c.Param("wa_message_id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Upload media
// @Description Upload a file to the Cloud API and get a media id to send
// @Tags WhatsApp
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Number ID"
// @Param file formData file true "Media file"
// @Success 201 {object} dto.UploadMediaResponse
// @Router /whatsapp/numbers/{id}/media [post]
func (h *WhatsAppHandler) UploadMedia(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("A file field is required").
			Mark(ierr.ErrValidation))
		return
	}
	if fileHeader.Size > maxMediaUpload {
		c.Error(ierr.NewErrorf("media of %d bytes exceeds limit", fileHeader.Size).
			WithHint("File is too large").
			WithReportableDetails(map[string]any{"max_bytes": maxMediaUpload}).
			Mark(ierr.ErrValidation))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Could not read the uploaded file").
			Mark(ierr.ErrValidation))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Could not read the uploaded file").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UploadMedia(c.Request.Context(), c.Param("id"), data, fileHeader.Filename)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Sync templates
// @Description Pull message templates from the business account, removing ones no longer there
// @Tags WhatsApp
// @Produce json
// @Security BearerAuth
// @Param id path string true "Number ID"
// @Success 200 {object} dto.SyncTemplatesResponse
// @Router /whatsapp/numbers/{id}/templates/sync [post]
func (h *WhatsAppHandler) SyncTemplates(c *gin.Context) {
	resp, err := h.service.SyncTemplates(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List templates
// @Tags WhatsApp
// @Produce json
// @Security BearerAuth
// @Param id path string true "Number ID"
// @Param filter query types.WhatsAppTemplateFilter false "Filter"
// @Success 200 {object} dto.ListWhatsAppTemplatesResponse
// @Router /whatsapp/numbers/{id}/templates [get]
func (h *WhatsAppHandler) ListTemplates(c *gin.Context) {
	filter := types.NewWhatsAppTemplateFilter()
	if !bindQuery(c, filter) {
		return
	}

	resp, err := h.service.ListTemplates(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
