package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/service"
	"github.com/socialdesk/socialdesk/internal/types"
)

type InvoiceHandler struct {
	service service.InvoiceService
	log     *logger.Logger
}

func NewInvoiceHandler(service service.InvoiceService, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{service: service, log: log}
}

// @Summary List invoices
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Param filter query types.InvoiceFilter false "Filter"
// @Success 200 {object} dto.ListInvoicesResponse
// @Router /billing/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	filter := types.NewInvoiceFilter()
	if !bindQuery(c, filter) {
		return
	}

	resp, err := h.service.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get invoice
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Router /billing/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	resp, err := h.service.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get invoice download link
// @Description Presigned link to the invoice pdf, rendered on first request
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceURLResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /billing/invoices/{id}/download-url [get]
func (h *InvoiceHandler) GetDownloadURL(c *gin.Context) {
	resp, err := h.service.GetDownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Download invoice pdf
// @Tags Billing
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {file} file
// @Router /billing/invoices/{id}/pdf [get]
func (h *InvoiceHandler) GetInvoicePDF(c *gin.Context) {
	id := c.Param("id")
	data, err := h.service.GetInvoicePDF(c.Request.Context(), id)
	if err != nil {
		h.log.Errorw("failed to render invoice pdf", "error", err, "invoice_id", id)
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", data)
}

// @Summary Email invoice
// @Description Send the invoice link to the tenant billing address
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /billing/invoices/{id}/send [post]
func (h *InvoiceHandler) SendInvoice(c *gin.Context) {
	if err := h.service.SendInvoice(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "invoice sent"})
}

// @Summary Mark invoice paid
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Param request body dto.MarkInvoicePaidRequest false "Payment reference"
// @Success 200 {object} dto.InvoiceResponse
// @Router /admin/invoices/{id}/mark-paid [post]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	var req dto.MarkInvoicePaidRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.MarkPaid(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Void invoice
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /admin/invoices/{id}/void [post]
func (h *InvoiceHandler) VoidInvoice(c *gin.Context) {
	resp, err := h.service.VoidInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
