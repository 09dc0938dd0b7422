package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/service"
)

type PaymentMethodHandler struct {
	service service.PaymentMethodService
	log     *logger.Logger
}

func NewPaymentMethodHandler(service service.PaymentMethodService, log *logger.Logger) *PaymentMethodHandler {
	return &PaymentMethodHandler{service: service, log: log}
}

// @Summary Add payment method
// @Description Attach a gateway payment method; the first method becomes the default
// @Tags Billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddPaymentMethodRequest true "Payment method"
// @Success 201 {object} dto.PaymentMethodResponse
// @Router /billing/payment-methods [post]
func (h *PaymentMethodHandler) AddPaymentMethod(c *gin.Context) {
	var req dto.AddPaymentMethodRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.AddPaymentMethod(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary List payment methods
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PaymentMethodResponse
// @Router /billing/payment-methods [get]
func (h *PaymentMethodHandler) ListPaymentMethods(c *gin.Context) {
	resp, err := h.service.ListPaymentMethods(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Set default payment method
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment method ID"
// @Success 200 {object} dto.PaymentMethodResponse
// @Router /billing/payment-methods/{id}/default [post]
func (h *PaymentMethodHandler) SetDefault(c *gin.Context) {
	resp, err := h.service.SetDefault(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Remove payment method
// @Description The only method cannot be removed; removing the default promotes another one
// @Tags Billing
// @Security BearerAuth
// @Param id path string true "Payment method ID"
// @Success 204
// @Failure 422 {object} ierr.ErrorResponse
// @Router /billing/payment-methods/{id} [delete]
func (h *PaymentMethodHandler) RemovePaymentMethod(c *gin.Context) {
	if err := h.service.RemovePaymentMethod(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
