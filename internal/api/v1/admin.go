package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/service"
	"github.com/socialdesk/socialdesk/internal/types"
)

// AdminHandler serves the back office. Every route is behind the super admin guard.
type AdminHandler struct {
	adminService  service.AdminService
	tenantService service.TenantService
	log           *logger.Logger
}

func NewAdminHandler(adminService service.AdminService, tenantService service.TenantService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{adminService: adminService, tenantService: tenantService, log: log}
}

// @Summary Dashboard stats
// @Description Tenant counts, active subscriptions, MRR and messages this month
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardStatsResponse
// @Router /admin/dashboard [get]
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	resp, err := h.adminService.GetDashboardStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List tenants
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param filter query types.TenantFilter false "Filter"
// @Success 200 {object} dto.ListTenantsResponse
// @Router /admin/tenants [get]
func (h *AdminHandler) ListTenants(c *gin.Context) {
	filter := types.NewTenantFilter()
	if !bindQuery(c, filter) {
		return
	}

	resp, err := h.tenantService.ListTenants(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get tenant
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Router /admin/tenants/{id} [get]
func (h *AdminHandler) GetTenant(c *gin.Context) {
	resp, err := h.tenantService.GetTenantByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Suspend tenant
// @Description Suspended tenants cannot sign in or use existing sessions
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Param request body dto.SuspendTenantRequest false "Reason"
// @Success 200 {object} dto.TenantResponse
// @Router /admin/tenants/{id}/suspend [post]
func (h *AdminHandler) SuspendTenant(c *gin.Context) {
	var req dto.SuspendTenantRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	resp, err := h.tenantService.SuspendTenant(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Reactivate tenant
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Router /admin/tenants/{id}/reactivate [post]
func (h *AdminHandler) ReactivateTenant(c *gin.Context) {
	resp, err := h.tenantService.ReactivateTenant(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List subscriptions across tenants
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param filter query types.SubscriptionFilter false "Filter"
// @Success 200 {object} dto.ListSubscriptionsResponse
// @Router /admin/subscriptions [get]
func (h *AdminHandler) ListSubscriptions(c *gin.Context) {
	filter := types.NewSubscriptionFilter()
	if !bindQuery(c, filter) {
		return
	}

	resp, err := h.adminService.ListSubscriptions(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List invoices across tenants
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param filter query types.InvoiceFilter false "Filter"
// @Success 200 {object} dto.ListInvoicesResponse
// @Router /admin/invoices [get]
func (h *AdminHandler) ListInvoices(c *gin.Context) {
	filter := types.NewInvoiceFilter()
	if !bindQuery(c, filter) {
		return
	}

	resp, err := h.adminService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List audit logs across tenants
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param filter query types.AuditLogFilter false "Filter"
// @Success 200 {object} dto.ListAuditLogsResponse
// @Router /admin/audit-logs [get]
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	filter := types.NewAuditLogFilter()
	if !bindQuery(c, filter) {
		return
	}

	resp, err := h.adminService.ListAuditLogs(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
