// internal/handlers/dashboard.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/incorpora/onboarding-backend/internal/models"
	"github.com/incorpora/onboarding-backend/internal/services"
	"github.com/incorpora/onboarding-backend/internal/utils"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	customerService  *services.CustomerService
}

func NewDashboardHandler(dashboardService *services.DashboardService, customerService *services.CustomerService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		customerService:  customerService,
	}
}

// GET /dashboard/admin
func (h *DashboardHandler) GetAdminDashboard(c *gin.Context) {
	dashboard, err := h.dashboardService.GetAdminDashboard()
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to load admin dashboard")
		return
	}

	utils.SuccessResponse(c, dashboard)
}

// GET /dashboard/agent/:agentId
func (h *DashboardHandler) GetAgentDashboard(c *gin.Context) {
	agentID, err := uuid.Parse(c.Param("agentId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid agent ID", nil)
		return
	}

	// Agents may only view their own dashboard.
	userType, _ := utils.GetUserTypeFromContext(c)
	if userType != string(models.UserTypeAdmin) {
		userID, ok := currentUserID(c)
		if !ok || userID != agentID {
			utils.ForbiddenResponse(c, "")
			return
		}
	}

	dashboard, err := h.dashboardService.GetAgentDashboard(agentID)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to load agent dashboard")
		return
	}

	utils.SuccessResponse(c, dashboard)
}

// GET /dashboard/customer
func (h *DashboardHandler) GetCustomerDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	customer, err := h.customerService.GetCustomerByUser(userID)
	if err != nil {
		utils.NotFoundResponse(c, "Customer")
		return
	}

	dashboard, err := h.dashboardService.GetCustomerDashboard(customer.ID)
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			utils.NotFoundResponse(c, "Application")
			return
		}
		utils.InternalErrorResponse(c, "Failed to load customer dashboard")
		return
	}

	utils.SuccessResponse(c, dashboard)
}
