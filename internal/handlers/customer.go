// internal/handlers/customer.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/incorpora/onboarding-backend/internal/models"
	"github.com/incorpora/onboarding-backend/internal/services"
	"github.com/incorpora/onboarding-backend/internal/utils"
)

type CustomerHandler struct {
	customerService *services.CustomerService
}

func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// POST /customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	performedBy, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	customer, err := h.customerService.CreateCustomer(&req, performedBy)
	if err != nil {
		if errors.Is(err, services.ErrCustomerEmailExists) {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, customer)
}

// GET /customers
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	// Agents only see their assigned customers; admins see everyone.
	var agentFilter *uuid.UUID
	if userType, _ := utils.GetUserTypeFromContext(c); userType == string(models.UserTypeAgent) {
		if agentID, ok := currentUserID(c); ok {
			agentFilter = &agentID
		}
	}

	customers, total, err := h.customerService.ListCustomers(agentFilter, params)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch customers")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(customers, total, params))
}

// GET /customers/:id
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid customer ID", nil)
		return
	}

	customer, err := h.customerService.GetCustomer(id)
	if err != nil {
		utils.NotFoundResponse(c, "Customer")
		return
	}

	utils.SuccessResponse(c, customer)
}

// POST /customers/:id/onboarding
func (h *CustomerHandler) SubmitOnboardingDetails(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid customer ID", nil)
		return
	}

	if !h.canAccessCustomer(c, id) {
		utils.ForbiddenResponse(c, "")
		return
	}

	var req services.OnboardingDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	customer, err := h.customerService.SubmitOnboardingDetails(id, &req)
	if err != nil {
		respondApplicationError(c, err)
		return
	}

	utils.SuccessResponse(c, customer)
}

// canAccessCustomer allows staff, or the customer acting on their own record.
func (h *CustomerHandler) canAccessCustomer(c *gin.Context, customerID uuid.UUID) bool {
	userType, _ := utils.GetUserTypeFromContext(c)
	if userType == string(models.UserTypeAdmin) || userType == string(models.UserTypeAgent) {
		return true
	}

	userID, ok := currentUserID(c)
	if !ok {
		return false
	}

	customer, err := h.customerService.GetCustomerByUser(userID)
	if err != nil {
		return false
	}
	return customer.ID == customerID
}
