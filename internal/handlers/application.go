// internal/handlers/application.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/incorpora/onboarding-backend/internal/models"
	"github.com/incorpora/onboarding-backend/internal/services"
	"github.com/incorpora/onboarding-backend/internal/utils"
	"github.com/incorpora/onboarding-backend/internal/workflow"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
	}
}

// POST /applications
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	performedBy, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	app, err := h.applicationService.CreateApplication(&req, performedBy)
	if err != nil {
		respondApplicationError(c, err)
		return
	}

	utils.CreatedResponse(c, app)
}

// GET /applications
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	apps, total, err := h.applicationService.ListApplications(params)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch applications")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(apps, total, params))
}

// GET /applications/:id
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	app, err := h.applicationService.GetApplication(id)
	if err != nil {
		respondApplicationError(c, err)
		return
	}

	utils.SuccessResponse(c, app)
}

// PATCH /applications/:id/steps
func (h *ApplicationHandler) SetStepStatus(c *gin.Context) {
	performedBy, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	var req services.SetStepStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	app, err := h.applicationService.SetStepStatus(id, &req, performedBy)
	if err != nil {
		respondApplicationError(c, err)
		return
	}

	utils.SuccessResponse(c, app)
}

// POST /applications/:id/notes
func (h *ApplicationHandler) AddNote(c *gin.Context) {
	performedBy, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	var req struct {
		Message string `json:"message" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	app, err := h.applicationService.AddNote(id, req.Message, performedBy)
	if err != nil {
		respondApplicationError(c, err)
		return
	}

	utils.SuccessResponse(c, app)
}

// POST /applications/:id/visa-members
func (h *ApplicationHandler) AddVisaMember(c *gin.Context) {
	performedBy, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	var req struct {
		MemberID string `json:"member_id" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	app, err := h.applicationService.AddVisaMember(id, req.MemberID, performedBy)
	if err != nil {
		respondApplicationError(c, err)
		return
	}

	utils.CreatedResponse(c, app)
}

// PATCH /applications/:id/visa-members/:memberId
func (h *ApplicationHandler) SetVisaMemberStatus(c *gin.Context) {
	performedBy, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	memberID := c.Param("memberId")

	var req struct {
		Status models.VisaMemberStatus `json:"status" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	app, err := h.applicationService.SetVisaMemberStatus(id, memberID, req.Status, performedBy)
	if err != nil {
		respondApplicationError(c, err)
		return
	}

	utils.SuccessResponse(c, app)
}

// POST /applications/:id/review
func (h *ApplicationHandler) ReviewApplication(c *gin.Context) {
	performedBy, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	var req services.ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	app, err := h.applicationService.ReviewApplication(id, &req, performedBy)
	if err != nil {
		respondApplicationError(c, err)
		return
	}

	utils.SuccessResponse(c, app)
}

// POST /applications/:id/reconcile
func (h *ApplicationHandler) ReconcileAutoApproval(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	app, err := h.applicationService.ReconcileAutoApproval(id)
	if err != nil {
		respondApplicationError(c, err)
		return
	}

	utils.SuccessResponse(c, app)
}

// respondApplicationError maps workflow and service errors onto the API
// error vocabulary.
func respondApplicationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrApplicationNotFound):
		utils.NotFoundResponse(c, "Application")
	case errors.Is(err, services.ErrCustomerNotFound):
		utils.NotFoundResponse(c, "Customer")
	case errors.Is(err, services.ErrDuplicateApplication):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, workflow.ErrApplicationLocked):
		utils.LockedResponse(c, "Application is completed and locked")
	case errors.Is(err, workflow.ErrStepNotFound):
		utils.NotFoundResponse(c, "Step")
	case errors.Is(err, workflow.ErrMemberNotFound):
		utils.NotFoundResponse(c, "Visa member")
	case errors.Is(err, workflow.ErrDuplicateMember):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, workflow.ErrInvalidStepStatus),
		errors.Is(err, workflow.ErrInvalidMemberStatus),
		errors.Is(err, workflow.ErrInvalidDecision),
		errors.Is(err, workflow.ErrUnknownJurisdiction):
		utils.BadRequestResponse(c, err.Error(), nil)
	default:
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}
