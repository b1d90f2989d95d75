// internal/handlers/document.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/incorpora/onboarding-backend/internal/models"
	"github.com/incorpora/onboarding-backend/internal/services"
	"github.com/incorpora/onboarding-backend/internal/utils"
)

type DocumentHandler struct {
	documentService *services.DocumentService
}

func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// POST /documents (multipart form)
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	uploadedBy, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.UploadDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "File is required", nil)
		return
	}
	defer file.Close()

	doc, err := h.documentService.UploadDocument(&req, file, header, uploadedBy)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, doc)
}

// GET /documents/:id
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid document ID", nil)
		return
	}

	doc, err := h.documentService.GetDocument(id)
	if err != nil {
		utils.NotFoundResponse(c, "Document")
		return
	}

	utils.SuccessResponse(c, doc)
}

// GET /customers/:id/documents
func (h *DocumentHandler) ListCustomerDocuments(c *gin.Context) {
	h.listLinkedDocuments(c, models.LinkedModelCustomer)
}

// GET /applications/:id/documents
func (h *DocumentHandler) ListApplicationDocuments(c *gin.Context) {
	h.listLinkedDocuments(c, models.LinkedModelApplication)
}

// PATCH /documents/:id/review
func (h *DocumentHandler) ReviewDocument(c *gin.Context) {
	reviewedBy, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid document ID", nil)
		return
	}

	var req services.ReviewDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	doc, err := h.documentService.ReviewDocument(id, &req, reviewedBy)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			utils.NotFoundResponse(c, "Document")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, doc)
}

// DELETE /documents/:id
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	performedBy, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid document ID", nil)
		return
	}

	if err := h.documentService.DeleteDocument(id, performedBy); err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			utils.NotFoundResponse(c, "Document")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Document deleted"})
}

func (h *DocumentHandler) listLinkedDocuments(c *gin.Context, linkedModel models.LinkedModel) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ID", nil)
		return
	}

	params := utils.GetPaginationParams(c)

	docs, total, err := h.documentService.ListDocuments(linkedModel, id, params)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch documents")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(docs, total, params))
}
