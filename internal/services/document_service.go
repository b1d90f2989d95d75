// internal/services/document_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/incorpora/onboarding-backend/internal/models"
	"github.com/incorpora/onboarding-backend/internal/utils"
	"github.com/incorpora/onboarding-backend/internal/workflow"
)

var (
	ErrDocumentNotFound      = errors.New("document not found")
	ErrInvalidDocumentStatus = errors.New("invalid document status")
)

// DocumentService manages the document vault. Uploads bump the related
// workflow step to Submitted for Review; agent approvals feed the
// auto-approval reconciliation on the customer's application.
type DocumentService struct {
	db                 *gorm.DB
	storageService     *StorageService
	applicationService *ApplicationService
	auditService       *AuditService
}

type UploadDocumentRequest struct {
	DocumentName    string             `form:"document_name" validate:"required,max=255"`
	DocumentType    string             `form:"document_type" validate:"required,max=100"`
	RelatedStepName *string            `form:"related_step_name"`
	LinkedTo        uuid.UUID          `form:"linked_to" validate:"required"`
	LinkedModel     models.LinkedModel `form:"linked_model" validate:"required,oneof=Customer Application"`
	ExpiryDate      *time.Time         `form:"expiry_date"`
}

type ReviewDocumentRequest struct {
	Status models.DocumentStatus `json:"status" validate:"required,oneof=Approved Rejected"`
	Note   string                `json:"note,omitempty"`
}

func NewDocumentService(db *gorm.DB, storageService *StorageService, applicationService *ApplicationService, auditService *AuditService) *DocumentService {
	return &DocumentService{
		db:                 db,
		storageService:     storageService,
		applicationService: applicationService,
		auditService:       auditService,
	}
}

// UploadDocument stores the file and the vault record. A document tagged
// with a step name moves that step out of Not Started, signalling the agent
// that there is something to review.
func (s *DocumentService) UploadDocument(req *UploadDocumentRequest, file multipart.File, header *multipart.FileHeader, uploadedBy uuid.UUID) (*models.DocumentVault, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	result, err := s.storageService.UploadFile(file, header, UploadOptions{
		Folder:       "vault",
		MaxSize:      20 * 1024 * 1024,
		AllowedTypes: []string{".pdf", ".png", ".jpg", ".jpeg", ".doc", ".docx"},
	})
	if err != nil {
		return nil, fmt.Errorf("file upload failed: %w", err)
	}

	doc := &models.DocumentVault{
		DocumentName:    req.DocumentName,
		DocumentType:    req.DocumentType,
		RelatedStepName: req.RelatedStepName,
		LinkedTo:        req.LinkedTo,
		LinkedModel:     req.LinkedModel,
		FileURL:         result.URL,
		UploadedBy:      uploadedBy,
		Status:          models.DocumentStatusPending,
		ExpiryDate:      req.ExpiryDate,
	}

	if err := s.db.Create(doc).Error; err != nil {
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	s.auditService.RecordAsync(models.AuditTypeDocument, "document_uploaded", &uploadedBy, nil, map[string]interface{}{
		"document_id":   doc.ID,
		"document_type": doc.DocumentType,
		"linked_model":  doc.LinkedModel,
		"linked_to":     doc.LinkedTo,
	})

	if req.RelatedStepName != nil {
		s.bumpRelatedStep(doc, *req.RelatedStepName)
	}

	return doc, nil
}

// ReviewDocument records the agent's verdict on a document. Approval
// triggers auto-approval reconciliation on the linked application; a locked
// or missing application is not an error here, the verdict itself stands.
func (s *DocumentService) ReviewDocument(documentID uuid.UUID, req *ReviewDocumentRequest, reviewedBy uuid.UUID) (*models.DocumentVault, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	doc, err := s.GetDocument(documentID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.Note != "" {
		notes := map[string]interface{}{}
		if doc.Notes != nil {
			notes = map[string]interface{}(doc.Notes)
		}
		notes["review_note"] = req.Note
		updates["notes"] = models.JSONB(notes)
	}

	if err := s.db.Model(doc).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	doc.Status = req.Status

	s.auditService.RecordAsync(models.AuditTypeDocument, "document_reviewed", &reviewedBy, nil, map[string]interface{}{
		"document_id": documentID,
		"status":      req.Status,
	})

	if req.Status == models.DocumentStatusApproved {
		s.reconcileLinkedApplication(doc)
	}

	return doc, nil
}

func (s *DocumentService) GetDocument(id uuid.UUID) (*models.DocumentVault, error) {
	var doc models.DocumentVault
	if err := s.db.First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &doc, nil
}

// ListDocuments returns the vault entries for one customer or application,
// optionally filtered by status via the pagination params.
func (s *DocumentService) ListDocuments(linkedModel models.LinkedModel, linkedTo uuid.UUID, params utils.PaginationParams) ([]models.DocumentVault, int64, error) {
	query := s.db.Model(&models.DocumentVault{}).
		Where("linked_model = ? AND linked_to = ?", linkedModel, linkedTo)

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		query = query.Where("document_name ILIKE ? OR document_type ILIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	allowedSortFields := []string{"created_at", "document_name", "document_type", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var docs []models.DocumentVault
	if err := query.Find(&docs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch documents: %w", err)
	}

	return docs, total, nil
}

// DeleteDocument removes the vault record and the stored file. Deleting an
// already approved document does not revoke step approvals that it earned.
func (s *DocumentService) DeleteDocument(id uuid.UUID, performedBy uuid.UUID) error {
	doc, err := s.GetDocument(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(doc).Error; err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if err := s.storageService.DeleteFile(storageKeyFromURL(doc.FileURL)); err != nil {
		logrus.WithError(err).WithField("document_id", id).Warn("Failed to delete stored file")
	}

	s.auditService.RecordAsync(models.AuditTypeDocument, "document_deleted", &performedBy, nil, map[string]interface{}{
		"document_id": id,
	})
	return nil
}

// Internals

func (s *DocumentService) bumpRelatedStep(doc *models.DocumentVault, stepName string) {
	appID, err := s.resolveApplicationID(doc)
	if err != nil {
		return
	}

	if _, err := s.applicationService.MarkStepSubmitted(appID, stepName); err != nil &&
		!errors.Is(err, workflow.ErrApplicationLocked) {
		logrus.WithError(err).WithFields(logrus.Fields{
			"application_id": appID,
			"step":           stepName,
		}).Warn("Failed to bump workflow step after document upload")
	}
}

func (s *DocumentService) reconcileLinkedApplication(doc *models.DocumentVault) {
	appID, err := s.resolveApplicationID(doc)
	if err != nil {
		return
	}

	if _, err := s.applicationService.ReconcileAutoApproval(appID); err != nil &&
		!errors.Is(err, workflow.ErrApplicationLocked) {
		logrus.WithError(err).WithField("application_id", appID).Warn("Auto-approval reconciliation failed after document review")
	}
}

func (s *DocumentService) resolveApplicationID(doc *models.DocumentVault) (uuid.UUID, error) {
	if doc.LinkedModel == models.LinkedModelApplication {
		return doc.LinkedTo, nil
	}

	var app models.Application
	if err := s.db.Select("id").First(&app, "customer_id = ?", doc.LinkedTo).Error; err != nil {
		return uuid.Nil, err
	}
	return app.ID, nil
}

// storageKeyFromURL recovers the S3 object key from a stored file URL. Local
// development URLs pass through unchanged and DeleteFile ignores them.
func storageKeyFromURL(fileURL string) string {
	for _, marker := range []string{".amazonaws.com/", "/uploads/"} {
		if idx := strings.Index(fileURL, marker); idx >= 0 {
			return fileURL[idx+len(marker):]
		}
	}
	return fileURL
}
