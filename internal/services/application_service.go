// internal/services/application_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/incorpora/onboarding-backend/internal/database"
	"github.com/incorpora/onboarding-backend/internal/models"
	"github.com/incorpora/onboarding-backend/internal/utils"
	"github.com/incorpora/onboarding-backend/internal/workflow"
)

var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrDuplicateApplication = errors.New("application already exists for this customer")
)

// ApplicationService is the consistency boundary of the onboarding workflow.
// Every mutation loads the full aggregate under a row lock, applies a pure
// workflow transformation, recomputes the overall status and persists the
// result atomically. Audit and email side effects run after commit.
type ApplicationService struct {
	db                  *gorm.DB
	auditService        *AuditService
	notificationService *NotificationService
}

type CreateApplicationRequest struct {
	CustomerID      uuid.UUID  `json:"customer_id" validate:"required"`
	AssignedAgentID *uuid.UUID `json:"assigned_agent_id,omitempty"`
}

type SetStepStatusRequest struct {
	StepName string            `json:"step_name" validate:"required"`
	Status   models.StepStatus `json:"status" validate:"required"`
}

type ReviewApplicationRequest struct {
	Decision models.ReviewDecision `json:"decision" validate:"required"`
	Note     string                `json:"note,omitempty"`
}

func NewApplicationService(db *gorm.DB, auditService *AuditService, notificationService *NotificationService) *ApplicationService {
	return &ApplicationService{
		db:                  db,
		auditService:        auditService,
		notificationService: notificationService,
	}
}

// CreateApplication instantiates the aggregate for a customer. The step set
// comes from the customer's jurisdiction and is fixed for the application's
// lifetime.
func (s *ApplicationService) CreateApplication(req *CreateApplicationRequest, performedBy uuid.UUID) (*models.Application, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var app *models.Application
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var existing models.Application
		if err := tx.Where("customer_id = ?", req.CustomerID).First(&existing).Error; err == nil {
			return ErrDuplicateApplication
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("database error: %w", err)
		}

		var customer models.Customer
		if err := tx.First(&customer, "id = ?", req.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		defs, err := workflow.StepsFor(customer.Jurisdiction)
		if err != nil {
			return err
		}

		created := &models.Application{
			CustomerID:      req.CustomerID,
			AssignedAgentID: req.AssignedAgentID,
			Status:          models.ApplicationStatusNew,
		}
		for i, def := range defs {
			created.Steps = append(created.Steps, models.Step{
				Position:  i,
				Name:      def.Name,
				Optional:  def.Optional,
				Status:    models.StepStatusNotStarted,
				UpdatedAt: time.Now(),
			})
		}

		if err := tx.Create(created).Error; err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}

		app = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditService.RecordAsync(models.AuditTypeApplication, "application_created", &performedBy, &req.CustomerID, map[string]interface{}{
		"application_id": app.ID,
		"assigned_agent": req.AssignedAgentID,
	})

	return app, nil
}

func (s *ApplicationService) GetApplication(id uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := s.db.
		Preload("Steps", orderSteps).
		Preload("VisaSubSteps").
		Preload("Notes", orderNotes).
		Preload("Customer").
		First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &app, nil
}

func (s *ApplicationService) GetApplicationByCustomer(customerID uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := s.db.
		Preload("Steps", orderSteps).
		Preload("VisaSubSteps").
		Preload("Notes", orderNotes).
		First(&app, "customer_id = ?", customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &app, nil
}

func (s *ApplicationService) ListApplications(params utils.PaginationParams) ([]models.Application, int64, error) {
	query := s.db.Model(&models.Application{}).Preload("Customer")

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var apps []models.Application
	if err := query.Find(&apps).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch applications: %w", err)
	}

	return apps, total, nil
}

// SetStepStatus applies one step transition, re-derives the overall status
// and evaluates the completion lock.
func (s *ApplicationService) SetStepStatus(applicationID uuid.UUID, req *SetStepStatusRequest, performedBy uuid.UUID) (*models.Application, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var completed bool
	app, err := s.mutate(applicationID, func(app *models.Application) error {
		if err := workflow.SetStepStatus(app, req.StepName, req.Status); err != nil {
			return err
		}
		app.Status = workflow.AggregateStatus(app.Steps)
		completed = workflow.EvaluateCompletion(app)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditService.RecordAsync(models.AuditTypeApplication, "step_status_updated", &performedBy, nil, map[string]interface{}{
		"application_id": applicationID,
		"step":           req.StepName,
		"new_status":     req.Status,
	})
	if completed {
		s.notifyCompletion(app)
	}

	return app, nil
}

// AddNote appends an immutable agent note.
func (s *ApplicationService) AddNote(applicationID uuid.UUID, message string, addedBy uuid.UUID) (*models.Application, error) {
	if message == "" {
		return nil, errors.New("note message is required")
	}

	return s.mutateAudited(applicationID, "note_added", addedBy, func(app *models.Application) error {
		app.Notes = append(app.Notes, models.Note{
			ApplicationID: app.ID,
			Message:       message,
			AddedBy:       addedBy,
			Timestamp:     time.Now(),
		})
		return nil
	})
}

// AddVisaMember registers a new dependent in the visa portion.
func (s *ApplicationService) AddVisaMember(applicationID uuid.UUID, memberID string, performedBy uuid.UUID) (*models.Application, error) {
	if memberID == "" {
		return nil, errors.New("member id is required")
	}

	return s.mutateAudited(applicationID, "visa_member_added", performedBy, func(app *models.Application) error {
		return workflow.AddVisaMember(app, memberID)
	})
}

// SetVisaMemberStatus updates one dependent's visa status. Approving the
// last pending member auto-approves the main visa step, which can in turn
// complete and lock the application.
func (s *ApplicationService) SetVisaMemberStatus(applicationID uuid.UUID, memberID string, status models.VisaMemberStatus, performedBy uuid.UUID) (*models.Application, error) {
	var completed bool
	app, err := s.mutate(applicationID, func(app *models.Application) error {
		if err := workflow.SetVisaMemberStatus(app, memberID, status); err != nil {
			return err
		}
		app.Status = workflow.AggregateStatus(app.Steps)
		completed = workflow.EvaluateCompletion(app)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditService.RecordAsync(models.AuditTypeApplication, "visa_member_status_updated", &performedBy, nil, map[string]interface{}{
		"application_id": applicationID,
		"member_id":      memberID,
		"new_status":     status,
	})
	if completed {
		s.notifyCompletion(app)
	}

	return app, nil
}

// ReviewApplication applies an agent's review decision. These are the
// administrative status overrides: they bypass the aggregator until the next
// step mutation.
func (s *ApplicationService) ReviewApplication(applicationID uuid.UUID, req *ReviewApplicationRequest, performedBy uuid.UUID) (*models.Application, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	app, err := s.mutate(applicationID, func(app *models.Application) error {
		switch req.Decision {
		case models.ReviewDecisionApprove:
			app.Status = models.ApplicationStatusReadyForProcessing
		case models.ReviewDecisionClarify:
			note := req.Note
			app.Status = models.ApplicationStatusAwaitingClientResponse
			app.SharedNote = &note
		default:
			return workflow.ErrInvalidDecision
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditService.RecordAsync(models.AuditTypeApplication, "application_reviewed", &performedBy, nil, map[string]interface{}{
		"application_id": applicationID,
		"decision":       req.Decision,
	})

	if customer, err := s.loadCustomer(app.CustomerID); err == nil {
		switch req.Decision {
		case models.ReviewDecisionApprove:
			s.notificationService.SendAsync(func() error { return s.notificationService.SendReviewApprovedEmail(customer) })
		case models.ReviewDecisionClarify:
			note := req.Note
			s.notificationService.SendAsync(func() error { return s.notificationService.SendClarificationRequest(customer, note) })
		}
	}

	return app, nil
}

// ReconcileAutoApproval recomputes document-driven step approvals. The
// approved document set is fetched before the aggregate is touched: if the
// vault is unavailable the operation aborts with no mutation, because
// approving steps against a partial document view is never acceptable.
func (s *ApplicationService) ReconcileAutoApproval(applicationID uuid.UUID) (*models.Application, error) {
	var light models.Application
	if err := s.db.Select("id", "customer_id").First(&light, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	approvedDocs, err := s.findApprovedDocuments(light.CustomerID, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch approved documents: %w", err)
	}

	var approvedSteps []string
	var completed bool
	app, err := s.mutate(applicationID, func(app *models.Application) error {
		approvedSteps = workflow.Reconcile(app, approvedDocs)
		if len(approvedSteps) > 0 {
			app.Status = workflow.AggregateStatus(app.Steps)
			completed = workflow.EvaluateCompletion(app)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(approvedSteps) > 0 {
		s.auditService.RecordAsync(models.AuditTypeApplication, "steps_auto_approved", nil, &light.CustomerID, map[string]interface{}{
			"application_id": applicationID,
			"steps":          approvedSteps,
		})
	}
	if completed {
		s.notifyCompletion(app)
	}

	return app, nil
}

// ReconcileForCustomer runs auto-approval for the customer's application, if
// one exists. Used by the document review path, where only the customer
// linkage is known.
func (s *ApplicationService) ReconcileForCustomer(customerID uuid.UUID) (*models.Application, error) {
	var light models.Application
	if err := s.db.Select("id").First(&light, "customer_id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return s.ReconcileAutoApproval(light.ID)
}

// MarkStepSubmitted bumps a Not Started step to Submitted for Review. Used
// when a document tagged with a step name is uploaded; any other step state
// is left alone.
func (s *ApplicationService) MarkStepSubmitted(applicationID uuid.UUID, stepName string) (*models.Application, error) {
	return s.mutate(applicationID, func(app *models.Application) error {
		step := app.FindStep(stepName)
		if step == nil || step.Status != models.StepStatusNotStarted {
			return nil
		}
		if err := workflow.SetStepStatus(app, stepName, models.StepStatusSubmittedForReview); err != nil {
			return err
		}
		app.Status = workflow.AggregateStatus(app.Steps)
		return nil
	})
}

// MarkOnboardingSubmitted moves the customer's application back to the agent
// review queue after an onboarding submission and clears any outstanding
// clarification note.
func (s *ApplicationService) MarkOnboardingSubmitted(customerID uuid.UUID) (*models.Application, error) {
	var light models.Application
	if err := s.db.Select("id").First(&light, "customer_id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return s.mutate(light.ID, func(app *models.Application) error {
		app.Status = models.ApplicationStatusWaitingForAgentReview
		app.SharedNote = nil
		return nil
	})
}

// Internals

// mutate serializes the read-modify-write against one aggregate: the row is
// locked for the duration of the transaction, the transformation runs on the
// loaded copy and only the fully computed result is persisted. A locked
// application rejects every mutation.
func (s *ApplicationService) mutate(applicationID uuid.UUID, fn func(app *models.Application) error) (*models.Application, error) {
	var result *models.Application
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		app, err := lockApplication(tx, applicationID)
		if err != nil {
			return err
		}
		if app.IsLocked {
			return workflow.ErrApplicationLocked
		}
		if err := fn(app); err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(app).Error; err != nil {
			return fmt.Errorf("failed to save application: %w", err)
		}
		result = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ApplicationService) mutateAudited(applicationID uuid.UUID, action string, performedBy uuid.UUID, fn func(app *models.Application) error) (*models.Application, error) {
	app, err := s.mutate(applicationID, fn)
	if err != nil {
		return nil, err
	}

	s.auditService.RecordAsync(models.AuditTypeApplication, action, &performedBy, nil, map[string]interface{}{
		"application_id": applicationID,
	})
	return app, nil
}

func lockApplication(tx *gorm.DB, applicationID uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Steps", orderSteps).
		Preload("VisaSubSteps").
		Preload("Notes", orderNotes).
		First(&app, "id = ?", applicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &app, nil
}

func (s *ApplicationService) findApprovedDocuments(customerID, applicationID uuid.UUID) ([]models.DocumentVault, error) {
	var docs []models.DocumentVault
	err := s.db.
		Where("status = ?", models.DocumentStatusApproved).
		Where(
			s.db.Where("linked_model = ? AND linked_to = ?", models.LinkedModelCustomer, customerID).
				Or("linked_model = ? AND linked_to = ?", models.LinkedModelApplication, applicationID),
		).
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *ApplicationService) loadCustomer(customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", customerID).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *ApplicationService) notifyCompletion(app *models.Application) {
	customer, err := s.loadCustomer(app.CustomerID)
	if err != nil {
		return
	}
	s.notificationService.SendAsync(func() error { return s.notificationService.SendCompletionEmail(customer) })
}

func orderSteps(db *gorm.DB) *gorm.DB {
	return db.Order("steps.position ASC")
}

func orderNotes(db *gorm.DB) *gorm.DB {
	return db.Order("notes.timestamp ASC")
}
