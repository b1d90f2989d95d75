// internal/services/customer_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/incorpora/onboarding-backend/internal/models"
	"github.com/incorpora/onboarding-backend/internal/utils"
)

var ErrCustomerEmailExists = errors.New("customer with this email already exists")

// CustomerService manages client records. Creating a customer also creates
// their application so the workflow exists from day one.
type CustomerService struct {
	db                 *gorm.DB
	applicationService *ApplicationService
	auditService       *AuditService
}

type CreateCustomerRequest struct {
	FirstName   string     `json:"first_name" validate:"required,max=100"`
	MiddleName  string     `json:"middle_name,omitempty" validate:"max=100"`
	LastName    string     `json:"last_name" validate:"required,max=100"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Email       string     `json:"email" validate:"required,email"`
	PhoneNumber string     `json:"phone_number,omitempty" validate:"max=50"`
	Nationality string     `json:"nationality,omitempty" validate:"max=100"`

	CompanyType       string `json:"company_type,omitempty" validate:"max=100"`
	Jurisdiction      string `json:"jurisdiction" validate:"required,jurisdiction"`
	BusinessActivity1 string `json:"business_activity_1,omitempty" validate:"max=255"`
	OfficeType        string `json:"office_type,omitempty" validate:"max=100"`

	AssignedAgentID *uuid.UUID `json:"assigned_agent_id,omitempty"`
}

type OnboardingDetailsRequest struct {
	BusinessActivity2 string                 `json:"business_activity_2,omitempty" validate:"max=255"`
	BusinessActivity3 string                 `json:"business_activity_3,omitempty" validate:"max=255"`
	NumberOfInvestors int                    `json:"number_of_investors" validate:"min=0"`
	SourceOfFund      string                 `json:"source_of_fund,omitempty" validate:"max=255"`
	InitialInvestment float64                `json:"initial_investment" validate:"min=0"`
	InvestorDetails   map[string]interface{} `json:"investor_details,omitempty"`
}

func NewCustomerService(db *gorm.DB, applicationService *ApplicationService, auditService *AuditService) *CustomerService {
	return &CustomerService{
		db:                 db,
		applicationService: applicationService,
		auditService:       auditService,
	}
}

// CreateCustomer registers a new client and instantiates their workflow
// application for the chosen jurisdiction.
func (s *CustomerService) CreateCustomer(req *CreateCustomerRequest, performedBy uuid.UUID) (*models.Customer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.Customer
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrCustomerEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	customer := &models.Customer{
		AssignedAgentID:   req.AssignedAgentID,
		FirstName:         req.FirstName,
		MiddleName:        req.MiddleName,
		LastName:          req.LastName,
		DateOfBirth:       req.DateOfBirth,
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		Nationality:       req.Nationality,
		CompanyType:       req.CompanyType,
		Jurisdiction:      req.Jurisdiction,
		BusinessActivity1: req.BusinessActivity1,
		OfficeType:        req.OfficeType,
	}

	if err := s.db.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	if _, err := s.applicationService.CreateApplication(&CreateApplicationRequest{
		CustomerID:      customer.ID,
		AssignedAgentID: req.AssignedAgentID,
	}, performedBy); err != nil {
		// The customer record stands; the application can be created later.
		logrus.WithError(err).WithField("customer_id", customer.ID).Error("Failed to create application for new customer")
	}

	s.auditService.RecordAsync(models.AuditTypeCustomer, "customer_created", &performedBy, nil, map[string]interface{}{
		"customer_id":  customer.ID,
		"jurisdiction": customer.Jurisdiction,
	})

	return customer, nil
}

// SubmitOnboardingDetails stores the customer-filled business details and
// moves the application into the agent review queue.
func (s *CustomerService) SubmitOnboardingDetails(customerID uuid.UUID, req *OnboardingDetailsRequest) (*models.Customer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	customer, err := s.GetCustomer(customerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"business_activity_2": req.BusinessActivity2,
		"business_activity_3": req.BusinessActivity3,
		"number_of_investors": req.NumberOfInvestors,
		"source_of_fund":      req.SourceOfFund,
		"initial_investment":  req.InitialInvestment,
	}
	if req.InvestorDetails != nil {
		updates["investor_details"] = models.JSONB(req.InvestorDetails)
	}

	if err := s.db.Model(customer).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	if _, err := s.applicationService.MarkOnboardingSubmitted(customerID); err != nil {
		return nil, err
	}

	s.auditService.RecordAsync(models.AuditTypeCustomer, "onboarding_submitted", customer.UserID, nil, map[string]interface{}{
		"customer_id": customerID,
	})

	return s.GetCustomer(customerID)
}

func (s *CustomerService) GetCustomer(id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &customer, nil
}

func (s *CustomerService) GetCustomerByUser(userID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &customer, nil
}

// ListCustomers returns customers, optionally scoped to one agent.
func (s *CustomerService) ListCustomers(assignedAgentID *uuid.UUID, params utils.PaginationParams) ([]models.Customer, int64, error) {
	query := s.db.Model(&models.Customer{})

	if assignedAgentID != nil {
		query = query.Where("assigned_agent_id = ?", *assignedAgentID)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", search, search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	allowedSortFields := []string{"created_at", "first_name", "last_name", "email", "jurisdiction"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var customers []models.Customer
	if err := query.Find(&customers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch customers: %w", err)
	}

	return customers, total, nil
}

// LinkUser attaches a portal login to an existing customer record.
func (s *CustomerService) LinkUser(customerID, userID uuid.UUID) error {
	result := s.db.Model(&models.Customer{}).Where("id = ?", customerID).Update("user_id", userID)
	if result.Error != nil {
		return fmt.Errorf("failed to link user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
