// internal/services/dashboard_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/incorpora/onboarding-backend/internal/models"
)

// DashboardService aggregates read-only summaries for the three portal
// views. It never mutates workflow state.
type DashboardService struct {
	db *gorm.DB
}

type AdminDashboard struct {
	TotalAgents             int64                              `json:"total_agents"`
	TotalCustomers          int64                              `json:"total_customers"`
	TotalApplications       int64                              `json:"total_applications"`
	ApplicationStatusCounts map[models.ApplicationStatus]int64 `json:"application_status_counts"`
}

type AgentDashboard struct {
	AgentID                 uuid.UUID                          `json:"agent_id"`
	TotalCustomers          int64                              `json:"total_customers"`
	ApplicationStatusCounts map[models.ApplicationStatus]int64 `json:"application_status_counts"`
}

type CustomerDashboard struct {
	ApplicationStatus models.ApplicationStatus `json:"application_status"`
	IsLocked          bool                     `json:"is_locked"`
	Steps             []models.Step            `json:"steps"`
	VisaSubSteps      []models.VisaSubStep     `json:"visa_sub_steps"`
	SharedNote        *string                  `json:"shared_note"`
	Documents         []models.DocumentVault   `json:"documents"`
}

type statusCount struct {
	Status models.ApplicationStatus
	Count  int64
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// GetAdminDashboard returns platform-wide totals and the application status
// breakdown.
func (s *DashboardService) GetAdminDashboard() (*AdminDashboard, error) {
	dashboard := &AdminDashboard{}

	if err := s.db.Model(&models.User{}).Where("user_type = ?", models.UserTypeAgent).Count(&dashboard.TotalAgents).Error; err != nil {
		return nil, fmt.Errorf("failed to count agents: %w", err)
	}
	if err := s.db.Model(&models.Customer{}).Count(&dashboard.TotalCustomers).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	if err := s.db.Model(&models.Application{}).Count(&dashboard.TotalApplications).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	counts, err := s.applicationStatusCounts(s.db.Model(&models.Application{}))
	if err != nil {
		return nil, err
	}
	dashboard.ApplicationStatusCounts = counts

	return dashboard, nil
}

// GetAgentDashboard returns the workload summary for one agent's assigned
// customers.
func (s *DashboardService) GetAgentDashboard(agentID uuid.UUID) (*AgentDashboard, error) {
	dashboard := &AgentDashboard{AgentID: agentID}

	if err := s.db.Model(&models.Customer{}).Where("assigned_agent_id = ?", agentID).Count(&dashboard.TotalCustomers).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	counts, err := s.applicationStatusCounts(
		s.db.Model(&models.Application{}).Where("assigned_agent_id = ?", agentID),
	)
	if err != nil {
		return nil, err
	}
	dashboard.ApplicationStatusCounts = counts

	return dashboard, nil
}

// GetCustomerDashboard returns the customer's own application progress and
// vault documents.
func (s *DashboardService) GetCustomerDashboard(customerID uuid.UUID) (*CustomerDashboard, error) {
	var app models.Application
	err := s.db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("steps.position ASC") }).
		Preload("VisaSubSteps").
		First(&app, "customer_id = ?", customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var documents []models.DocumentVault
	err = s.db.
		Where("(linked_model = ? AND linked_to = ?) OR (linked_model = ? AND linked_to = ?)",
			models.LinkedModelCustomer, customerID, models.LinkedModelApplication, app.ID).
		Order("created_at DESC").
		Find(&documents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}

	return &CustomerDashboard{
		ApplicationStatus: app.Status,
		IsLocked:          app.IsLocked,
		Steps:             app.Steps,
		VisaSubSteps:      app.VisaSubSteps,
		SharedNote:        app.SharedNote,
		Documents:         documents,
	}, nil
}

func (s *DashboardService) applicationStatusCounts(query *gorm.DB) (map[models.ApplicationStatus]int64, error) {
	var rows []statusCount
	if err := query.Select("status, COUNT(*) as count").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate application statuses: %w", err)
	}

	counts := make(map[models.ApplicationStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
