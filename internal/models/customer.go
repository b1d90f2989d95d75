// internal/models/customer.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the company-formation client record. Agent-filled fields are
// set at creation; the business-detail fields arrive later through the
// customer onboarding submission.
type Customer struct {
	BaseModel
	UserID          *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	AssignedAgentID *uuid.UUID `json:"assigned_agent_id" gorm:"type:uuid;index"`

	FirstName   string     `json:"first_name" gorm:"size:100;not null"`
	MiddleName  string     `json:"middle_name" gorm:"size:100"`
	LastName    string     `json:"last_name" gorm:"size:100;not null"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Email       string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PhoneNumber string     `json:"phone_number" gorm:"size:50"`
	Nationality string     `json:"nationality" gorm:"size:100"`

	CompanyType       string `json:"company_type" gorm:"size:100"`
	Jurisdiction      string `json:"jurisdiction" gorm:"size:50;not null"`
	BusinessActivity1 string `json:"business_activity_1" gorm:"size:255"`
	OfficeType        string `json:"office_type" gorm:"size:100"`

	// Customer-filled onboarding fields
	BusinessActivity2 string  `json:"business_activity_2" gorm:"size:255"`
	BusinessActivity3 string  `json:"business_activity_3" gorm:"size:255"`
	NumberOfInvestors int     `json:"number_of_investors"`
	SourceOfFund      string  `json:"source_of_fund" gorm:"size:255"`
	InitialInvestment float64 `json:"initial_investment"`
	InvestorDetails   JSONB   `json:"investor_details" gorm:"type:jsonb"`

	// Relationships
	Application *Application `json:"application,omitempty" gorm:"foreignKey:CustomerID"`
}
