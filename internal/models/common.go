// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserType string

const (
	UserTypeAdmin    UserType = "admin"
	UserTypeAgent    UserType = "agent"
	UserTypeCustomer UserType = "customer"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// StepStatus is the per-step status vocabulary of the incorporation workflow.
type StepStatus string

const (
	StepStatusNotStarted             StepStatus = "Not Started"
	StepStatusStarted                StepStatus = "Started"
	StepStatusSubmittedForReview     StepStatus = "Submitted for Review"
	StepStatusAwaitingResponse       StepStatus = "Awaiting Response"
	StepStatusApproved               StepStatus = "Approved"
	StepStatusDeclined               StepStatus = "Declined"
	StepStatusSkipped                StepStatus = "Skipped"
	StepStatusAwaitingClientResponse StepStatus = "Awaiting Client Response"
)

// VisaMemberStatus tracks a dependent's visa sub-step.
type VisaMemberStatus string

const (
	VisaMemberStatusSubmittedForReview VisaMemberStatus = "Submitted for Review"
	VisaMemberStatusApproved           VisaMemberStatus = "Approved"
	VisaMemberStatusRejected           VisaMemberStatus = "Rejected"
)

// ApplicationStatus is the overall application status. Most values are
// derived from step statuses; New, Awaiting Client Response and Rejected-by-
// review are set directly by the review workflow.
type ApplicationStatus string

const (
	ApplicationStatusNew                    ApplicationStatus = "New"
	ApplicationStatusWaitingForAgentReview  ApplicationStatus = "Waiting for Agent Review"
	ApplicationStatusReadyForProcessing     ApplicationStatus = "Ready for Processing"
	ApplicationStatusInProgress             ApplicationStatus = "In Progress"
	ApplicationStatusCompleted              ApplicationStatus = "Completed"
	ApplicationStatusRejected               ApplicationStatus = "Rejected"
	ApplicationStatusAwaitingClientResponse ApplicationStatus = "Awaiting Client Response"
)

type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "Pending"
	DocumentStatusApproved DocumentStatus = "Approved"
	DocumentStatusRejected DocumentStatus = "Rejected"
)

// LinkedModel names the entity a vault document is attached to.
type LinkedModel string

const (
	LinkedModelCustomer    LinkedModel = "Customer"
	LinkedModelApplication LinkedModel = "Application"
)

type ReviewDecision string

const (
	ReviewDecisionApprove ReviewDecision = "approve"
	ReviewDecisionClarify ReviewDecision = "clarify"
)

type AuditType string

const (
	AuditTypeAuth         AuditType = "auth"
	AuditTypeUser         AuditType = "user"
	AuditTypeCustomer     AuditType = "customer"
	AuditTypeApplication  AuditType = "application"
	AuditTypeDocument     AuditType = "document"
	AuditTypeSystem       AuditType = "system"
	AuditTypeNotification AuditType = "notification"
)
