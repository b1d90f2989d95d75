// internal/models/audit_log.go
package models

import (
	"github.com/google/uuid"
)

// AuditLog is an append-only record of workflow and account actions.
type AuditLog struct {
	BaseModel
	Type        AuditType  `json:"type" gorm:"type:varchar(20);not null"`
	Action      string     `json:"action" gorm:"size:100;not null"`
	PerformedBy *uuid.UUID `json:"performed_by" gorm:"type:uuid"`
	TargetUser  *uuid.UUID `json:"target_user" gorm:"type:uuid"`
	IPAddress   string     `json:"ip_address" gorm:"size:45"`
	Details     JSONB      `json:"details" gorm:"type:jsonb"`
}
