// internal/services/audit_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/incorpora/onboarding-backend/internal/models"
)

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record persists one audit entry synchronously.
func (s *AuditService) Record(auditType models.AuditType, action string, performedBy, targetUser *uuid.UUID, details map[string]interface{}) error {
	entry := &models.AuditLog{
		Type:        auditType,
		Action:      action,
		PerformedBy: performedBy,
		TargetUser:  targetUser,
		Details:     models.JSONB(details),
	}

	if err := s.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// RecordAsync writes the audit entry in the background. Audit logging is
// fire-and-forget: a failure is logged but never surfaces to the workflow
// operation that triggered it.
func (s *AuditService) RecordAsync(auditType models.AuditType, action string, performedBy, targetUser *uuid.UUID, details map[string]interface{}) {
	go func() {
		if err := s.Record(auditType, action, performedBy, targetUser, details); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"type":   auditType,
				"action": action,
			}).Error("Failed to record audit log")
		}
	}()
}

// ListAuditLogs returns audit entries, newest first.
func (s *AuditService) ListAuditLogs(auditType string, limit int) ([]models.AuditLog, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}

	query := s.db.Model(&models.AuditLog{}).Order("created_at DESC").Limit(limit)
	if auditType != "" {
		query = query.Where("type = ?", auditType)
	}

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch audit logs: %w", err)
	}
	return logs, nil
}
