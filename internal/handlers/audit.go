// internal/handlers/audit.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/incorpora/onboarding-backend/internal/services"
	"github.com/incorpora/onboarding-backend/internal/utils"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// GET /audit-logs (admin only)
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	auditType := c.Query("type")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	logs, err := h.auditService.ListAuditLogs(auditType, limit)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch audit logs")
		return
	}

	utils.SuccessResponse(c, logs)
}
