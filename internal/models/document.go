// internal/models/document.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentVault holds an uploaded customer or application document. The
// workflow engine reads document statuses to decide step auto-approval but
// never writes them; status changes come from agent review.
type DocumentVault struct {
	BaseModel
	DocumentName string `json:"document_name" gorm:"size:255;not null"`

	// Type token matched against step requirements, e.g. "passportCopy".
	DocumentType string `json:"document_type" gorm:"size:100;not null;index"`

	// Optional workflow step this document belongs to, e.g. "KYC & Background Check".
	RelatedStepName *string `json:"related_step_name" gorm:"size:100"`

	LinkedTo    uuid.UUID   `json:"linked_to" gorm:"type:uuid;not null;index"`
	LinkedModel LinkedModel `json:"linked_model" gorm:"type:varchar(20);not null"`

	FileURL    string         `json:"file_url" gorm:"size:500;not null"`
	UploadedBy uuid.UUID      `json:"uploaded_by" gorm:"type:uuid"`
	Status     DocumentStatus `json:"status" gorm:"type:varchar(20);default:'Pending';index"`
	ExpiryDate *time.Time     `json:"expiry_date"`
	Notes      JSONB          `json:"notes" gorm:"type:jsonb"`
}
