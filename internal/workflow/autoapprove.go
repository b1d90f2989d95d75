// internal/workflow/autoapprove.go
package workflow

import (
	"time"

	"github.com/incorpora/onboarding-backend/internal/models"
)

// Reconcile approves every document-gated step whose required document types
// are covered by the approved documents. Documents tagged with a related
// step name only count toward that step; untagged documents count toward any
// step. Steps already Approved are never revisited, which makes the
// operation idempotent. Returns the names of the steps that changed.
func Reconcile(app *models.Application, approvedDocs []models.DocumentVault) []string {
	generalTypes := make(map[string]bool)
	stepScopedTypes := make(map[string]map[string]bool)

	for _, doc := range approvedDocs {
		if doc.Status != models.DocumentStatusApproved {
			continue
		}
		if doc.RelatedStepName != nil && *doc.RelatedStepName != "" {
			scoped := stepScopedTypes[*doc.RelatedStepName]
			if scoped == nil {
				scoped = make(map[string]bool)
				stepScopedTypes[*doc.RelatedStepName] = scoped
			}
			scoped[doc.DocumentType] = true
		} else {
			generalTypes[doc.DocumentType] = true
		}
	}

	var approved []string
	for i := range app.Steps {
		step := &app.Steps[i]
		if step.Status == models.StepStatusApproved {
			continue
		}

		required := RequiredDocuments(step.Name)
		if len(required) == 0 {
			continue
		}

		satisfied := true
		for _, docType := range required {
			if !generalTypes[docType] && !stepScopedTypes[step.Name][docType] {
				satisfied = false
				break
			}
		}

		if satisfied {
			step.Status = models.StepStatusApproved
			step.UpdatedAt = time.Now()
			approved = append(approved, step.Name)
		}
	}

	return approved
}
