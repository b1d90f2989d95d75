// internal/workflow/completion.go
package workflow

import (
	"github.com/incorpora/onboarding-backend/internal/models"
)

// EvaluateCompletion locks the application once the full workflow is done:
// every main step Approved and, if any visa members exist, every member
// Approved. Returns true when the lock was applied by this call.
func EvaluateCompletion(app *models.Application) bool {
	if app.IsLocked {
		return false
	}
	if len(app.Steps) == 0 {
		return false
	}

	for _, s := range app.Steps {
		if s.Status != models.StepStatusApproved {
			return false
		}
	}
	if len(app.VisaSubSteps) > 0 && !AllMembersApproved(app) {
		return false
	}

	app.Status = models.ApplicationStatusCompleted
	app.IsLocked = true
	return true
}
