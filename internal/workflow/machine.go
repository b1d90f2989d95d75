// internal/workflow/machine.go
package workflow

import (
	"time"

	"github.com/incorpora/onboarding-backend/internal/models"
)

// SetStepStatus replaces the status of the named step and stamps its
// UpdatedAt. The step name must match the jurisdiction's fixed set exactly;
// no ordering discipline between steps is enforced here — that is a caller
// policy, not a machine invariant.
func SetStepStatus(app *models.Application, stepName string, status models.StepStatus) error {
	if !ValidStepStatus(status) {
		return ErrInvalidStepStatus
	}

	step := app.FindStep(stepName)
	if step == nil {
		return ErrStepNotFound
	}

	step.Status = status
	step.UpdatedAt = time.Now()
	return nil
}
