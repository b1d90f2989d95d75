// internal/workflow/machine_test.go
package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incorpora/onboarding-backend/internal/models"
)

func newTestApplication(t *testing.T, jurisdiction string) *models.Application {
	t.Helper()

	defs, err := StepsFor(jurisdiction)
	require.NoError(t, err)

	app := &models.Application{Status: models.ApplicationStatusNew}
	for i, def := range defs {
		app.Steps = append(app.Steps, models.Step{
			Position:  i,
			Name:      def.Name,
			Optional:  def.Optional,
			Status:    models.StepStatusNotStarted,
			UpdatedAt: time.Now(),
		})
	}
	return app
}

func TestSetStepStatus(t *testing.T) {
	app := newTestApplication(t, "uae")

	err := SetStepStatus(app, "Trade License Creation", models.StepStatusStarted)
	require.NoError(t, err)

	step := app.FindStep("Trade License Creation")
	assert.Equal(t, models.StepStatusStarted, step.Status)
	assert.WithinDuration(t, time.Now(), step.UpdatedAt, time.Second)

	// All other steps untouched.
	for _, s := range app.Steps {
		if s.Name != "Trade License Creation" {
			assert.Equal(t, models.StepStatusNotStarted, s.Status)
		}
	}
}

func TestSetStepStatusUnknownStep(t *testing.T) {
	app := newTestApplication(t, "uae")

	err := SetStepStatus(app, "Yacht Registration", models.StepStatusStarted)
	assert.ErrorIs(t, err, ErrStepNotFound)
}

func TestSetStepStatusRejectsUnknownStatus(t *testing.T) {
	app := newTestApplication(t, "uae")

	err := SetStepStatus(app, "Banking Setup", models.StepStatus("Finished"))
	assert.ErrorIs(t, err, ErrInvalidStepStatus)
	assert.Equal(t, models.StepStatusNotStarted, app.FindStep("Banking Setup").Status)
}

func TestSetStepStatusHasNoOrderingConstraint(t *testing.T) {
	app := newTestApplication(t, "uae")

	// A later step may start before an earlier one is approved.
	err := SetStepStatus(app, "Banking Setup", models.StepStatusStarted)
	require.NoError(t, err)
	assert.Equal(t, models.StepStatusNotStarted, app.FindStep("KYC & Background Check").Status)
}
