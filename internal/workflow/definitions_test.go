// internal/workflow/definitions_test.go
package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incorpora/onboarding-backend/internal/models"
)

func TestStepsForIsCaseInsensitive(t *testing.T) {
	lower, err := StepsFor("uae")
	require.NoError(t, err)

	upper, err := StepsFor("  UAE ")
	require.NoError(t, err)

	assert.Equal(t, lower, upper)
	assert.Equal(t, "KYC & Background Check", lower[0].Name)
	assert.Equal(t, "Banking Setup", lower[len(lower)-1].Name)
}

func TestStepsForUnknownJurisdiction(t *testing.T) {
	_, err := StepsFor("atlantis")
	assert.ErrorIs(t, err, ErrUnknownJurisdiction)
}

func TestStepsForReturnsACopy(t *testing.T) {
	first, err := StepsFor("uae")
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := StepsFor("uae")
	require.NoError(t, err)
	assert.Equal(t, "KYC & Background Check", second[0].Name)
}

func TestEveryJurisdictionCarriesAVisaStep(t *testing.T) {
	for _, code := range Jurisdictions() {
		steps, err := StepsFor(code)
		require.NoError(t, err)

		found := false
		for _, s := range steps {
			if s.Name == VisaStepName {
				found = true
			}
		}
		assert.True(t, found, "jurisdiction %q has no visa step", code)
	}
}

func TestRequiredDocuments(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{"passportCopy", "passportPhoto", "proofOfAddress"},
		RequiredDocuments("KYC & Background Check"))

	// The visa step is gated by sub-steps, not documents.
	assert.Empty(t, RequiredDocuments(VisaStepName))
	assert.Empty(t, RequiredDocuments("No Such Step"))
}

func TestEvaluateCompletion(t *testing.T) {
	app := newTestApplication(t, "uae")
	require.NoError(t, AddVisaMember(app, "m-1"))

	for i := range app.Steps {
		app.Steps[i].Status = models.StepStatusApproved
	}

	// Member not approved yet: no lock.
	assert.False(t, EvaluateCompletion(app))
	assert.False(t, app.IsLocked)

	app.VisaSubSteps[0].Status = models.VisaMemberStatusApproved
	assert.True(t, EvaluateCompletion(app))
	assert.True(t, app.IsLocked)
	assert.Equal(t, models.ApplicationStatusCompleted, app.Status)

	// Already locked: evaluating again reports no change.
	assert.False(t, EvaluateCompletion(app))
}

func TestEvaluateCompletionWithoutMembers(t *testing.T) {
	app := newTestApplication(t, "qatar")
	for i := range app.Steps {
		app.Steps[i].Status = models.StepStatusApproved
	}

	// No visa members registered: the member gate does not apply.
	assert.True(t, EvaluateCompletion(app))
	assert.True(t, app.IsLocked)
}
