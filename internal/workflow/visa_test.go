// internal/workflow/visa_test.go
package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incorpora/onboarding-backend/internal/models"
)

func TestAddVisaMember(t *testing.T) {
	app := newTestApplication(t, "uae")

	require.NoError(t, AddVisaMember(app, "member-1"))
	require.Len(t, app.VisaSubSteps, 1)
	assert.Equal(t, models.VisaMemberStatusSubmittedForReview, app.VisaSubSteps[0].Status)

	err := AddVisaMember(app, "member-1")
	assert.ErrorIs(t, err, ErrDuplicateMember)
	assert.Len(t, app.VisaSubSteps, 1)
}

func TestSetVisaMemberStatusValidation(t *testing.T) {
	app := newTestApplication(t, "uae")
	require.NoError(t, AddVisaMember(app, "member-1"))

	assert.ErrorIs(t, SetVisaMemberStatus(app, "member-2", models.VisaMemberStatusApproved), ErrMemberNotFound)
	assert.ErrorIs(t, SetVisaMemberStatus(app, "member-1", models.VisaMemberStatus("Pending")), ErrInvalidMemberStatus)
}

func TestVisaStepApprovesOnlyWhenAllMembersApproved(t *testing.T) {
	app := newTestApplication(t, "uae")
	for _, id := range []string{"m-1", "m-2", "m-3"} {
		require.NoError(t, AddVisaMember(app, id))
	}

	require.NoError(t, SetVisaMemberStatus(app, "m-1", models.VisaMemberStatusApproved))
	require.NoError(t, SetVisaMemberStatus(app, "m-2", models.VisaMemberStatusApproved))
	require.NoError(t, SetVisaMemberStatus(app, "m-3", models.VisaMemberStatusRejected))

	// One rejection keeps the main step untouched.
	assert.Equal(t, models.StepStatusNotStarted, app.FindStep(VisaStepName).Status)

	require.NoError(t, SetVisaMemberStatus(app, "m-3", models.VisaMemberStatusApproved))
	assert.Equal(t, models.StepStatusApproved, app.FindStep(VisaStepName).Status)
}

func TestVisaGateNeverFiresWithZeroMembers(t *testing.T) {
	app := newTestApplication(t, "uae")

	assert.False(t, AllMembersApproved(app))
	assert.Equal(t, models.StepStatusNotStarted, app.FindStep(VisaStepName).Status)
}

func TestVisaGateWithoutVisaStepIsHarmless(t *testing.T) {
	app := newTestApplication(t, "uae")
	app.Steps = app.Steps[:4] // drop the visa step and everything after

	require.NoError(t, AddVisaMember(app, "m-1"))
	assert.NoError(t, SetVisaMemberStatus(app, "m-1", models.VisaMemberStatusApproved))
}
