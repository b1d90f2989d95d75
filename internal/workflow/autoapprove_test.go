// internal/workflow/autoapprove_test.go
package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incorpora/onboarding-backend/internal/models"
)

func approvedDoc(docType string) models.DocumentVault {
	return models.DocumentVault{
		DocumentName: docType,
		DocumentType: docType,
		Status:       models.DocumentStatusApproved,
	}
}

func TestReconcileApprovesFullySatisfiedSteps(t *testing.T) {
	app := newTestApplication(t, "uae")

	docs := []models.DocumentVault{
		approvedDoc("passportCopy"),
		approvedDoc("passportPhoto"),
		approvedDoc("proofOfAddress"),
	}

	changed := Reconcile(app, docs)
	assert.Equal(t, []string{"KYC & Background Check"}, changed)
	assert.Equal(t, models.StepStatusApproved, app.FindStep("KYC & Background Check").Status)

	// Every other step untouched.
	for _, s := range app.Steps {
		if s.Name != "KYC & Background Check" {
			assert.Equal(t, models.StepStatusNotStarted, s.Status, s.Name)
		}
	}
}

func TestReconcilePartialRequirementsDoNothing(t *testing.T) {
	app := newTestApplication(t, "uae")

	changed := Reconcile(app, []models.DocumentVault{approvedDoc("passportCopy")})
	assert.Empty(t, changed)
	assert.Equal(t, models.StepStatusNotStarted, app.FindStep("KYC & Background Check").Status)
}

func TestReconcileIsIdempotent(t *testing.T) {
	app := newTestApplication(t, "uae")

	docs := []models.DocumentVault{
		approvedDoc("passportCopy"),
		approvedDoc("passportPhoto"),
		approvedDoc("proofOfAddress"),
		approvedDoc("tradeLicenseCopy"),
	}

	first := Reconcile(app, docs)
	require.ElementsMatch(t, []string{
		"KYC & Background Check",
		"Trade License Creation",
		"Establishment Card & Visa Allocation",
	}, first)

	// Same inputs again: nothing further changes.
	second := Reconcile(app, docs)
	assert.Empty(t, second)
}

func TestReconcileIgnoresNonApprovedDocuments(t *testing.T) {
	app := newTestApplication(t, "uae")

	pending := approvedDoc("signedLeaseAgreement")
	pending.Status = models.DocumentStatusPending

	changed := Reconcile(app, []models.DocumentVault{pending})
	assert.Empty(t, changed)
}

func TestReconcileStepScopedDocuments(t *testing.T) {
	app := newTestApplication(t, "uae")

	// A document tagged for one step must not satisfy another step's
	// requirement for the same type.
	tagged := approvedDoc("tradeLicenseCopy")
	step := "Trade License Creation"
	tagged.RelatedStepName = &step

	changed := Reconcile(app, []models.DocumentVault{tagged})
	assert.Equal(t, []string{"Trade License Creation"}, changed)
	assert.Equal(t, models.StepStatusNotStarted, app.FindStep("Establishment Card & Visa Allocation").Status)
}

func TestReconcileNeverTouchesSubStepGatedSteps(t *testing.T) {
	app := newTestApplication(t, "uae")

	docs := []models.DocumentVault{
		approvedDoc("passportCopy"),
		approvedDoc("passportPhoto"),
		approvedDoc("proofOfAddress"),
		approvedDoc("signedLeaseAgreement"),
		approvedDoc("tradeLicenseCopy"),
		approvedDoc("vatCertificate"),
		approvedDoc("corporateTaxCertificate"),
		approvedDoc("bankAccountProof"),
	}

	Reconcile(app, docs)
	assert.Equal(t, models.StepStatusNotStarted, app.FindStep(VisaStepName).Status)
}
