// internal/workflow/visa.go
package workflow

import (
	"time"

	"github.com/incorpora/onboarding-backend/internal/models"
)

// AddVisaMember appends a new dependent in status Submitted for Review.
func AddVisaMember(app *models.Application, memberID string) error {
	if app.FindMember(memberID) != nil {
		return ErrDuplicateMember
	}

	app.VisaSubSteps = append(app.VisaSubSteps, models.VisaSubStep{
		ApplicationID: app.ID,
		MemberID:      memberID,
		Status:        models.VisaMemberStatusSubmittedForReview,
		UpdatedAt:     time.Now(),
	})
	return nil
}

// SetVisaMemberStatus updates one dependent's status, then approves the main
// visa step once every member is Approved. An application with no members
// never satisfies the gate.
func SetVisaMemberStatus(app *models.Application, memberID string, status models.VisaMemberStatus) error {
	if !ValidMemberStatus(status) {
		return ErrInvalidMemberStatus
	}

	member := app.FindMember(memberID)
	if member == nil {
		return ErrMemberNotFound
	}

	member.Status = status
	member.UpdatedAt = time.Now()

	if AllMembersApproved(app) {
		if step := app.FindStep(VisaStepName); step != nil && step.Status != models.StepStatusApproved {
			step.Status = models.StepStatusApproved
			step.UpdatedAt = time.Now()
		}
	}
	return nil
}

// AllMembersApproved reports whether at least one visa member exists and all
// of them are Approved.
func AllMembersApproved(app *models.Application) bool {
	if len(app.VisaSubSteps) == 0 {
		return false
	}
	for _, m := range app.VisaSubSteps {
		if m.Status != models.VisaMemberStatusApproved {
			return false
		}
	}
	return true
}
