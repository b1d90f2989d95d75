// internal/workflow/status.go
package workflow

import (
	"github.com/incorpora/onboarding-backend/internal/models"
)

var stepStatuses = map[models.StepStatus]bool{
	models.StepStatusNotStarted:             true,
	models.StepStatusStarted:                true,
	models.StepStatusSubmittedForReview:     true,
	models.StepStatusAwaitingResponse:       true,
	models.StepStatusApproved:               true,
	models.StepStatusDeclined:               true,
	models.StepStatusSkipped:                true,
	models.StepStatusAwaitingClientResponse: true,
}

var memberStatuses = map[models.VisaMemberStatus]bool{
	models.VisaMemberStatusSubmittedForReview: true,
	models.VisaMemberStatusApproved:           true,
	models.VisaMemberStatusRejected:           true,
}

// ValidStepStatus reports whether s is one of the eight recognized step
// statuses.
func ValidStepStatus(s models.StepStatus) bool {
	return stepStatuses[s]
}

// ValidMemberStatus reports whether s is a recognized visa member status.
func ValidMemberStatus(s models.VisaMemberStatus) bool {
	return memberStatuses[s]
}

// AggregateStatus derives the overall application status from the step
// statuses. First match wins:
//
//  1. any step Declined                        -> Rejected
//  2. every step Approved                      -> Completed
//  3. any step Started or Submitted for Review -> In Progress
//  4. every step Not Started                   -> Ready for Processing
//  5. otherwise                                -> Waiting for Agent Review
//
// Administrative statuses (New, Awaiting Client Response, Rejected by
// review) are set by the review workflow, never derived here.
func AggregateStatus(steps []models.Step) models.ApplicationStatus {
	approved := 0
	notStarted := 0
	workBegun := false

	for _, s := range steps {
		switch s.Status {
		case models.StepStatusDeclined:
			return models.ApplicationStatusRejected
		case models.StepStatusApproved:
			approved++
		case models.StepStatusNotStarted:
			notStarted++
		case models.StepStatusStarted, models.StepStatusSubmittedForReview:
			workBegun = true
		}
	}

	switch {
	case len(steps) > 0 && approved == len(steps):
		return models.ApplicationStatusCompleted
	case workBegun:
		return models.ApplicationStatusInProgress
	case notStarted == len(steps):
		return models.ApplicationStatusReadyForProcessing
	default:
		return models.ApplicationStatusWaitingForAgentReview
	}
}
