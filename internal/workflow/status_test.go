// internal/workflow/status_test.go
package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/incorpora/onboarding-backend/internal/models"
)

func stepsWithStatuses(statuses ...models.StepStatus) []models.Step {
	steps := make([]models.Step, len(statuses))
	for i, s := range statuses {
		steps[i] = models.Step{Position: i, Name: "Step " + string(rune('A'+i)), Status: s}
	}
	return steps
}

func TestAggregateStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []models.StepStatus
		want     models.ApplicationStatus
	}{
		{
			name:     "any declined wins over everything",
			statuses: []models.StepStatus{models.StepStatusApproved, models.StepStatusDeclined, models.StepStatusStarted},
			want:     models.ApplicationStatusRejected,
		},
		{
			name:     "all approved is completed",
			statuses: []models.StepStatus{models.StepStatusApproved, models.StepStatusApproved},
			want:     models.ApplicationStatusCompleted,
		},
		{
			name:     "started means in progress",
			statuses: []models.StepStatus{models.StepStatusNotStarted, models.StepStatusStarted},
			want:     models.ApplicationStatusInProgress,
		},
		{
			name:     "submitted for review means in progress",
			statuses: []models.StepStatus{models.StepStatusApproved, models.StepStatusSubmittedForReview},
			want:     models.ApplicationStatusInProgress,
		},
		{
			name:     "all not started is ready for processing",
			statuses: []models.StepStatus{models.StepStatusNotStarted, models.StepStatusNotStarted},
			want:     models.ApplicationStatusReadyForProcessing,
		},
		{
			name:     "partially approved without further work waits for agent review",
			statuses: []models.StepStatus{models.StepStatusApproved, models.StepStatusNotStarted},
			want:     models.ApplicationStatusWaitingForAgentReview,
		},
		{
			name:     "skipped and awaiting response fall through to agent review",
			statuses: []models.StepStatus{models.StepStatusSkipped, models.StepStatusAwaitingResponse},
			want:     models.ApplicationStatusWaitingForAgentReview,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AggregateStatus(stepsWithStatuses(tt.statuses...)))
		})
	}
}

func TestAggregateStatusIsDeterministic(t *testing.T) {
	steps := stepsWithStatuses(
		models.StepStatusApproved,
		models.StepStatusStarted,
		models.StepStatusNotStarted,
	)

	first := AggregateStatus(steps)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, AggregateStatus(steps))
	}
}

func TestAggregateStatusIsTotal(t *testing.T) {
	// Every single-status input must land on exactly one canonical outcome.
	all := []models.StepStatus{
		models.StepStatusNotStarted,
		models.StepStatusStarted,
		models.StepStatusSubmittedForReview,
		models.StepStatusAwaitingResponse,
		models.StepStatusApproved,
		models.StepStatusDeclined,
		models.StepStatusSkipped,
		models.StepStatusAwaitingClientResponse,
	}

	canonical := map[models.ApplicationStatus]bool{
		models.ApplicationStatusRejected:              true,
		models.ApplicationStatusCompleted:             true,
		models.ApplicationStatusInProgress:            true,
		models.ApplicationStatusReadyForProcessing:    true,
		models.ApplicationStatusWaitingForAgentReview: true,
	}

	for _, s := range all {
		got := AggregateStatus(stepsWithStatuses(s))
		assert.True(t, canonical[got], "status %q produced non-canonical outcome %q", s, got)
	}
}

func TestValidStepStatus(t *testing.T) {
	assert.True(t, ValidStepStatus(models.StepStatusAwaitingClientResponse))
	assert.False(t, ValidStepStatus(models.StepStatus("Done")))
	assert.False(t, ValidStepStatus(models.StepStatus("")))
}
