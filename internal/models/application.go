// internal/models/application.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Application is the aggregate root of the onboarding workflow: one per
// customer, owning its steps, visa sub-steps and notes. All workflow
// mutations go through the application service so the overall status stays a
// function of the step statuses.
type Application struct {
	BaseModel
	CustomerID      uuid.UUID         `json:"customer_id" gorm:"type:uuid;uniqueIndex;not null"`
	AssignedAgentID *uuid.UUID        `json:"assigned_agent_id" gorm:"type:uuid"`
	Status          ApplicationStatus `json:"status" gorm:"type:varchar(40);default:'New'"`
	SharedNote      *string           `json:"shared_note"`
	IsLocked        bool              `json:"is_locked" gorm:"default:false"`

	Steps        []Step        `json:"steps" gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE"`
	VisaSubSteps []VisaSubStep `json:"visa_sub_steps" gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE"`
	Notes        []Note        `json:"notes" gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE"`

	// Relationships
	Customer *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Agent    *User     `json:"agent,omitempty" gorm:"foreignKey:AssignedAgentID"`
}

// Step is one named unit of the jurisdiction's fixed workflow. The step set
// is created once with the application; only statuses change afterwards.
type Step struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ApplicationID uuid.UUID  `json:"-" gorm:"type:uuid;index;not null"`
	Position      int        `json:"position" gorm:"not null"`
	Name          string     `json:"name" gorm:"size:100;not null"`
	Optional      bool       `json:"optional" gorm:"default:false"`
	Status        StepStatus `json:"status" gorm:"type:varchar(40);default:'Not Started'"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// VisaSubStep tracks one dependent within the visa portion of an application.
type VisaSubStep struct {
	ID            uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ApplicationID uuid.UUID        `json:"-" gorm:"type:uuid;index;not null"`
	MemberID      string           `json:"member_id" gorm:"size:100;not null"`
	Status        VisaMemberStatus `json:"status" gorm:"type:varchar(40);default:'Submitted for Review'"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Note is an immutable agent comment on an application.
type Note struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ApplicationID uuid.UUID `json:"-" gorm:"type:uuid;index;not null"`
	Message       string    `json:"message" gorm:"type:text;not null"`
	AddedBy       uuid.UUID `json:"added_by" gorm:"type:uuid"`
	Timestamp     time.Time `json:"timestamp"`
}

// StepIndex returns a name-keyed view over the ordered step slice. Lookups
// and invariant checks go through this instead of scanning by name.
func (a *Application) StepIndex() map[string]*Step {
	idx := make(map[string]*Step, len(a.Steps))
	for i := range a.Steps {
		idx[a.Steps[i].Name] = &a.Steps[i]
	}
	return idx
}

// FindStep returns the step with the given name, matched exactly.
func (a *Application) FindStep(name string) *Step {
	for i := range a.Steps {
		if a.Steps[i].Name == name {
			return &a.Steps[i]
		}
	}
	return nil
}

// FindMember returns the visa sub-step for the given dependent, if any.
func (a *Application) FindMember(memberID string) *VisaSubStep {
	for i := range a.VisaSubSteps {
		if a.VisaSubSteps[i].MemberID == memberID {
			return &a.VisaSubSteps[i]
		}
	}
	return nil
}
