// internal/workflow/errors.go
package workflow

import "errors"

var (
	ErrUnknownJurisdiction = errors.New("workflow steps not defined for jurisdiction")
	ErrStepNotFound        = errors.New("step not found")
	ErrInvalidStepStatus   = errors.New("invalid step status")
	ErrMemberNotFound      = errors.New("visa member not found")
	ErrDuplicateMember     = errors.New("visa member already added")
	ErrInvalidMemberStatus = errors.New("invalid visa member status")
	ErrInvalidDecision     = errors.New("invalid decision type")
	ErrApplicationLocked   = errors.New("application is locked")
)
