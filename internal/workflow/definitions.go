// internal/workflow/definitions.go
package workflow

import "strings"

// StepDefinition is one entry of a jurisdiction's fixed workflow.
type StepDefinition struct {
	Name     string `json:"name"`
	Optional bool   `json:"optional"`
}

// VisaStepName is the main step gated by per-member visa sub-steps instead
// of document requirements.
const VisaStepName = "Visa Application"

// Per-jurisdiction workflows. The step set is fixed at application creation;
// steps are never renamed or reordered afterwards.
var jurisdictionWorkflows = map[string][]StepDefinition{
	"uae": {
		{Name: "KYC & Background Check"},
		{Name: "Office Space Leasing"},
		{Name: "Trade License Creation"},
		{Name: "Establishment Card & Visa Allocation"},
		{Name: VisaStepName},
		{Name: "Tax Registration", Optional: true},
		{Name: "Banking Setup"},
	},
	"ksa": {
		{Name: "KYC & Background Check"},
		{Name: "MISA License Registration"},
		{Name: "Commercial Registration"},
		{Name: "Office Space Leasing"},
		{Name: VisaStepName},
		{Name: "Tax Registration"},
		{Name: "Banking Setup"},
	},
	"qatar": {
		{Name: "KYC & Background Check"},
		{Name: "Trade License Creation"},
		{Name: "Office Space Leasing"},
		{Name: VisaStepName},
		{Name: "Banking Setup", Optional: true},
	},
}

// StepsFor returns the ordered step list for a jurisdiction. The lookup is
// case-insensitive; the returned slice is a copy.
func StepsFor(jurisdiction string) ([]StepDefinition, error) {
	steps, ok := jurisdictionWorkflows[strings.ToLower(strings.TrimSpace(jurisdiction))]
	if !ok {
		return nil, ErrUnknownJurisdiction
	}

	out := make([]StepDefinition, len(steps))
	copy(out, steps)
	return out, nil
}

// Jurisdictions lists the known jurisdiction codes.
func Jurisdictions() []string {
	codes := make([]string, 0, len(jurisdictionWorkflows))
	for code := range jurisdictionWorkflows {
		codes = append(codes, code)
	}
	return codes
}
