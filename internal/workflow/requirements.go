// internal/workflow/requirements.go
package workflow

// Required document types per step. A step with no entry (or an empty set)
// is not document-gated: it is approved manually or, for the visa step,
// through member sub-steps.
var stepDocumentRequirements = map[string][]string{
	"KYC & Background Check":               {"passportCopy", "passportPhoto", "proofOfAddress"},
	"Office Space Leasing":                 {"signedLeaseAgreement"},
	"Trade License Creation":               {"tradeLicenseCopy"},
	"Establishment Card & Visa Allocation": {"passportCopy", "tradeLicenseCopy"},
	VisaStepName:                           {}, // gated by visa sub-steps
	"Tax Registration":                     {"vatCertificate", "corporateTaxCertificate"},
	"Banking Setup":                        {"bankAccountProof"},
	"MISA License Registration":            {"misaLicenseCopy"},
	"Commercial Registration":              {"commercialRegistrationCopy"},
}

// RequiredDocuments returns the document-type tokens a step needs before it
// can auto-approve. The returned slice is a copy; an empty result means the
// step is not document-gated.
func RequiredDocuments(stepName string) []string {
	required, ok := stepDocumentRequirements[stepName]
	if !ok || len(required) == 0 {
		return nil
	}

	out := make([]string, len(required))
	copy(out, required)
	return out
}
