package model

// Clinical is the clinical context of one eligibility check, frozen at
// the moment the check was requested.
type Clinical struct {
	DiagnosisCode string `json:"diagnosisCode"`
	ProcedureCode string `json:"procedureCode"`
	ProcedureName string `json:"procedureName"`
	ProcedureDate string `json:"procedureDate" binding:"omitempty,dateonly"`
}

// Treatment records one eligibility-check occurrence for a patient.
//
// A treatment is created atomically with its eligibility response and
// is mutated at most once afterwards, to attach a pre-auth response.
// PreAuthResponse may only be non-nil when EligibilityResponse is
// non-nil and flagged pre-auth required.
type Treatment struct {
	ID                  string               `json:"id"`
	Clinical            Clinical             `json:"clinical"`
	EligibilityResponse *EligibilityResponse `json:"eligibilityResponse"`
	PreAuthResponse     *PreAuthResponse     `json:"preAuthResponse"`
}

// Clone returns a deep copy of the treatment.
func (t Treatment) Clone() Treatment {
	out := t
	if t.EligibilityResponse != nil {
		er := t.EligibilityResponse.Clone()
		out.EligibilityResponse = &er
	}
	if t.PreAuthResponse != nil {
		pr := t.PreAuthResponse.Clone()
		out.PreAuthResponse = &pr
	}
	return out
}
