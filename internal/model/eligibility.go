package model

// EligibilityRequest is the payload sent to the eligibility service.
type EligibilityRequest struct {
	Patient  EligibilityPatient  `json:"patient"`
	Clinical Clinical            `json:"clinical"`
	Provider EligibilityProvider `json:"provider"`
}

type EligibilityPatient struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	DOB           string `json:"dob"`
	MemberID      string `json:"memberId"`
	InsurancePlan string `json:"insurancePlan"`
}

type EligibilityProvider struct {
	NPI          string `json:"npi"`
	FacilityName string `json:"facilityName"`
}

// PlanBenefits is present iff the patient is eligible.
type PlanBenefits struct {
	Copay               float64 `json:"copay"`
	Deductible          float64 `json:"deductible"`
	DeductibleRemaining float64 `json:"deductibleRemaining"`
	Coinsurance         string  `json:"coinsurance"`
	CoveragePercent     float64 `json:"coveragePercent"`
}

type ResponseMetadata struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
}

// EligibilityResponse is an immutable decision record. It is never
// modified after the decisioning service produced it.
type EligibilityResponse struct {
	Eligible        bool             `json:"eligible"`
	PreAuthRequired bool             `json:"preAuthRequired"`
	PlanBenefits    *PlanBenefits    `json:"planBenefits"`
	Evidence        []string         `json:"evidence"`
	Metadata        ResponseMetadata `json:"metadata"`
}

// Clone returns a deep copy of the response.
func (r EligibilityResponse) Clone() EligibilityResponse {
	out := r
	if r.PlanBenefits != nil {
		pb := *r.PlanBenefits
		out.PlanBenefits = &pb
	}
	if r.Evidence != nil {
		out.Evidence = append([]string(nil), r.Evidence...)
	}
	return out
}
