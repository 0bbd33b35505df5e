package model

// PreAuthStatus is the status string returned by the pre-auth service.
type PreAuthStatus string

const (
	PreAuthStatusSubmitted PreAuthStatus = "Submitted"
	PreAuthStatusApproved  PreAuthStatus = "Approved"
	PreAuthStatusDenied    PreAuthStatus = "Denied"
	PreAuthStatusPending   PreAuthStatus = "Pending"
)

// Document is an attached file rendered as a plain encoded payload.
// There is no binary transport path to the decisioning service.
type Document struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	Base64   string `json:"base64"`
}

// PreAuthRequest is the submission payload sent to the pre-auth
// service. EligibilityRequestID ties the submission back to the
// eligibility decision it is downstream of.
type PreAuthRequest struct {
	EligibilityRequestID string          `json:"eligibilityRequestId"`
	Patient              PreAuthPatient  `json:"patient"`
	Clinical             PreAuthClinical `json:"clinical"`
	Documents            []Document      `json:"documents"`
	Provider             PreAuthProvider `json:"provider"`
}

type PreAuthPatient struct {
	MemberID  string `json:"memberId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type PreAuthClinical struct {
	DiagnosisCode string `json:"diagnosisCode"`
	ProcedureCode string `json:"procedureCode"`
	ProcedureName string `json:"procedureName"`
}

type PreAuthProvider struct {
	NPI           string `json:"npi"`
	PhysicianName string `json:"physicianName"`
}

type AIAssessment struct {
	MedicalNecessityMet bool     `json:"medicalNecessityMet"`
	Evidence            []string `json:"evidence"`
}

type PreAuthMetadata struct {
	Timestamp string `json:"timestamp"`
}

// PreAuthResponse is an immutable submission record.
type PreAuthResponse struct {
	PreAuthID      string          `json:"preAuthId"`
	Status         PreAuthStatus   `json:"status"`
	PARequired     bool            `json:"paRequired"`
	AIAssessment   AIAssessment    `json:"aiAssessment"`
	TurnaroundTime string          `json:"turnaroundTime"`
	Metadata       PreAuthMetadata `json:"metadata"`
}

// Clone returns a deep copy of the response.
func (r PreAuthResponse) Clone() PreAuthResponse {
	out := r
	if r.AIAssessment.Evidence != nil {
		out.AIAssessment.Evidence = append([]string(nil), r.AIAssessment.Evidence...)
	}
	return out
}
