package model

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Patient is one insured individual on the roster. The integer ID is
// internal; MemberID is the insurer-assigned identifier.
//
// Treatments is an ordered log: insertion order is chronological order
// and the last element is the most recent.
type Patient struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	MemberID string `json:"memberId"`
	DOB      string `json:"dob"`
	Insurer  string `json:"insurer,omitempty"`

	Mobile         string `json:"mobile,omitempty"`
	Email          string `json:"email,omitempty"`
	Gender         Gender `json:"gender,omitempty"`
	Age            int    `json:"age,omitempty"`
	BloodGroup     string `json:"bloodGroup,omitempty"`
	Vitals         string `json:"vitals,omitempty"`
	MedicalHistory string `json:"medicalHistory,omitempty"`
	Diagnosis      string `json:"diagnosis,omitempty"`
	Prescription   string `json:"prescription,omitempty"`
	LabOrders      string `json:"labOrders,omitempty"`

	Treatments []Treatment `json:"treatments"`
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing the roster's backing slices.
func (p Patient) Clone() Patient {
	out := p
	if p.Treatments != nil {
		out.Treatments = make([]Treatment, len(p.Treatments))
		for i, t := range p.Treatments {
			out.Treatments[i] = t.Clone()
		}
	}
	return out
}

// LatestTreatment returns the most recent treatment, or nil if the
// patient has none.
func (p *Patient) LatestTreatment() *Treatment {
	if len(p.Treatments) == 0 {
		return nil
	}
	return &p.Treatments[len(p.Treatments)-1]
}

type CreatePatientRequest struct {
	Name           string `json:"name" binding:"required"`
	MemberID       string `json:"memberId" binding:"required"`
	Insurer        string `json:"insurer"`
	Age            int    `json:"age" binding:"required,gte=0,lte=150"`
	Mobile         string `json:"mobile"`
	Email          string `json:"email" binding:"omitempty,email"`
	Gender         Gender `json:"gender" binding:"omitempty,oneof=Male Female Other"`
	BloodGroup     string `json:"bloodGroup" binding:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Vitals         string `json:"vitals"`
	MedicalHistory string `json:"medicalHistory"`
	Diagnosis      string `json:"diagnosis"`
	Prescription   string `json:"prescription"`
	LabOrders      string `json:"labOrders"`
}
