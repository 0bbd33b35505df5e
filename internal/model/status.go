package model

// EligibilityDisplayStatus is the roster-list rendering of the latest
// eligibility decision. Derived, never stored.
type EligibilityDisplayStatus string

const (
	EligibilityDisplayPending     EligibilityDisplayStatus = "Pending"
	EligibilityDisplayEligible    EligibilityDisplayStatus = "Eligible"
	EligibilityDisplayNotEligible EligibilityDisplayStatus = "Not Eligible"
)

// PADisplayStatus is the roster-list rendering of the latest pre-auth
// state. Derived, never stored.
type PADisplayStatus string

const (
	PADisplayApproved    PADisplayStatus = "Approved"
	PADisplayDenied      PADisplayStatus = "Denied"
	PADisplaySubmitted   PADisplayStatus = "Submitted"
	PADisplayRequired    PADisplayStatus = "Required"
	PADisplayNotRequired PADisplayStatus = "Not Required"
	PADisplayPending     PADisplayStatus = "Pending"
)

// EligibilityDisplay derives the eligibility status badge from a
// patient's latest treatment.
func EligibilityDisplay(t *Treatment) EligibilityDisplayStatus {
	if t == nil || t.EligibilityResponse == nil {
		return EligibilityDisplayPending
	}
	if t.EligibilityResponse.Eligible {
		return EligibilityDisplayEligible
	}
	return EligibilityDisplayNotEligible
}

// PADisplay derives the pre-auth status badge from a patient's latest
// treatment. Unrecognized service status strings render as Submitted.
func PADisplay(t *Treatment) PADisplayStatus {
	if t == nil {
		return PADisplayNotRequired
	}
	if t.PreAuthResponse != nil {
		switch t.PreAuthResponse.Status {
		case PreAuthStatusApproved:
			return PADisplayApproved
		case PreAuthStatusDenied:
			return PADisplayDenied
		case PreAuthStatusSubmitted:
			return PADisplaySubmitted
		case PreAuthStatusPending:
			return PADisplayPending
		default:
			return PADisplaySubmitted
		}
	}
	if t.EligibilityResponse != nil && t.EligibilityResponse.PreAuthRequired {
		return PADisplayRequired
	}
	return PADisplayNotRequired
}
