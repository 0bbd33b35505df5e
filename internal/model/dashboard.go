package model

// DashboardStats are the KPI counts shown on the portal dashboard,
// derived from the roster on request.
type DashboardStats struct {
	TotalPatients              int `json:"totalPatients"`
	EligibilityChecksCompleted int `json:"eligibilityChecksCompleted"`
	PreAuthsSubmitted          int `json:"preAuthsSubmitted"`
	PendingPreAuths            int `json:"pendingPreAuths"`
}

// ComputeDashboardStats folds the roster into dashboard KPI counts.
// A pre-auth counts as pending while its status is Submitted or Pending.
func ComputeDashboardStats(patients []Patient) DashboardStats {
	stats := DashboardStats{TotalPatients: len(patients)}
	for _, p := range patients {
		for _, t := range p.Treatments {
			if t.EligibilityResponse != nil {
				stats.EligibilityChecksCompleted++
			}
			if t.PreAuthResponse != nil {
				stats.PreAuthsSubmitted++
				switch t.PreAuthResponse.Status {
				case PreAuthStatusSubmitted, PreAuthStatusPending:
					stats.PendingPreAuths++
				}
			}
		}
	}
	return stats
}

// TimelineIcon classifies a timeline event for rendering.
type TimelineIcon string

const (
	TimelineIconCheck    TimelineIcon = "check"
	TimelineIconSubmit   TimelineIcon = "submit"
	TimelineIconApproved TimelineIcon = "approved"
	TimelineIconRejected TimelineIcon = "rejected"
	TimelineIconPending  TimelineIcon = "pending"
)

// TimelineEvent is one entry in the dashboard activity feed.
type TimelineEvent struct {
	ID          int          `json:"id"`
	PatientName string       `json:"patientName"`
	Action      string       `json:"action"`
	Timestamp   string       `json:"timestamp"`
	Icon        TimelineIcon `json:"icon"`
}
