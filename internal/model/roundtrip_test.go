package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The roster must survive serialize/deserialize unchanged: this is the
// persistence fidelity guarantee the storage layer relies on.
func TestRosterRoundTrip(t *testing.T) {
	roster := []Patient{
		{
			ID:       1,
			Name:     "Jessica Wilson",
			MemberID: "BCBS-884512",
			DOB:      "1972-04-18",
			Insurer:  "BlueCross PPO",
			Gender:   GenderFemale,
			Age:      53,
			Treatments: []Treatment{
				{
					ID: "TREAT-abc",
					Clinical: Clinical{
						DiagnosisCode: "M17.11",
						ProcedureCode: "27447",
						ProcedureName: "Total Knee Arthroplasty",
						ProcedureDate: "2025-07-15",
					},
					EligibilityResponse: &EligibilityResponse{
						Eligible:        true,
						PreAuthRequired: true,
						PlanBenefits: &PlanBenefits{
							Copay:               40,
							Deductible:          1000,
							DeductibleRemaining: 350,
							Coinsurance:         "20%",
							CoveragePercent:     80,
						},
						Evidence: []string{"covered", "PA required"},
						Metadata: ResponseMetadata{RequestID: "ELIG-48213", Timestamp: "2025-07-01T14:20:00Z"},
					},
					PreAuthResponse: &PreAuthResponse{
						PreAuthID:  "PA-812930",
						Status:     PreAuthStatusSubmitted,
						PARequired: true,
						AIAssessment: AIAssessment{
							MedicalNecessityMet: true,
							Evidence:            []string{"imaging provided"},
						},
						TurnaroundTime: "72 hours",
						Metadata:       PreAuthMetadata{Timestamp: "2025-07-02T09:05:00Z"},
					},
				},
			},
		},
		{
			ID:         2,
			Name:       "John Doe",
			MemberID:   "AET-105873",
			DOB:        "1964-11-02",
			Treatments: []Treatment{},
		},
	}

	data, err := json.Marshal(roster)
	require.NoError(t, err)

	var decoded []Patient
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, roster, decoded)
}
