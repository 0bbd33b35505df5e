package roster

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunrisehealth/portal-api/internal/model"
	apperrors "github.com/sunrisehealth/portal-api/pkg/errors"
)

type fakeRepo struct {
	patients []model.Patient
	loadErr  error
	saves    [][]model.Patient
	saveErr  error
}

func (r *fakeRepo) Load(_ context.Context) ([]model.Patient, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return r.patients, nil
}

func (r *fakeRepo) Save(_ context.Context, patients []model.Patient) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	snapshot := make([]model.Patient, len(patients))
	for i, p := range patients {
		snapshot[i] = p.Clone()
	}
	r.saves = append(r.saves, snapshot)
	return nil
}

type fakeSeeder struct {
	patients []model.Patient
	err      error
}

func (s *fakeSeeder) Load(_ context.Context) ([]model.Patient, error) {
	return s.patients, s.err
}

type fakeAgent struct {
	eligResp *model.EligibilityResponse
	eligErr  error
	preResp  *model.PreAuthResponse
	preErr   error

	eligReqs []*model.EligibilityRequest
	preReqs  []*model.PreAuthRequest
}

func (a *fakeAgent) CheckEligibility(_ context.Context, req *model.EligibilityRequest) (*model.EligibilityResponse, error) {
	a.eligReqs = append(a.eligReqs, req)
	if a.eligErr != nil {
		return nil, a.eligErr
	}
	return a.eligResp, nil
}

func (a *fakeAgent) SubmitPreAuth(_ context.Context, req *model.PreAuthRequest) (*model.PreAuthResponse, error) {
	a.preReqs = append(a.preReqs, req)
	if a.preErr != nil {
		return nil, a.preErr
	}
	return a.preResp, nil
}

var testNow = time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo, seeder *fakeSeeder, agentClient *fakeAgent) *Service {
	nop := zerolog.Nop()
	svc := NewService(repo, seeder, agentClient, nil, ProviderConfig{
		NPI:           "1234567890",
		FacilityName:  "Sunrise Hospital",
		PhysicianName: "Dr. Smith",
	}, DefaultPageSize, &nop, nil)

	svc.now = func() time.Time { return testNow }
	nextID := 0
	svc.newID = func() string {
		nextID++
		return fmt.Sprintf("TREAT-%d", nextID)
	}
	return svc
}

func hydrated(svc *Service, patients ...model.Patient) *Service {
	svc.patients = patients
	svc.hydrated = true
	return svc
}

func eligibleResponse(preAuthRequired bool) *model.EligibilityResponse {
	return &model.EligibilityResponse{
		Eligible:        true,
		PreAuthRequired: preAuthRequired,
		PlanBenefits:    &model.PlanBenefits{Copay: 40},
		Evidence:        []string{"covered"},
		Metadata:        model.ResponseMetadata{RequestID: "ELIG-48213", Timestamp: "2025-08-20T12:00:00Z"},
	}
}

func TestAddPatientAssignsFirstID(t *testing.T) {
	repo := &fakeRepo{}
	svc := hydrated(newTestService(repo, &fakeSeeder{}, &fakeAgent{}))

	patient, err := svc.AddPatient(context.Background(), &model.CreatePatientRequest{
		Name:     "Jane Doe",
		MemberID: "BCBS-000001",
		Age:      40,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, patient.ID)
	assert.Equal(t, "1985-08-20", patient.DOB)
	assert.NotNil(t, patient.Treatments)
	assert.Empty(t, patient.Treatments)
	require.Len(t, repo.saves, 1)
}

func TestAddPatientAssignsMaxPlusOne(t *testing.T) {
	svc := hydrated(newTestService(&fakeRepo{}, &fakeSeeder{}, &fakeAgent{}),
		model.Patient{ID: 3}, model.Patient{ID: 7}, model.Patient{ID: 2})

	patient, err := svc.AddPatient(context.Background(), &model.CreatePatientRequest{
		Name:     "New Patient",
		MemberID: "AET-000002",
		Age:      30,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, patient.ID)
}

func TestAddPatientDoesNotMutateInput(t *testing.T) {
	svc := hydrated(newTestService(&fakeRepo{}, &fakeSeeder{}, &fakeAgent{}))

	req := model.CreatePatientRequest{Name: "Jane Doe", MemberID: "M-1", Age: 40}
	before := req
	_, err := svc.AddPatient(context.Background(), &req)
	require.NoError(t, err)
	assert.Equal(t, before, req)
}

func TestUpdatePatientMissReturnsNotFound(t *testing.T) {
	repo := &fakeRepo{}
	svc := hydrated(newTestService(repo, &fakeSeeder{}, &fakeAgent{}),
		model.Patient{ID: 1, Name: "Jane Doe"})

	err := svc.UpdatePatient(context.Background(), &model.Patient{ID: 99, Name: "Ghost"})
	assert.True(t, apperrors.IsNotFound(err))

	// Roster untouched, nothing persisted.
	got, err := svc.GetPatient(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Empty(t, repo.saves)
}

func TestUpdatePatientReplacesMatch(t *testing.T) {
	repo := &fakeRepo{}
	svc := hydrated(newTestService(repo, &fakeSeeder{}, &fakeAgent{}),
		model.Patient{ID: 1, Name: "Jane Doe"}, model.Patient{ID: 2, Name: "John Doe"})

	err := svc.UpdatePatient(context.Background(), &model.Patient{ID: 2, Name: "John Q. Doe"})
	require.NoError(t, err)

	got, err := svc.GetPatient(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "John Q. Doe", got.Name)
	require.Len(t, repo.saves, 1)
}

func TestPersistSkippedBeforeHydrate(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeSeeder{}, &fakeAgent{})

	_, err := svc.AddPatient(context.Background(), &model.CreatePatientRequest{
		Name: "Early Bird", MemberID: "M-1", Age: 20,
	})
	require.NoError(t, err)
	assert.Empty(t, repo.saves)
}

func TestHydrateUsesPersistedRoster(t *testing.T) {
	repo := &fakeRepo{patients: []model.Patient{{ID: 1, Name: "Jane Doe"}}}
	seeder := &fakeSeeder{patients: []model.Patient{{ID: 9, Name: "Seed Patient"}}}
	svc := newTestService(repo, seeder, &fakeAgent{})

	svc.Hydrate(context.Background())

	got, err := svc.GetPatient(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	// Persisted state was usable, so it is not re-saved.
	assert.Empty(t, repo.saves)
}

func TestHydrateSeedsWhenNoPersistedState(t *testing.T) {
	repo := &fakeRepo{loadErr: apperrors.NewNotFound("roster", nil)}
	seeder := &fakeSeeder{patients: []model.Patient{{ID: 1, Name: "Seed Patient"}}}
	svc := newTestService(repo, seeder, &fakeAgent{})

	svc.Hydrate(context.Background())

	got, err := svc.GetPatient(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Seed Patient", got.Name)
	assert.NotNil(t, got.Treatments)
	require.Len(t, repo.saves, 1)
}

func TestHydrateFallsBackToEmptyRoster(t *testing.T) {
	repo := &fakeRepo{loadErr: apperrors.NewNotFound("roster", nil)}
	seeder := &fakeSeeder{err: errors.New("seed source unreachable")}
	svc := newTestService(repo, seeder, &fakeAgent{})

	svc.Hydrate(context.Background())

	page, err := svc.ListPatients(context.Background(), "", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	// Hydration completed, so later mutations persist.
	_, err = svc.AddPatient(context.Background(), &model.CreatePatientRequest{
		Name: "Jane Doe", MemberID: "M-1", Age: 40,
	})
	require.NoError(t, err)
	assert.Len(t, repo.saves, 1)
}

func TestRunEligibilityCheckAppendsTreatment(t *testing.T) {
	repo := &fakeRepo{}
	agentClient := &fakeAgent{eligResp: eligibleResponse(true)}
	svc := hydrated(newTestService(repo, &fakeSeeder{}, agentClient),
		model.Patient{ID: 1, Name: "Jessica Marie Wilson", MemberID: "BCBS-884512", DOB: "1972-04-18", Treatments: []model.Treatment{}})

	clinical := model.Clinical{
		DiagnosisCode: "M17.11",
		ProcedureCode: "27447",
		ProcedureName: "Total Knee Arthroplasty",
		ProcedureDate: "2025-08-25",
	}

	treatment, err := svc.RunEligibilityCheck(context.Background(), 1, clinical)
	require.NoError(t, err)

	assert.Equal(t, "TREAT-1", treatment.ID)
	assert.Equal(t, clinical, treatment.Clinical)
	assert.NotNil(t, treatment.EligibilityResponse)
	assert.Nil(t, treatment.PreAuthResponse)

	// Request was built from patient demographics.
	require.Len(t, agentClient.eligReqs, 1)
	req := agentClient.eligReqs[0]
	assert.Equal(t, "Jessica", req.Patient.FirstName)
	assert.Equal(t, "Marie Wilson", req.Patient.LastName)
	assert.Equal(t, "BCBS-884512", req.Patient.MemberID)
	assert.Equal(t, "Unknown", req.Patient.InsurancePlan)
	assert.Equal(t, "Sunrise Hospital", req.Provider.FacilityName)

	got, err := svc.GetPatient(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got.Treatments, 1)
	require.Len(t, repo.saves, 1)
}

func TestRunEligibilityCheckAgentFailureCreatesNothing(t *testing.T) {
	repo := &fakeRepo{}
	agentClient := &fakeAgent{eligErr: errors.New("connection refused")}
	svc := hydrated(newTestService(repo, &fakeSeeder{}, agentClient),
		model.Patient{ID: 1, Name: "Jane Doe", Treatments: []model.Treatment{}})

	_, err := svc.RunEligibilityCheck(context.Background(), 1, model.Clinical{ProcedureCode: "27447"})
	assert.True(t, apperrors.IsServiceUnavailable(err))

	got, _ := svc.GetPatient(context.Background(), 1)
	assert.Empty(t, got.Treatments)
	assert.Empty(t, repo.saves)
}

func TestRunEligibilityCheckUnknownPatient(t *testing.T) {
	svc := hydrated(newTestService(&fakeRepo{}, &fakeSeeder{}, &fakeAgent{}))

	_, err := svc.RunEligibilityCheck(context.Background(), 42, model.Clinical{})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSubmitPreAuthAttachesResponse(t *testing.T) {
	repo := &fakeRepo{}
	agentClient := &fakeAgent{
		preResp: &model.PreAuthResponse{
			PreAuthID:      "PA-812930",
			Status:         model.PreAuthStatusSubmitted,
			PARequired:     true,
			TurnaroundTime: "72 hours",
		},
	}
	svc := hydrated(newTestService(repo, &fakeSeeder{}, agentClient), model.Patient{
		ID: 1, Name: "Jane Doe", MemberID: "M-1",
		Treatments: []model.Treatment{{
			ID:                  "TREAT-1",
			Clinical:            model.Clinical{DiagnosisCode: "M17.11", ProcedureCode: "27447", ProcedureName: "Total Knee Arthroplasty"},
			EligibilityResponse: eligibleResponse(true),
		}},
	})

	doc := model.Document{FileName: "imaging.pdf", FileType: "application/pdf", Base64: "aGVsbG8="}

	treatment, err := svc.SubmitPreAuth(context.Background(), 1, "TREAT-1", doc)
	require.NoError(t, err)
	require.NotNil(t, treatment.PreAuthResponse)
	assert.Equal(t, model.PreAuthStatusSubmitted, treatment.PreAuthResponse.Status)

	require.Len(t, agentClient.preReqs, 1)
	req := agentClient.preReqs[0]
	assert.Equal(t, "ELIG-48213", req.EligibilityRequestID)
	assert.Equal(t, "27447", req.Clinical.ProcedureCode)
	require.Len(t, req.Documents, 1)
	assert.Equal(t, doc, req.Documents[0])

	got, _ := svc.GetPatient(context.Background(), 1)
	assert.NotNil(t, got.Treatments[0].PreAuthResponse)
	require.Len(t, repo.saves, 1)
}

func TestSubmitPreAuthGuards(t *testing.T) {
	tests := []struct {
		name         string
		treatment    model.Treatment
		treatmentID  string
		wantNotFound bool
	}{
		{
			name:         "treatment not found",
			treatment:    model.Treatment{ID: "TREAT-1", EligibilityResponse: eligibleResponse(true)},
			treatmentID:  "TREAT-missing",
			wantNotFound: true,
		},
		{
			name:        "no eligibility decision",
			treatment:   model.Treatment{ID: "TREAT-1"},
			treatmentID: "TREAT-1",
		},
		{
			name:        "pre-auth not required",
			treatment:   model.Treatment{ID: "TREAT-1", EligibilityResponse: eligibleResponse(false)},
			treatmentID: "TREAT-1",
		},
		{
			name: "already submitted",
			treatment: model.Treatment{
				ID:                  "TREAT-1",
				EligibilityResponse: eligibleResponse(true),
				PreAuthResponse:     &model.PreAuthResponse{PreAuthID: "PA-1", Status: model.PreAuthStatusSubmitted},
			},
			treatmentID: "TREAT-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			agentClient := &fakeAgent{}
			svc := hydrated(newTestService(repo, &fakeSeeder{}, agentClient), model.Patient{
				ID: 1, Name: "Jane Doe",
				Treatments: []model.Treatment{tt.treatment},
			})

			_, err := svc.SubmitPreAuth(context.Background(), 1, tt.treatmentID, model.Document{FileName: "doc.pdf"})
			require.Error(t, err)
			if tt.wantNotFound {
				assert.True(t, apperrors.IsNotFound(err))
			} else {
				assert.True(t, apperrors.IsConflict(err))
			}

			// The agent is never called and nothing is persisted.
			assert.Empty(t, agentClient.preReqs)
			assert.Empty(t, repo.saves)
		})
	}
}

func TestSubmitPreAuthAgentFailureLeavesTreatmentUntouched(t *testing.T) {
	repo := &fakeRepo{}
	agentClient := &fakeAgent{preErr: errors.New("gateway timeout")}
	svc := hydrated(newTestService(repo, &fakeSeeder{}, agentClient), model.Patient{
		ID: 1, Name: "Jane Doe",
		Treatments: []model.Treatment{{ID: "TREAT-1", EligibilityResponse: eligibleResponse(true)}},
	})

	_, err := svc.SubmitPreAuth(context.Background(), 1, "TREAT-1", model.Document{FileName: "doc.pdf"})
	assert.True(t, apperrors.IsServiceUnavailable(err))

	got, _ := svc.GetPatient(context.Background(), 1)
	assert.Nil(t, got.Treatments[0].PreAuthResponse)
	assert.Empty(t, repo.saves)
}

func TestStats(t *testing.T) {
	svc := hydrated(newTestService(&fakeRepo{}, &fakeSeeder{}, &fakeAgent{}),
		model.Patient{ID: 1, Treatments: []model.Treatment{{
			EligibilityResponse: eligibleResponse(true),
			PreAuthResponse:     &model.PreAuthResponse{Status: model.PreAuthStatusPending},
		}}},
		model.Patient{ID: 2},
	)

	stats := svc.Stats(context.Background())
	assert.Equal(t, 2, stats.TotalPatients)
	assert.Equal(t, 1, stats.EligibilityChecksCompleted)
	assert.Equal(t, 1, stats.PreAuthsSubmitted)
	assert.Equal(t, 1, stats.PendingPreAuths)
}
