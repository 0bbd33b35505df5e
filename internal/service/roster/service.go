package roster

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sunrisehealth/portal-api/internal/agent"
	"github.com/sunrisehealth/portal-api/internal/model"
	"github.com/sunrisehealth/portal-api/internal/repository"
	"github.com/sunrisehealth/portal-api/internal/service/timeline"
	apperrors "github.com/sunrisehealth/portal-api/pkg/errors"
	"github.com/sunrisehealth/portal-api/pkg/metrics"
)

// Seeder supplies the initial roster when no persisted state exists.
type Seeder interface {
	Load(ctx context.Context) ([]model.Patient, error)
}

// ProviderConfig carries the facility identity stamped onto outgoing
// agent requests.
type ProviderConfig struct {
	NPI           string
	FacilityName  string
	PhysicianName string
}

type RosterService interface {
	Hydrate(ctx context.Context)
	ListPatients(ctx context.Context, search string, page int) (*PatientPage, error)
	GetPatient(ctx context.Context, id int) (*model.Patient, error)
	AddPatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error)
	UpdatePatient(ctx context.Context, patient *model.Patient) error
	RunEligibilityCheck(ctx context.Context, patientID int, clinical model.Clinical) (*model.Treatment, error)
	SubmitPreAuth(ctx context.Context, patientID int, treatmentID string, doc model.Document) (*model.Treatment, error)
	Stats(ctx context.Context) model.DashboardStats
}

// Service owns the in-memory roster and is its only writer. Mutations
// are serialized behind the mutex; readers get deep-copied snapshots.
type Service struct {
	mu       sync.RWMutex
	patients []model.Patient
	hydrated bool

	repo     repository.RosterRepository
	seeder   Seeder
	agent    agent.Client
	timeline *timeline.Service
	provider ProviderConfig
	pageSize int
	logger   *zerolog.Logger
	metrics  *metrics.Metrics

	// test seams
	now   func() time.Time
	newID func() string
}

var _ RosterService = (*Service)(nil)

func NewService(repo repository.RosterRepository, seeder Seeder, agentClient agent.Client, tl *timeline.Service, provider ProviderConfig, pageSize int, logger *zerolog.Logger, m *metrics.Metrics) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		patients: []model.Patient{},
		repo:     repo,
		seeder:   seeder,
		agent:    agentClient,
		timeline: tl,
		provider: provider,
		pageSize: pageSize,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
		newID:    func() string { return "TREAT-" + uuid.NewString() },
	}
}

// Hydrate loads the persisted roster, seeding from the source documents
// when none exists. Any failure degrades to an empty roster; startup is
// never blocked on bad state. Persistence is enabled only once this has
// run.
func (s *Service) Hydrate(ctx context.Context) {
	patients, err := s.repo.Load(ctx)
	seeded := false

	if err != nil {
		if !apperrors.IsNotFound(err) {
			s.logger.Warn().Err(err).Msg("failed to load persisted roster, trying seed data")
		}
		patients, err = s.seeder.Load(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to load seed data, starting with empty roster")
			patients = []model.Patient{}
		} else {
			seeded = true
		}
	}

	for i := range patients {
		if patients[i].Treatments == nil {
			patients[i].Treatments = []model.Treatment{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients = patients
	s.hydrated = true
	s.metrics.SetRosterSize(len(patients))
	if seeded {
		s.persistLocked(ctx)
	}

	s.logger.Info().Int("patients", len(patients)).Bool("seeded", seeded).Msg("roster hydrated")
}

// GetPatient returns a snapshot of one patient.
func (s *Service) GetPatient(_ context.Context, id int) (*model.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.patients {
		if s.patients[i].ID == id {
			p := s.patients[i].Clone()
			return &p, nil
		}
	}
	return nil, apperrors.NewNotFound("patient", nil)
}

// AddPatient assigns the next integer id, derives the date of birth
// from the supplied age, and appends the patient to the roster.
func (s *Service) AddPatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxID := 0
	for i := range s.patients {
		if s.patients[i].ID > maxID {
			maxID = s.patients[i].ID
		}
	}

	patient := model.Patient{
		ID:             maxID + 1,
		Name:           req.Name,
		MemberID:       req.MemberID,
		DOB:            s.now().AddDate(-req.Age, 0, 0).Format("2006-01-02"),
		Insurer:        req.Insurer,
		Mobile:         req.Mobile,
		Email:          req.Email,
		Gender:         req.Gender,
		Age:            req.Age,
		BloodGroup:     req.BloodGroup,
		Vitals:         req.Vitals,
		MedicalHistory: req.MedicalHistory,
		Diagnosis:      req.Diagnosis,
		Prescription:   req.Prescription,
		LabOrders:      req.LabOrders,
		Treatments:     []model.Treatment{},
	}

	s.patients = append(s.patients, patient)
	s.metrics.SetRosterSize(len(s.patients))
	s.metrics.RecordRosterOp("add_patient", "ok")
	s.persistLocked(ctx)

	s.timeline.RecordPatientAdded(ctx, patient.Name)

	out := patient.Clone()
	return &out, nil
}

// UpdatePatient replaces the roster entry whose id matches. A missing
// id is an explicit not-found, not a silent no-op.
func (s *Service) UpdatePatient(ctx context.Context, patient *model.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(ctx, patient)
}

func (s *Service) updateLocked(ctx context.Context, patient *model.Patient) error {
	for i := range s.patients {
		if s.patients[i].ID == patient.ID {
			s.patients[i] = patient.Clone()
			s.metrics.RecordRosterOp("update_patient", "ok")
			s.persistLocked(ctx)
			return nil
		}
	}
	s.metrics.RecordRosterOp("update_patient", "not_found")
	return apperrors.NewNotFound("patient", nil)
}

// RunEligibilityCheck asks the decisioning agent whether the plan
// covers the given procedure and records the decision as a new
// treatment on the patient. No treatment is created when the agent
// call fails.
func (s *Service) RunEligibilityCheck(ctx context.Context, patientID int, clinical model.Clinical) (*model.Treatment, error) {
	patient, err := s.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	firstName, lastName := splitName(patient.Name)
	insurer := patient.Insurer
	if insurer == "" {
		insurer = "Unknown"
	}

	req := &model.EligibilityRequest{
		Patient: model.EligibilityPatient{
			FirstName:     firstName,
			LastName:      lastName,
			DOB:           patient.DOB,
			MemberID:      patient.MemberID,
			InsurancePlan: insurer,
		},
		Clinical: clinical,
		Provider: model.EligibilityProvider{
			NPI:          s.provider.NPI,
			FacilityName: s.provider.FacilityName,
		},
	}

	// The agent call runs outside the roster lock; it may take seconds.
	start := s.now()
	resp, err := s.agent.CheckEligibility(ctx, req)
	if err != nil {
		s.metrics.RecordAgentCall("check_eligibility", "error", s.now().Sub(start))
		return nil, apperrors.NewServiceUnavailable("eligibility", err)
	}
	s.metrics.RecordAgentCall("check_eligibility", "ok", s.now().Sub(start))

	treatment := model.Treatment{
		ID:                  s.newID(),
		Clinical:            clinical,
		EligibilityResponse: resp,
		PreAuthResponse:     nil,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.findLocked(patientID)
	if target == nil {
		return nil, apperrors.NewNotFound("patient", nil)
	}
	target.Treatments = append(target.Treatments, treatment)
	s.metrics.RecordRosterOp("eligibility_check", "ok")
	s.persistLocked(ctx)

	s.timeline.RecordEligibilityCheck(ctx, target.Name, resp.Eligible)

	out := treatment.Clone()
	return &out, nil
}

// SubmitPreAuth submits a pre-authorization packet for one treatment.
// The treatment must carry an eligibility decision that flagged
// pre-auth required, and must not already have a submission; the
// guards fail loudly rather than no-opping.
func (s *Service) SubmitPreAuth(ctx context.Context, patientID int, treatmentID string, doc model.Document) (*model.Treatment, error) {
	patient, err := s.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	var target *model.Treatment
	for i := range patient.Treatments {
		if patient.Treatments[i].ID == treatmentID {
			target = &patient.Treatments[i]
			break
		}
	}
	if target == nil {
		return nil, apperrors.NewNotFound("treatment", nil)
	}
	if err := s.checkPreAuthGuards(target); err != nil {
		return nil, err
	}

	firstName, lastName := splitName(patient.Name)
	req := &model.PreAuthRequest{
		EligibilityRequestID: target.EligibilityResponse.Metadata.RequestID,
		Patient: model.PreAuthPatient{
			MemberID:  patient.MemberID,
			FirstName: firstName,
			LastName:  lastName,
		},
		Clinical: model.PreAuthClinical{
			DiagnosisCode: target.Clinical.DiagnosisCode,
			ProcedureCode: target.Clinical.ProcedureCode,
			ProcedureName: target.Clinical.ProcedureName,
		},
		Documents: []model.Document{doc},
		Provider: model.PreAuthProvider{
			NPI:           s.provider.NPI,
			PhysicianName: s.provider.PhysicianName,
		},
	}

	start := s.now()
	resp, err := s.agent.SubmitPreAuth(ctx, req)
	if err != nil {
		// The treatment's pre-auth stays nil; the caller may retry.
		s.metrics.RecordAgentCall("submit_preauth", "error", s.now().Sub(start))
		return nil, apperrors.NewServiceUnavailable("pre-authorization", err)
	}
	s.metrics.RecordAgentCall("submit_preauth", "ok", s.now().Sub(start))

	s.mu.Lock()
	defer s.mu.Unlock()

	owner := s.findLocked(patientID)
	if owner == nil {
		return nil, apperrors.NewNotFound("patient", nil)
	}
	var current *model.Treatment
	for i := range owner.Treatments {
		if owner.Treatments[i].ID == treatmentID {
			current = &owner.Treatments[i]
			break
		}
	}
	if current == nil {
		return nil, apperrors.NewNotFound("treatment", nil)
	}
	if err := s.checkPreAuthGuards(current); err != nil {
		return nil, err
	}

	current.PreAuthResponse = resp
	s.metrics.RecordRosterOp("preauth_submit", "ok")
	s.persistLocked(ctx)

	s.timeline.RecordPreAuthSubmitted(ctx, owner.Name, current.Clinical.ProcedureCode)

	out := current.Clone()
	return &out, nil
}

// Stats derives the dashboard KPI counts from the current roster.
func (s *Service) Stats(_ context.Context) model.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.ComputeDashboardStats(s.patients)
}

func (s *Service) checkPreAuthGuards(t *model.Treatment) error {
	if t.EligibilityResponse == nil {
		return apperrors.NewConflict("treatment has no eligibility decision", nil)
	}
	if !t.EligibilityResponse.PreAuthRequired {
		return apperrors.NewConflict("pre-authorization is not required for this treatment", nil)
	}
	if t.PreAuthResponse != nil {
		return apperrors.NewConflict("pre-authorization already submitted", nil)
	}
	return nil
}

func (s *Service) findLocked(id int) *model.Patient {
	for i := range s.patients {
		if s.patients[i].ID == id {
			return &s.patients[i]
		}
	}
	return nil
}

// persistLocked writes the full roster through the repository. Failures
// are logged, never propagated: a failed save costs durability, not the
// in-memory state. Skipped until the initial load has completed.
func (s *Service) persistLocked(ctx context.Context) {
	if !s.hydrated {
		return
	}
	if err := s.repo.Save(ctx, s.patients); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist roster")
	}
}

func splitName(name string) (first, last string) {
	parts := strings.SplitN(name, " ", 2)
	first = parts[0]
	if len(parts) > 1 {
		last = parts[1]
	}
	return first, last
}
